package models

// Session is the authenticated identity of a visitor. The zero value is the
// anonymous session.
type Session struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	BearerToken string `json:"-"`
}

// Anonymous reports whether no user is signed in.
func (s Session) Anonymous() bool {
	return s.UserID == "" || s.BearerToken == ""
}

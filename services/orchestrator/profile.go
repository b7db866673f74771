package orchestrator

import (
	"context"

	"sanket/models"
	"sanket/services/fields"
	"sanket/services/render"
)

// LoadProfile fills the profile form from the backend, applying defaults
// to missing fields. Failures leave the form as it was.
func (a *App) LoadProfile(ctx context.Context) error {
	if a.session.Current().Anonymous() {
		return nil
	}

	return a.run(ctx, request{
		name: "load-profile",
		slot: slotProfile,
		call: func(ctx context.Context) (func(), error) {
			token, err := a.token(ctx)
			if err != nil {
				return nil, err
			}
			profile, err := a.gateway.GetProfile(ctx, token)
			if err != nil {
				return nil, err
			}
			if profile == nil {
				return nil, nil
			}
			return func() { a.setProfile(*profile) }, nil
		},
	})
}

// SaveProfile stores the profile and, once saved, looks for matching
// schemes.
func (a *App) SaveProfile(ctx context.Context, profile models.Profile) error {
	err := a.run(ctx, request{
		name:    "save-profile",
		slot:    slotProfile,
		control: func() *Control { return &a.page.ProfileControl },
		prepare: func() {
			a.page.ProfileMessage = ""
			a.page.ProfileFailed = false
			a.page.Profile = profile
			a.page.Fields = fields.ForProfile(profile)
		},
		call: func(ctx context.Context) (func(), error) {
			token, err := a.token(ctx)
			if err != nil {
				return nil, err
			}
			if err := a.gateway.UpdateProfile(ctx, token, profile); err != nil {
				return nil, err
			}
			return func() {
				a.page.ProfileMessage = MsgProfileSaved
			}, nil
		},
		fail: func(err error) {
			a.page.ProfileMessage = "Error: " + message(err, MsgProfileFailed)
			a.page.ProfileFailed = true
		},
	})
	if err != nil {
		return err
	}
	return a.FindSchemes(ctx)
}

// FindSchemes shows the schemes the backend matched to the saved profile.
func (a *App) FindSchemes(ctx context.Context) error {
	return a.run(ctx, request{
		name: "find-schemes",
		slot: slotSchemes,
		prepare: func() {
			a.page.SchemesVisible = true
			a.page.SchemesLoading = true
			a.page.SchemesHTML = ""
			a.page.SchemesError = ""
		},
		call: func(ctx context.Context) (func(), error) {
			token, err := a.token(ctx)
			if err != nil {
				return nil, err
			}
			schemes, err := a.gateway.FindSchemes(ctx, token)
			if err != nil {
				return nil, err
			}
			return func() {
				a.page.SchemesLoading = false
				a.page.SchemesHTML = render.SchemeList(schemes)
			}, nil
		},
		fail: func(err error) {
			a.page.SchemesLoading = false
			a.page.SchemesError = "Error finding schemes: " + message(err, MsgSchemesFailed)
		},
	})
}

// UpdateFields records a change to sex or age in the profile form and
// returns which dependent fields are now visible.
func (a *App) UpdateFields(sex, ageText string) fields.Visibility {
	v := fields.FromInput(sex, ageText)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.page.Profile.Sex = sex
	a.page.Profile.Age = models.FlexString(ageText)
	a.page.Fields = v
	return v
}

// setProfile loads p into the form. Caller holds a.mu.
func (a *App) setProfile(p models.Profile) {
	p = p.WithDefaults(a.maritalDefault)
	a.page.Profile = p
	a.page.Fields = fields.ForProfile(p)
}

package orchestrator

import (
	"errors"

	"sanket/services/gateway"
	"sanket/services/session"
)

var (
	// ErrBusy is returned when a workflow is submitted while its control is
	// still submitting. No backend call is made.
	ErrBusy = errors.New("orchestrator: request already in progress")

	// ErrSuperseded is returned when a newer request in the same slot, or a
	// sign-out, made this completion stale. Its result was discarded.
	ErrSuperseded = errors.New("orchestrator: request superseded")
)

// ValidationError is raised before any backend call when required input is
// missing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	MsgMissingBill       = "Please enter a bill name or upload a PDF file."
	MsgNoAnalysis        = "Please analyze a bill before asking questions."
	MsgEmptyQuestion     = "Please enter a question."
	MsgLoginRequired     = "Please log in to continue."
	MsgAnalyzeFailed     = "Failed to analyze the bill. Please check the backend server."
	MsgCompareFailed     = "Failed to compare bills. Please try again."
	MsgChatFailed        = "Sorry, I could not get an answer. Please try again."
	MsgProfileFailed     = "Could not save your profile."
	MsgProfileSaved      = "Profile saved! Finding your schemes..."
	MsgSchemesFailed     = "Could not find schemes."
	MsgHistorySignedOut  = "Login to see your search history."
	MsgHistoryEmpty      = "No history yet. Analyze a bill to see it here."
	MsgHistoryFailed     = "Could not load history."
	MsgRestoreFailed     = "Could not restore this history entry."
	MsgSignInFailed      = "Could not sign you in. Please try again."
	MsgRegisterFailed    = "Registration failed. Please try again."
	MsgRegisteredNoLogin = "Your account was created but signing in failed. Please log in."
)

// message turns any workflow error into the inline text shown to the user.
func message(err error, fallback string) string {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	if errors.Is(err, session.ErrAnonymous) || errors.Is(err, session.ErrSessionExpired) {
		return MsgLoginRequired
	}
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return gateway.UserMessage(err, fallback)
}

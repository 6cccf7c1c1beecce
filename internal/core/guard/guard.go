// Package guard decides whether a role-protected view may render for the
// current session. The decision is pure UX: the remote API independently
// authorizes every request, and the client makes no security claim here.
package guard

import "github.com/Zephyrodes/farmacia/internal/core/session"

// Outcome is the terminal render decision for a protected view.
type Outcome int

const (
	// Wait: session resolution is in flight; render a neutral placeholder,
	// do not redirect.
	Wait Outcome = iota
	// RedirectToLogin: no authenticated user.
	RedirectToLogin
	// RedirectToUnauthorized: authenticated, but the role is not allowed.
	RedirectToUnauthorized
	// Render: the protected content may be shown.
	Render
)

func (o Outcome) String() string {
	switch o {
	case Wait:
		return "wait"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToUnauthorized:
		return "redirect-to-unauthorized"
	default:
		return "render"
	}
}

// Decision pairs the outcome with the originally requested location, kept
// so a successful login can return there. Best-effort; callers are free to
// ignore it.
type Decision struct {
	Outcome  Outcome
	ReturnTo string
}

// Decide evaluates the session snapshot against the allowed role set.
// An unauthenticated session redirects to login regardless of the roles
// asked for.
func Decide(snap session.Snapshot, allowed []string) Outcome {
	if snap.Status == session.Authenticating {
		return Wait
	}
	if snap.User == nil {
		return RedirectToLogin
	}
	for _, role := range allowed {
		if role == snap.User.Role {
			return Render
		}
	}
	return RedirectToUnauthorized
}

// Check is Decide plus the remembered origin for the post-login return.
func Check(snap session.Snapshot, allowed []string, requested string) Decision {
	outcome := Decide(snap, allowed)
	d := Decision{Outcome: outcome}
	if outcome == RedirectToLogin {
		d.ReturnTo = requested
	}
	return d
}

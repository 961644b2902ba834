package usecase

import (
	"BlogPortal/internal/domain"
)

// Action identifies a mutation awaiting release by the gate.
type Action string

const (
	ActionNone   Action = ""
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// WrongPasswordMessage is shown on a failed challenge attempt. Retries are
// unlimited; a wrong password is a UX event, not a security one.
const WrongPasswordMessage = "Incorrect password! Please try again."

// Authorize reports whether candidate unlocks a blog protected by stored.
// Comparison is verbatim, stored first, then the deployment-wide override.
// Empty stored or override values never match anything: this is an advisory
// client-side gate, not access control.
func Authorize(candidate, stored, override string) bool {
	if stored != "" && candidate == stored {
		return true
	}
	if override != "" && candidate == override {
		return true
	}
	return false
}

// Release tells the caller which action the gate unlocked and the password to
// forward on delete: always the blog's own stored password (nil when the blog
// is unprotected), regardless of which credential passed the challenge.
type Release struct {
	Action   Action
	Password *string
}

// Gate decides whether an edit/delete intent on a loaded blog may proceed.
// It is either idle or awaiting a password for exactly one pending action;
// the error text only exists while a challenge is pending.
type Gate struct {
	stored   string
	password *string
	override string
	pending  Action
	errMsg   string
}

// NewGate builds an idle gate for one blog-viewing session.
func NewGate(blog domain.Blog, override string) *Gate {
	return &Gate{
		stored:   blog.StoredPassword(),
		password: blog.Password,
		override: override,
	}
}

// RequestAction asks the gate to release action. Unprotected blogs release
// immediately and the gate stays idle; protected ones start a challenge.
func (g *Gate) RequestAction(action Action) (Release, bool) {
	if action != ActionEdit && action != ActionDelete {
		return Release{}, false
	}

	if g.stored == "" {
		return g.release(action), true
	}

	g.pending = action
	g.errMsg = ""
	return Release{}, false
}

// SubmitPassword validates a challenge response. On a match the pending
// action is released and the gate returns to idle; on a mismatch the
// challenge stays up with an error message. Calls with no pending challenge
// are no-ops.
func (g *Gate) SubmitPassword(candidate string) (Release, bool) {
	if g.pending == ActionNone {
		return Release{}, false
	}

	if !Authorize(candidate, g.stored, g.override) {
		g.errMsg = WrongPasswordMessage
		return Release{}, false
	}

	action := g.pending
	g.pending = ActionNone
	g.errMsg = ""
	return g.release(action), true
}

// Cancel dismisses a pending challenge with no side effect.
func (g *Gate) Cancel() {
	g.pending = ActionNone
	g.errMsg = ""
}

// Restore rehydrates a challenge carried across requests. Invalid actions
// leave the gate idle, so error text can never surface without a pending
// challenge.
func (g *Gate) Restore(action Action, errMsg string) {
	if action != ActionEdit && action != ActionDelete {
		return
	}
	if g.stored == "" {
		return
	}
	g.pending = action
	g.errMsg = errMsg
}

// Pending returns the action awaiting a password, or ActionNone.
func (g *Gate) Pending() Action {
	return g.pending
}

// ChallengeError returns the last failed-attempt message, if any.
func (g *Gate) ChallengeError() string {
	return g.errMsg
}

func (g *Gate) release(action Action) Release {
	return Release{Action: action, Password: g.password}
}

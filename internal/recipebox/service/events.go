package service

import "github.com/aussiebroadwan/recipebox/internal/recipebox/domain"

// Event names published on the bus.
const (
	EventUserLoggedIn  = "userLoggedIn"
	EventUserLoggedOut = "userLoggedOut"
)

// UserLoggedIn is published after a successful login of any kind.
type UserLoggedIn struct {
	Identity domain.SessionIdentity
}

func (UserLoggedIn) EventName() string { return EventUserLoggedIn }

// UserLoggedOut is published after an effective sign-out.
type UserLoggedOut struct{}

func (UserLoggedOut) EventName() string { return EventUserLoggedOut }

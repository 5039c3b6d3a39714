package domain

// UserAccount is a locally registered account. Password is kept in plaintext;
// the account registry is not a security boundary.
type UserAccount struct {
	ID         string
	Username   string // unique, case-sensitive
	Password   string
	Email      string // optional
	Name       string
	PictureURL string
}

// SessionIdentity is the public profile of whoever is signed in. Username is
// empty for identities that came from an external provider.
type SessionIdentity struct {
	ID         string
	Name       string
	Email      string
	PictureURL string
	Username   string
}

// Identity projects an account onto the fields a session carries.
func (u UserAccount) Identity() SessionIdentity {
	return SessionIdentity{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		PictureURL: u.PictureURL,
		Username:   u.Username,
	}
}

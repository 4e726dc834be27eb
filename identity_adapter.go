package auth

// UserIdentity adapts a User plus its store-reported roles into the
// Identity interface for token generation.
type UserIdentity struct {
	user  *User
	roles []string
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
// Role order is preserved as given.
func NewIdentityFromUser(user *User, roles []string) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user, roles: roles}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Username returns the user's username.
func (u UserIdentity) Username() string {
	if u.user == nil {
		return ""
	}
	return u.user.Username
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// Roles returns the user's role names in store-reported order.
func (u UserIdentity) Roles() []string {
	return u.roles
}

package domain

type User struct {
	ID       uint64
	Name     string
	Email    string
	Avatar   *string
	IsActive bool
}

// NewUser returns an active user without an avatar. The email is stored as given.
func NewUser(id uint64, name, email string) User {
	return User{
		ID:       id,
		Name:     name,
		Email:    email,
		Avatar:   nil,
		IsActive: true,
	}
}

func (u User) WithAvatar(avatar string) User {
	u.Avatar = &avatar
	return u
}

// Clone returns a copy that shares no memory with u.
func (u User) Clone() User {
	if u.Avatar != nil {
		avatar := *u.Avatar
		u.Avatar = &avatar
	}
	return u
}

func (u User) HasAvatar() bool {
	return u.Avatar != nil
}

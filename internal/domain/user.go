package domain

import "time"

// User represents a registered account.
type User struct {
	ID           int64
	Firstname    string
	Lastname     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserPatch carries the fields of a partial user update. A nil field was
// not supplied by the caller and is left untouched.
type UserPatch struct {
	Firstname *string
	Lastname  *string
	Email     *string
	// Password must hold the bcrypt hash by the time the patch reaches
	// the repository.
	Password *string
}

// Empty reports whether the patch touches no fields.
func (p UserPatch) Empty() bool {
	return p.Firstname == nil && p.Lastname == nil && p.Email == nil && p.Password == nil
}

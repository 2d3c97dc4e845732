package domain

import "time"

// User is the sole entity of the account service. Records are created once
// via registration and read during login; there is no update or delete path.
type User struct {
	ID           string // opaque, assigned by the store at creation
	Username     string // globally unique, immutable
	PasswordHash string // bcrypt encoded, never the plaintext
	Email        string // globally unique
	Gender       string // free-form, no enumeration enforced
	CreatedAt    time.Time
}

package ports

// PasswordHasher derives the stored password hash of a user.
type PasswordHasher interface {
	// Hash returns the hex digest of secret salted with the user id.
	Hash(id, secret string) (string, error)
}

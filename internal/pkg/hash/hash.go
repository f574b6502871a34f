package hash

// Hash hashes secrets and verifies plaintext against stored hashes.
type Hash interface {
	// Hash returns the hashed form of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}

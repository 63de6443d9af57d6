package auth

import domain "dashnotes/backend/internal/domain/auth"

// TokenManager abstracts session token issuance and verification.
type TokenManager interface {
	Issue(identity domain.Identity) (string, error)
	Verify(token string) (domain.Identity, error)
}

// PasswordHasher abstracts one-way password hashing.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

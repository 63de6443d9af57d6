package password

import (
	"fmt"

	usecase "dashnotes/backend/internal/usecase/auth"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// Bcrypt hashes and verifies passwords with bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt constructs a hasher. Costs outside bcrypt's accepted range fall back to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Ensure Bcrypt implements the PasswordHasher interface.
var _ usecase.PasswordHasher = (*Bcrypt)(nil)

// Hash returns a salted digest of the plaintext.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed digests compare as false.
func (b *Bcrypt) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned when a plaintext password does not match its hash.
var ErrPasswordMismatch = errors.New("auth: password mismatch")

// decoyHash is compared against when no account exists so unknown emails cost the same bcrypt work.
var decoyHash, _ = bcrypt.GenerateFromPassword([]byte("catalog-admin-decoy"), bcrypt.DefaultCost)

// HashPassword hashes a plaintext password. Costs below bcrypt.MinCost use the default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword verifies plain against hashed. A wrong password yields ErrPasswordMismatch;
// any other error means the stored hash is unusable.
func ComparePassword(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// SpendCompare burns one comparison's worth of work for a login with an unknown email.
func SpendCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(plain))
}

package auth

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when a login targets an unknown username so
// both failure paths burn one bcrypt verification. Cost matches
// passwordHashCost.
var dummyHash = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), passwordHashCost())
	if err != nil {
		panic(err)
	}
	return string(h)
})

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// CompareDummyHash burns a bcrypt comparison without revealing anything.
// It always fails.
func CompareDummyHash(password string) error {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash()), []byte(password))
	return ErrMismatchedHashAndPassword
}

// NewSecurityStamp returns a fresh opaque stamp for a principal. The store
// uses it to invalidate previously issued security state; this package only
// generates it.
func NewSecurityStamp() string {
	return uuid.NewString()
}

package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash in full.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// BcryptCost is the work factor for new hashes.
var BcryptCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

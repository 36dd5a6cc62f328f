package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyPassword      = errors.New("password cannot be empty")
)

// BcryptCost is the cost factor used by HashPassword.
const BcryptCost = 12

// Operator is the single configured account allowed to manage restrictions.
type Operator struct {
	username     string
	passwordHash []byte
}

// NewOperator returns an operator account. passwordHash must be a bcrypt hash.
func NewOperator(username, passwordHash string) (*Operator, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, err
	}
	return &Operator{username: username, passwordHash: []byte(passwordHash)}, nil
}

// Username returns the operator's login name.
func (o *Operator) Username() string {
	return o.username
}

// Verify checks a username/password pair. The hash is always compared so a wrong
// username costs the same as a wrong password.
func (o *Operator) Verify(username, password string) error {
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(o.username)) == 1
	hashErr := bcrypt.CompareHashAndPassword(o.passwordHash, []byte(password))
	if !nameOK || hashErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword hashes a password for use in configuration.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	ProfileIDAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"
	ProfileIDLength   = 24
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString draws each character uniformly from alphabet using crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}
	return string(value), nil
}

// NewProfileID returns the opaque id that scopes one browser session's data.
func NewProfileID() (string, error) {
	return RandomString(ProfileIDLength, ProfileIDAlphabet)
}

func IsProfileID(value string) bool {
	if len(value) != ProfileIDLength {
		return false
	}
	for _, char := range value {
		if !strings.ContainsRune(ProfileIDAlphabet, char) {
			return false
		}
	}
	return true
}

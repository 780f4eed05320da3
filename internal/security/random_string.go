package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerLetters = "abcdefghijkmnopqrstuvwxyz"
	digits       = "23456789"

	// PasswordAlphabet leaves out characters that are easy to misread.
	PasswordAlphabet = upperLetters + lowerLetters + digits

	minimumTemporaryPasswordLength = 8
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
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

	value := make([]byte, length)
	for index := range value {
		char, err := randomByte(alphabet)
		if err != nil {
			return "", err
		}
		value[index] = char
	}
	return string(value), nil
}

// TemporaryPassword returns a password from PasswordAlphabet with at least one
// upper case letter, one lower case letter and one digit. Lengths below 8 are
// raised to 8.
func TemporaryPassword(length int) (string, error) {
	if length < minimumTemporaryPasswordLength {
		length = minimumTemporaryPasswordLength
	}

	raw, err := RandomString(length, PasswordAlphabet)
	if err != nil {
		return "", err
	}
	value := []byte(raw)

	positions, err := distinctPositions(length, 3)
	if err != nil {
		return "", err
	}
	for index, class := range []string{upperLetters, lowerLetters, digits} {
		char, err := randomByte(class)
		if err != nil {
			return "", err
		}
		value[positions[index]] = char
	}
	return string(value), nil
}

func randomByte(alphabet string) (byte, error) {
	position, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[position.Int64()], nil
}

// distinctPositions picks count different indexes below length.
func distinctPositions(length int, count int) ([]int, error) {
	positions := make([]int, 0, count)
	taken := make(map[int]bool, count)
	for len(positions) < count {
		position, err := rand.Int(rand.Reader, big.NewInt(int64(length)))
		if err != nil {
			return nil, err
		}
		index := int(position.Int64())
		if taken[index] {
			continue
		}
		taken[index] = true
		positions = append(positions, index)
	}
	return positions, nil
}

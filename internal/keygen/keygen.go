// Package keygen generates the short alphanumeric keys used as public
// short-link codes. Keys are drawn uniformly from crypto/rand and must be
// collision-checked against the owning store before acceptance.
package keygen

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Alphabet is the 62-symbol alphabet short codes are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ShortCodeLength is the fixed length of a public short code.
const ShortCodeLength = 6

const triesToGenerateUniqueKey = 10

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// ErrTooManyCollisions is returned when the retry budget for finding an
// unoccupied key is exhausted.
var ErrTooManyCollisions = errors.New("the number of attempts to generate a unique key has been exceeded")

// RandomString returns a uniformly random string of the given length over
// Alphabet.
func RandomString(length int) (string, error) {
	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		randomIndex, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		builder.WriteByte(Alphabet[randomIndex.Int64()])
	}

	return builder.String(), nil
}

// UniqueShortCode generates a ShortCodeLength key that the given predicate
// reports as unoccupied, regenerating on collision. The predicate is called
// once per candidate; the caller is expected to hold whatever lock makes the
// check-and-insert atomic.
func UniqueShortCode(exists func(string) bool) (string, error) {
	for i := 0; i < triesToGenerateUniqueKey; i++ {
		shortKey, err := RandomString(ShortCodeLength)
		if err != nil {
			return "", err
		}
		if !exists(shortKey) {
			return shortKey, nil
		}
	}

	return "", ErrTooManyCollisions
}

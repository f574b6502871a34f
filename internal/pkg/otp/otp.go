package otp

import (
	"crypto/rand"
	"math/big"
)

// digits is the alphabet used for numeric codes.
const digits = "0123456789"

// OTP defines the contract for one-time password generation.
type OTP interface {
	// Generate creates a new numeric code.
	Generate() (string, error)
}

// Numeric generates fixed-length numeric codes using crypto/rand.
//
// Each digit is drawn independently so codes keep a uniform distribution,
// including leading zeros.
type Numeric struct {
	length int
}

// NewNumeric constructs a Numeric generator. If length is not positive, it
// falls back to the common 6 digits.
func NewNumeric(length int) *Numeric {
	if length <= 0 {
		length = 6
	}

	return &Numeric{length: length}
}

// Generate creates a new numeric code.
func (o *Numeric) Generate() (string, error) {
	max := big.NewInt(int64(len(digits)))
	code := make([]byte, o.length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = digits[n.Int64()]
	}

	return string(code), nil
}

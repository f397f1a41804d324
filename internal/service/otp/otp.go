package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Issuer generates fixed-width numeric one-time codes with a fixed
// validity window. It holds no state between calls.
type Issuer struct {
	digits int
	ttl    time.Duration
}

func NewIssuer(digits int, ttl time.Duration) *Issuer {
	return &Issuer{digits: digits, ttl: ttl}
}

func (i *Issuer) Issue() (string, time.Time) {
	return randomCode(i.digits), time.Now().Add(i.ttl)
}

func (i *Issuer) Digits() int {
	return i.digits
}

func randomCode(digits int) string {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil) // 10^digits
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// there is no usable fallback for credential material.
		panic(err)
	}
	return fmt.Sprintf("%0*d", digits, n.Int64())
}

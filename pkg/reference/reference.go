// Package reference generates the human-readable external order references
// shared with the payment processor and surfaced to customers.
package reference

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	prefix = "FL"
	// No 0/O/1/I so the reference survives being read over the phone.
	alphabet  = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	suffixLen = 6
)

// New returns a reference of the form FL-20260831-8FK2QZ. The suffix is drawn
// from crypto/rand, so collisions across attempts are negligible.
func New(now time.Time) (string, error) {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random suffix: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), string(buf)), nil
}

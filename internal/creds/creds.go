// Package creds generates MC portal login credentials: deterministic
// usernames derived from the member's name and unit, and random
// temporary passwords suitable for one-time emailed delivery.
package creds

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// TenantSuffix identifies the community instance in generated usernames.
const TenantSuffix = "@mc-2527"

// passwordAlphabet excludes visually confusable characters (0, O, I, l, 1)
// since temporary passwords are read out of an email and retyped.
const passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

// PasswordLength is the fixed length of generated temporary passwords.
const PasswordLength = 12

// TempPassword returns a random temporary password of PasswordLength
// characters drawn uniformly from the unambiguous alphabet. It is not a
// long-lived credential: it is rotated on first login.
func TempPassword() (string, error) {
	var b strings.Builder
	b.Grow(PasswordLength)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < PasswordLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to sample password character: %w", err)
		}
		b.WriteByte(passwordAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Username builds the base portal username for a member:
// the first name token, capitalized, joined with the unit number and
// the tenant suffix. "ravi kumar" in unit 402 becomes "Ravi-402@mc-2527".
// Deterministic given (name, unit); collisions between members sharing a
// first name and unit are resolved by UsernameWithTimestamp.
func Username(name, unitNo string) string {
	first := name
	if i := strings.IndexAny(first, " \t"); i >= 0 {
		first = first[:i]
	}
	if first == "" {
		return fmt.Sprintf("-%s%s", unitNo, TenantSuffix)
	}
	// Split on the first rune, not the first byte: names are not
	// always ASCII.
	r, size := utf8.DecodeRuneInString(first)
	clean := string(unicode.ToUpper(r)) + strings.ToLower(first[size:])
	return fmt.Sprintf("%s-%s%s", clean, unitNo, TenantSuffix)
}

// UsernameWithTimestamp disambiguates a colliding base username by
// inserting the current time in base 36 before the tenant suffix:
// "Ravi-402@mc-2527" becomes "Ravi-402-<base36 millis>@mc-2527".
// Millisecond resolution makes a repeat collision within the retry loop
// effectively impossible.
func UsernameWithTimestamp(base string, now time.Time) string {
	stem := strings.TrimSuffix(base, TenantSuffix)
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	return fmt.Sprintf("%s-%s%s", stem, ts, TenantSuffix)
}

package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	referralPrefixLen    = 4
	referralMaxAttempts  = 10
	referralSuffixMin    = 1000
	referralSuffixSpread = 9000
)

// ReferralPrefix upper-cases the first four ASCII letters of name, padding
// with X when the name is shorter.
func ReferralPrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r < 'A' || r > 'Z' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == referralPrefixLen {
			break
		}
	}

	for b.Len() < referralPrefixLen {
		b.WriteByte('X')
	}

	return b.String()
}

// GenerateUniqueReferralCode returns PREFIX + 4 digits not present in existing.
// After referralMaxAttempts random collisions it falls back to the last four
// digits of the current unix millisecond timestamp, which is not checked.
func GenerateUniqueReferralCode(name string, existing []string) string {
	return generateReferralCode(name, existing, time.Now)
}

func generateReferralCode(name string, existing []string, now func() time.Time) string {
	prefix := ReferralPrefix(name)

	taken := make(map[string]struct{}, len(existing))
	for _, code := range existing {
		taken[strings.ToUpper(code)] = struct{}{}
	}

	for range referralMaxAttempts {
		code := prefix + randomSuffix()
		if _, ok := taken[code]; !ok {
			return code
		}
	}

	millis := fmt.Sprintf("%d", now().UnixMilli())
	return prefix + millis[len(millis)-4:]
}

func randomSuffix() string {
	n, err := rand.Int(rand.Reader, big.NewInt(referralSuffixSpread))
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Errorf("read random referral suffix: %w", err))
	}
	return fmt.Sprintf("%04d", referralSuffixMin+n.Int64())
}

package codes

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var referralPattern = regexp.MustCompile(`^[A-Z]{4}\d{4}$`)

func TestGenerateUniqueReferralCode(t *testing.T) {
	code := GenerateUniqueReferralCode("Dave Smith", nil)

	assert.Regexp(t, referralPattern, code)
	assert.Equal(t, "DAVE", code[:4])
}

func TestGenerateUniqueReferralCodeAvoidsExisting(t *testing.T) {
	existing := make([]string, 0, 100)
	for n := 1000; n < 1100; n++ {
		existing = append(existing, fmt.Sprintf("DAVE%04d", n))
	}

	for range 50 {
		code := GenerateUniqueReferralCode("Dave Smith", existing)
		assert.Regexp(t, referralPattern, code)
		assert.NotContains(t, existing, code)
	}
}

func TestGenerateUniqueReferralCodeFallsBackWhenExhausted(t *testing.T) {
	existing := make([]string, 0, 9999)
	for n := 1; n <= 9999; n++ {
		existing = append(existing, fmt.Sprintf("DAVE%04d", n))
	}

	fixed := time.UnixMilli(1760000012345)
	code := generateReferralCode("Dave Smith", existing, func() time.Time { return fixed })

	assert.Equal(t, "DAVE2345", code)
}

func TestGenerateUniqueReferralCodeExhaustedUsesClock(t *testing.T) {
	existing := make([]string, 0, 9999)
	for n := 1; n <= 9999; n++ {
		existing = append(existing, fmt.Sprintf("DAVE%04d", n))
	}

	assert.NotPanics(t, func() {
		code := GenerateUniqueReferralCode("Dave Smith", existing)
		assert.Regexp(t, referralPattern, code)
	})
}

func TestReferralPrefix(t *testing.T) {
	cases := map[string]string{
		"Dave Smith":   "DAVE",
		"al":           "ALXX",
		"O'Neil Jones": "ONEI",
		"  jo-ann  ":   "JOAN",
		"":             "XXXX",
	}

	for name, want := range cases {
		assert.Equal(t, want, ReferralPrefix(name), name)
	}
}

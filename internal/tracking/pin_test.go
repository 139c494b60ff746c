package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedPIN(t *testing.T) {
	cases := map[string]string{
		"+1 (555) 123-4567": "4567",
		"09171234567":       "4567",
		"0917 123 0001":     "0001",
		"12-34":             "1234",
		"12":                "12",
		"":                  "",
	}

	for phone, want := range cases {
		assert.Equal(t, want, ExpectedPIN(phone), phone)
	}
}

func TestWellFormedPIN(t *testing.T) {
	for _, pin := range []string{"0000", "4567", "9999"} {
		assert.True(t, WellFormedPIN(pin), pin)
	}

	for _, pin := range []string{"", "123", "12345", "12a4", " 123", "١٢٣٤", "-123"} {
		assert.False(t, WellFormedPIN(pin), pin)
	}
}

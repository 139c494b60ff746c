package tracking

import "github.com/davecharm16/startpoint-academics-sub001/internal/utils"

const pinLength = 4

// ExpectedPIN is the last four digits of phone once every non-digit is removed.
// Phones with fewer than four digits yield all of their digits, which never
// match a well-formed PIN.
func ExpectedPIN(phone string) string {
	digits := utils.DigitsOnly(phone)
	if len(digits) <= pinLength {
		return digits
	}
	return digits[len(digits)-pinLength:]
}

// WellFormedPIN reports whether pin is exactly four ASCII digits.
func WellFormedPIN(pin string) bool {
	if len(pin) != pinLength {
		return false
	}
	return utils.DigitsOnly(pin) == pin
}

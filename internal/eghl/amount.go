package eghl

import (
	"fmt"
	"regexp"
	"strconv"
)

var amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)

// FormatAmount converts minor currency units to the gateway's fixed
// two-decimal string, e.g. 9950 -> "99.50". Integer math only; the conversion
// is exact for every non-negative input.
func FormatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}

// ParseAmount is the inverse of FormatAmount. It rejects anything not
// matching the gateway's digits.digits(2) pattern.
func ParseAmount(s string) (int64, error) {
	if !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("amount %q does not match the gateway format", s)
	}
	whole, err := strconv.ParseInt(s[:len(s)-3], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	cents, err := strconv.ParseInt(s[len(s)-2:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	return whole*100 + cents, nil
}

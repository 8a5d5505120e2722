// Package barcode validates product codes typed in by the user. There is no
// image decoding here: a code is always entered manually.
package barcode

import (
	"errors"
	"strings"
)

var ErrInvalidBarcode = errors.New("invalid barcode")

// Normalize drops spaces and dashes that users commonly type.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// Validate accepts 8 to 14 digit codes. For the GTIN lengths (8, 12, 13, 14)
// the mod-10 check digit must also match.
func Validate(code string) error {
	if len(code) < 8 || len(code) > 14 {
		return ErrInvalidBarcode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrInvalidBarcode
		}
	}

	switch len(code) {
	case 8, 12, 13, 14:
		if !checkDigitOK(code) {
			return ErrInvalidBarcode
		}
	}
	return nil
}

// Parse normalizes and validates in one step.
func Parse(s string) (string, error) {
	code := Normalize(s)
	if err := Validate(code); err != nil {
		return "", err
	}
	return code, nil
}

func checkDigitOK(code string) bool {
	sum := 0
	body := code[:len(code)-1]
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		// Weights alternate 3,1,3,... from the digit next to the check digit.
		if (len(body)-1-i)%2 == 0 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return check == int(code[len(code)-1]-'0')
}

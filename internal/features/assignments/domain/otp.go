package domain

import (
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// OTPLength is the number of digits in a delivery confirmation code.
const OTPLength = 6

// ValidateOTP checks the shape of a delivery confirmation code before it is
// sent upstream. Only the server knows whether the code is correct.
func ValidateOTP(code string) error {
	return validation.Validate(code,
		validation.Required,
		validation.Length(OTPLength, OTPLength),
		is.Digit,
	)
}

// OTPInput models the six-box code entry the agent fills in while standing
// at the customer's door. One digit per box, with focus tracking so entry,
// correction and paste behave like a physical keypad.
type OTPInput struct {
	digits [OTPLength]rune
	focus  int
}

// NewOTPInput returns an empty input focused on the first box.
func NewOTPInput() *OTPInput {
	return &OTPInput{}
}

// SetDigit places a digit in the focused box and advances focus.
// Non-digit input is ignored.
func (o *OTPInput) SetDigit(value rune) bool {
	if !unicode.IsDigit(value) {
		return false
	}
	o.digits[o.focus] = value
	if o.focus < OTPLength-1 {
		o.focus++
	}
	return true
}

// Backspace clears the focused box, or moves back and clears the previous
// box when the focused one is already empty.
func (o *OTPInput) Backspace() {
	if o.digits[o.focus] == 0 && o.focus > 0 {
		o.focus--
	}
	o.digits[o.focus] = 0
}

// Paste fills the boxes from the digits of the pasted text, starting at the
// first box, and focuses the box after the last filled one.
func (o *OTPInput) Paste(text string) {
	pos := 0
	for _, r := range strings.TrimSpace(text) {
		if pos >= OTPLength {
			break
		}
		if !unicode.IsDigit(r) {
			continue
		}
		o.digits[pos] = r
		pos++
	}
	for i := pos; i < OTPLength; i++ {
		o.digits[i] = 0
	}
	o.focus = pos
	if o.focus > OTPLength-1 {
		o.focus = OTPLength - 1
	}
}

// Focus returns the index of the focused box.
func (o *OTPInput) Focus() int {
	return o.focus
}

// Complete reports whether every box holds a digit.
func (o *OTPInput) Complete() bool {
	for _, d := range o.digits {
		if d == 0 {
			return false
		}
	}
	return true
}

// Code returns the entered digits as a string. Empty boxes are skipped,
// so only a Complete input yields a submittable code.
func (o *OTPInput) Code() string {
	var b strings.Builder
	for _, d := range o.digits {
		if d != 0 {
			b.WriteRune(d)
		}
	}
	return b.String()
}

// Clear resets every box and returns focus to the first one.
func (o *OTPInput) Clear() {
	*o = OTPInput{}
}

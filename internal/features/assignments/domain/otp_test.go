package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateOTP verifies the shape checks applied before submission.
func TestValidateOTP(t *testing.T) {
	assert.NoError(t, ValidateOTP("123456"))
	assert.Error(t, ValidateOTP(""))
	assert.Error(t, ValidateOTP("12345"))
	assert.Error(t, ValidateOTP("1234567"))
	assert.Error(t, ValidateOTP("12a456"))
}

// TestOTPInput_TypingAdvancesFocus verifies digit entry moves box by box.
func TestOTPInput_TypingAdvancesFocus(t *testing.T) {
	input := NewOTPInput()

	assert.True(t, input.SetDigit('1'))
	assert.True(t, input.SetDigit('2'))
	assert.Equal(t, 2, input.Focus())
	assert.False(t, input.Complete())

	assert.False(t, input.SetDigit('x'))
	assert.Equal(t, 2, input.Focus())
}

// TestOTPInput_CompleteOnlyWithSixDigits verifies submission gating.
func TestOTPInput_CompleteOnlyWithSixDigits(t *testing.T) {
	input := NewOTPInput()
	for _, r := range "12345" {
		input.SetDigit(r)
	}
	assert.False(t, input.Complete())

	input.SetDigit('6')
	assert.True(t, input.Complete())
	assert.Equal(t, "123456", input.Code())
}

// TestOTPInput_PasteFillsAndFocusesLast verifies pasting a full code.
func TestOTPInput_PasteFillsAndFocusesLast(t *testing.T) {
	input := NewOTPInput()
	input.Paste("123456")

	assert.True(t, input.Complete())
	assert.Equal(t, "123456", input.Code())
	assert.Equal(t, 5, input.Focus())
}

// TestOTPInput_PasteIgnoresNonDigits verifies mixed clipboard content.
func TestOTPInput_PasteIgnoresNonDigits(t *testing.T) {
	input := NewOTPInput()
	input.Paste("code: 12-34-56")

	assert.True(t, input.Complete())
	assert.Equal(t, "123456", input.Code())
}

// TestOTPInput_PartialPaste verifies focus lands after the last filled box.
func TestOTPInput_PartialPaste(t *testing.T) {
	input := NewOTPInput()
	input.Paste("123")

	assert.False(t, input.Complete())
	assert.Equal(t, 3, input.Focus())
}

// TestOTPInput_BackspaceStepsBack verifies correction behavior.
func TestOTPInput_BackspaceStepsBack(t *testing.T) {
	input := NewOTPInput()
	input.SetDigit('1')
	input.SetDigit('2')

	// Focused box is empty: backspace moves back and clears the previous one.
	input.Backspace()
	assert.Equal(t, 1, input.Focus())
	assert.Equal(t, "1", input.Code())

	input.Backspace()
	assert.Equal(t, 0, input.Focus())
	assert.Equal(t, "", input.Code())
}

// TestOTPInput_Clear verifies the reset.
func TestOTPInput_Clear(t *testing.T) {
	input := NewOTPInput()
	input.Paste("123456")
	input.Clear()

	assert.False(t, input.Complete())
	assert.Equal(t, 0, input.Focus())
	assert.Equal(t, "", input.Code())
}

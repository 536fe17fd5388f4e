package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerified_DerivedFromSSN(t *testing.T) {
	u := &User{Email: "a@x.com"}
	assert.False(t, u.Verified())

	u.SSN = "123-45-6789"
	assert.True(t, u.Verified())

	u.SSN = ""
	assert.False(t, u.Verified())
}

func TestVerificationFields_Empty(t *testing.T) {
	assert.True(t, VerificationFields{}.Empty())
	assert.False(t, VerificationFields{BankName: "X"}.Empty())
	assert.False(t, VerificationFields{PhotoIDFront: "aW1n"}.Empty())
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret")
	assert.NoError(t, err)
	assert.NotEqual(t, "Sup3r$ecret", hash)

	assert.True(t, CheckPassword(hash, "Sup3r$ecret"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}

func TestValidatePasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid", "Abcdef1$", true},
		{"too short", "Ab1$xyz", false},
		{"no uppercase", "abcdef1$", false},
		{"no lowercase", "ABCDEF1$", false},
		{"no digit", "Abcdefg$", false},
		{"no special", "Abcdefg1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

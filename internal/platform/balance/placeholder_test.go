package balance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurevia/walletsync/internal/platform/balance"
)

func TestIsPlaceholderAddress(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		expected bool
	}{
		{"sequential digits", "0x1234567890123456789012345678901234567890", true},
		{"sequential from zero", "0x0123456789012345678901234567890123456789", true},
		{"dead suffix", "0x000000000000000000000000000000000000dead", true},
		{"deadbeef suffix", "0x00000000000000000000000000000000deadbeef", true},
		{"zero address", "0x0000000000000000000000000000000000000000", true},
		{"repeated ones", "0x1111111111111111111111111111111111111111", true},
		{"repeated f", "0xffffffffffffffffffffffffffffffffffffffff", true},
		{"repeated f uppercase", "0xFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF", true},
		{"real-looking contract", "0xdAC17F958D2ee523a2206206994597C13D831ec7", false},
		{"real-looking wallet", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"empty string", "", false},
		{"missing prefix", "1234567890123456789012345678901234567890", false},
		{"too short", "0x1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, balance.IsPlaceholderAddress(tt.address))
		})
	}
}

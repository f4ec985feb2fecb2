package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurevia/walletsync/internal/platform/provider"
)

func TestToChecksumAddress(t *testing.T) {
	// Reference vectors from EIP-55
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"all caps source",
			"0x52908400098527886e0f7030069857d2e4169ee7",
			"0x52908400098527886E0F7030069857D2E4169EE7",
		},
		{
			"mixed checksum 1",
			"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		},
		{
			"mixed checksum 2",
			"0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
			"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		},
		{
			"mixed checksum 3",
			"0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb",
			"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, provider.ToChecksumAddress(tt.input))
		})
	}
}

func TestValidateAddress(t *testing.T) {
	t.Run("lowercase address is checksummed", func(t *testing.T) {
		got, err := provider.ValidateAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
		require.NoError(t, err)
		assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", got)
	})

	t.Run("valid checksummed address passes", func(t *testing.T) {
		got, err := provider.ValidateAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
		require.NoError(t, err)
		assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", got)
	})

	t.Run("wrong checksum rejected", func(t *testing.T) {
		_, err := provider.ValidateAddress("0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
		assert.ErrorIs(t, err, provider.ErrInvalidChecksum)
	})

	t.Run("empty address rejected", func(t *testing.T) {
		_, err := provider.ValidateAddress("")
		assert.ErrorIs(t, err, provider.ErrMissingAddress)
	})

	t.Run("malformed addresses rejected", func(t *testing.T) {
		for _, input := range []string{
			"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beae",
			"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaedff",
			"0xZZZeb6053f3e94c9b9a09f33669435e7ef1beaed",
		} {
			_, err := provider.ValidateAddress(input)
			assert.ErrorIs(t, err, provider.ErrInvalidAddress, input)
		}
	})
}

func TestAddressesEqual(t *testing.T) {
	assert.True(t, provider.AddressesEqual(
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
	))
	assert.False(t, provider.AddressesEqual(
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
	))
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t,
		"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		provider.NormalizeAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"),
	)
}

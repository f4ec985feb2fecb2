package provider

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

var (
	// ErrMissingAddress indicates an empty address where one is required
	ErrMissingAddress = errors.New("address is required")
	// ErrInvalidAddress indicates a syntactically invalid EVM address
	ErrInvalidAddress = errors.New("invalid EVM address format (must be 0x followed by 40 hex characters)")
	// ErrInvalidChecksum indicates a mixed-case address failing EIP-55
	ErrInvalidChecksum = errors.New("invalid EVM address checksum")
)

// EVM address regex: 0x followed by exactly 40 hex characters
var evmAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ValidateAddress validates an EVM address and returns the EIP-55 checksummed
// version. Returns an error if the address is invalid.
func ValidateAddress(address string) (string, error) {
	if address == "" {
		return "", ErrMissingAddress
	}

	if !evmAddressRegex.MatchString(address) {
		return "", ErrInvalidAddress
	}

	checksummed := ToChecksumAddress(address)

	// If the input was mixed case, it claims to be checksummed; verify it.
	if isChecksummed(address) && address != checksummed {
		return "", ErrInvalidChecksum
	}

	return checksummed, nil
}

// ToChecksumAddress converts an EVM address to EIP-55 checksummed format.
// https://eips.ethereum.org/EIPS/eip-55
func ToChecksumAddress(address string) string {
	addr := strings.ToLower(strings.TrimPrefix(address, "0x"))

	hash := keccak256([]byte(addr))

	var result strings.Builder
	result.WriteString("0x")

	for i, c := range addr {
		if c >= '0' && c <= '9' {
			result.WriteRune(c)
			continue
		}
		// Uppercase the letter when the corresponding hash nibble is >= 8
		hashByte := hash[i/2]
		var nibble byte
		if i%2 == 0 {
			nibble = hashByte >> 4
		} else {
			nibble = hashByte & 0x0F
		}

		if nibble >= 8 {
			result.WriteRune(c - 32)
		} else {
			result.WriteRune(c)
		}
	}

	return result.String()
}

// isChecksummed checks if an address appears to be checksummed (has mixed case)
func isChecksummed(address string) bool {
	addr := strings.TrimPrefix(address, "0x")
	hasUpper := false
	hasLower := false

	for _, c := range addr {
		if c >= 'A' && c <= 'F' {
			hasUpper = true
		}
		if c >= 'a' && c <= 'f' {
			hasLower = true
		}
	}

	return hasUpper && hasLower
}

func keccak256(data []byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	return hash.Sum(nil)
}

// NormalizeAddress normalizes an EVM address to lowercase without the 0x prefix.
// Useful for comparisons and store lookups.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimPrefix(address, "0x"))
}

// AddressesEqual compares two EVM addresses case-insensitively
func AddressesEqual(a, b string) bool {
	return strings.EqualFold(
		strings.TrimPrefix(a, "0x"),
		strings.TrimPrefix(b, "0x"),
	)
}

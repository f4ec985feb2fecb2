package balance

import (
	"strings"
)

// Well-known sentinel addresses that are never deployed contracts. Balance
// fetches against these must short-circuit before any chain call.
var placeholderAddresses = map[string]bool{
	"0x1234567890123456789012345678901234567890": true,
	"0x0123456789012345678901234567890123456789": true,
	"0x000000000000000000000000000000000000dead": true,
	"0x00000000000000000000000000000000deadbeef": true,
}

// IsPlaceholderAddress reports whether the address is a known non-deployed
// sentinel: the zero address, a repeated single digit, or a sequential-digit
// pattern used before the real contract exists.
func IsPlaceholderAddress(address string) bool {
	addr := strings.ToLower(address)
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		return false
	}

	if placeholderAddresses[addr] {
		return true
	}

	// Repeated single character: 0x000...0, 0x111...1, 0xfff...f
	body := addr[2:]
	repeated := true
	for i := 1; i < len(body); i++ {
		if body[i] != body[0] {
			repeated = false
			break
		}
	}
	return repeated
}

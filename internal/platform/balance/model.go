package balance

import (
	"math/big"
	"strings"
	"time"
)

// ErrorState classifies the outcome of the most recent fetch
type ErrorState string

const (
	ErrorNone                ErrorState = "none"
	ErrorPlaceholderContract ErrorState = "placeholder-contract"
	ErrorInvalidAddress      ErrorState = "invalid-address"
	ErrorNoContractCode      ErrorState = "no-contract-code"
	ErrorTimeout             ErrorState = "timeout"
	ErrorNetwork             ErrorState = "network-error"
	ErrorUnknown             ErrorState = "unknown"
)

// TokenDecimals is the fixed decimal scale of the platform token
const TokenDecimals = 18

// View is a derived, read-only balance projection. The same shape serves the
// token balance (contract-sourced) and the native balance (chain-sourced).
type View struct {
	RawBalance     *big.Int   `json:"raw_balance"`
	Decimals       int        `json:"decimals"`
	DisplayBalance string     `json:"display_balance"`
	AsOf           time.Time  `json:"as_of"`
	ErrorState     ErrorState `json:"error_state"`
	ErrorText      string     `json:"error,omitempty"`
}

// NewView returns an empty view with the given decimal scale
func NewView(decimals int) View {
	return View{
		RawBalance:     big.NewInt(0),
		Decimals:       decimals,
		DisplayBalance: "0",
		ErrorState:     ErrorNone,
	}
}

// WithBalance returns a copy of the view updated with a successful fetch result
func (v View) WithBalance(raw *big.Int, asOf time.Time) View {
	v.RawBalance = new(big.Int).Set(raw)
	v.DisplayBalance = FormatUnits(raw, v.Decimals)
	v.AsOf = asOf
	v.ErrorState = ErrorNone
	v.ErrorText = ""
	return v
}

// WithError returns a copy of the view carrying a failure. The previous
// balance is retained so transient errors never flicker the display to zero.
func (v View) WithError(state ErrorState, text string) View {
	v.ErrorState = state
	v.ErrorText = text
	return v
}

// Zeroed returns a copy of the view reset to zero with the given failure.
// Used where no meaningful prior balance can exist.
func (v View) Zeroed(state ErrorState, text string) View {
	v.RawBalance = big.NewInt(0)
	v.DisplayBalance = "0"
	v.ErrorState = state
	v.ErrorText = text
	return v
}

// Equal reports structural equality between two views, ignoring AsOf.
// Used by the refresh coordinator to skip redundant commits.
func (v View) Equal(other View) bool {
	if v.Decimals != other.Decimals ||
		v.DisplayBalance != other.DisplayBalance ||
		v.ErrorState != other.ErrorState ||
		v.ErrorText != other.ErrorText {
		return false
	}
	if v.RawBalance == nil || other.RawBalance == nil {
		return v.RawBalance == other.RawBalance
	}
	return v.RawBalance.Cmp(other.RawBalance) == 0
}

// FormatUnits converts a base-unit amount to a decimal string. Scaling is for
// presentation only; calculations always stay in base units.
func FormatUnits(raw *big.Int, decimals int) string {
	if raw == nil {
		return "0"
	}
	if decimals == 0 {
		return raw.String()
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	wholePart := new(big.Int).Div(raw, divisor)
	remainder := new(big.Int).Mod(raw, divisor)

	if remainder.Sign() == 0 {
		return wholePart.String()
	}

	remainderStr := remainder.String()
	for len(remainderStr) < decimals {
		remainderStr = "0" + remainderStr
	}
	remainderStr = strings.TrimRight(remainderStr, "0")

	return wholePart.String() + "." + remainderStr
}

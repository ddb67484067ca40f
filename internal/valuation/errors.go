package valuation

import (
	"errors"
	"fmt"
)

// ErrInvalidValuation is returned, wrapped, when no meaningful enterprise value
// exists for the inputs.
var ErrInvalidValuation = errors.New("invalid valuation")

// InvalidValuationError reports why the terminal value could not be computed.
type InvalidValuationError struct {
	WACCPct           float64
	TerminalGrowthPct float64
	Reason            string
}

func (e *InvalidValuationError) Error() string {
	return fmt.Sprintf("%s: %s (WACC %.2f%%, terminal growth %.2f%%)",
		ErrInvalidValuation, e.Reason, e.WACCPct, e.TerminalGrowthPct)
}

func (e *InvalidValuationError) Unwrap() error {
	return ErrInvalidValuation
}

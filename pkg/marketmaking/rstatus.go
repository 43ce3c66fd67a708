package marketmaking

import (
	"errors"
	"fmt"
)

// ErrInvalidRStatus is returned when a value outside the RState union is found.
var ErrInvalidRStatus = errors.New("invalid r-status")

// RState classifies a pool against its targets.
type RState uint8

const (
	// RStatusOne means both reserves sit at their targets.
	RStatusOne RState = iota
	// RStatusAboveOne means base is in surplus: the base reserve is at or above
	// its target and the quote reserve at or below.
	RStatusAboveOne
	// RStatusBelowOne means quote is in surplus: the quote reserve is at or
	// above its target and the base reserve at or below.
	RStatusBelowOne
)

func (r RState) String() string {
	switch r {
	case RStatusOne:
		return "ONE"
	case RStatusAboveOne:
		return "ABOVE_ONE"
	case RStatusBelowOne:
		return "BELOW_ONE"
	default:
		return fmt.Sprintf("RState(%d)", uint8(r))
	}
}

// IsValid returns whether r is one of the known states.
func (r RState) IsValid() bool {
	return r <= RStatusBelowOne
}

// ParseRState is the inverse of String.
func ParseRState(s string) (RState, error) {
	switch s {
	case "ONE":
		return RStatusOne, nil
	case "ABOVE_ONE":
		return RStatusAboveOne, nil
	case "BELOW_ONE":
		return RStatusBelowOne, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRStatus, s)
	}
}

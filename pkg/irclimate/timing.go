package irclimate

import (
	"errors"
	"fmt"
)

// Profile describes the physical encoding of one IR protocol.
// All widths are signed microseconds: marks are positive, spaces negative.
type Profile struct {
	Name string

	HeaderMark  int32
	HeaderSpace int32

	BitMark   int32
	ZeroSpace int32
	OneSpace  int32

	// ZeroMax and OneMin classify the absolute space width on decode.
	// A space below ZeroMax is a 0, at or above OneMin a 1, anything in
	// between is ambiguous. ZeroMax == OneMin means a single threshold.
	ZeroMax int32
	OneMin  int32

	TrailerMark int32
	CarrierHz   uint32

	// HeaderTolerance is the accepted deviation of the header mark/space
	// in percent. Zero disables header validation.
	HeaderTolerance int
}

// Profiles shared by the schemas in this package.
var (
	// ProfileNEC is the 9 ms / 4.5 ms leader used by the Carrier and Saijo remotes.
	ProfileNEC = Profile{
		Name:            "nec",
		HeaderMark:      9000,
		HeaderSpace:     -4500,
		BitMark:         650,
		ZeroSpace:       -500,
		OneSpace:        -1600,
		ZeroMax:         700,
		OneMin:          1300,
		TrailerMark:     650,
		CarrierHz:       38000,
		HeaderTolerance: 25,
	}

	// ProfileNECSingle has NEC timing but splits 0 and 1 at a single point.
	ProfileNECSingle = Profile{
		Name:            "nec-single",
		HeaderMark:      9000,
		HeaderSpace:     -4500,
		BitMark:         650,
		ZeroSpace:       -500,
		OneSpace:        -1600,
		ZeroMax:         1300,
		OneMin:          1300,
		TrailerMark:     650,
		CarrierHz:       38000,
		HeaderTolerance: 25,
	}

	// ProfileMitsubishi is the 3.4 ms / 1.7 ms leader with a single threshold.
	ProfileMitsubishi = Profile{
		Name:            "mitsubishi",
		HeaderMark:      3400,
		HeaderSpace:     -1700,
		BitMark:         450,
		ZeroSpace:       -420,
		OneSpace:        -1270,
		ZeroMax:         850,
		OneMin:          850,
		TrailerMark:     450,
		CarrierHz:       38000,
		HeaderTolerance: 25,
	}
)

// Validate checks that the profile can classify bits unambiguously.
func (p *Profile) Validate() error {
	if p.OneMin < p.ZeroMax {
		return fmt.Errorf("profile %s: one threshold %d below zero threshold %d", p.Name, p.OneMin, p.ZeroMax)
	}
	if p.ZeroMax <= 0 {
		return errors.New("profile " + p.Name + ": zero threshold must be positive")
	}
	if p.HeaderTolerance < 0 || p.HeaderTolerance > 100 {
		return fmt.Errorf("profile %s: header tolerance %d%% out of range", p.Name, p.HeaderTolerance)
	}
	return nil
}

// SequenceLen returns the number of durations in an n-byte burst:
// header pair, one mark/space pair per bit, trailing mark.
func SequenceLen(n int) int {
	return 2 + 16*n + 1
}

func (p *Profile) matchHeader(mark, space int32) bool {
	if p.HeaderTolerance == 0 {
		return true
	}
	return within(mark, p.HeaderMark, p.HeaderTolerance) && within(abs32(space), abs32(p.HeaderSpace), p.HeaderTolerance)
}

func within(v, want int32, pct int) bool {
	delta := int64(want) * int64(pct) / 100
	return int64(v) >= int64(want)-delta && int64(v) <= int64(want)+delta
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

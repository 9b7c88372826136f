package irclimate

import (
	"fmt"
	"strings"
)

// Mode is the operating mode of the unit.
type Mode uint8

const (
	ModeOff Mode = iota
	ModeCool
	ModeDry
	ModeFanOnly
	ModeAuto
	ModeHeat
)

var modeNames = map[Mode]string{
	ModeOff:     "off",
	ModeCool:    "cool",
	ModeDry:     "dry",
	ModeFanOnly: "fan_only",
	ModeAuto:    "auto",
	ModeHeat:    "heat",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode parses a mode name such as "cool" or "FAN_ONLY".
func ParseMode(s string) (Mode, error) {
	key := normalizeName(s)
	if key == "fan" {
		return ModeFanOnly, nil
	}
	for m, name := range modeNames {
		if name == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// FanMode is the logical fan speed. Physical levels collapse onto these four.
type FanMode uint8

const (
	FanAuto FanMode = iota
	FanLow
	FanMedium
	FanHigh
)

var fanNames = map[FanMode]string{
	FanAuto:   "auto",
	FanLow:    "low",
	FanMedium: "medium",
	FanHigh:   "high",
}

func (f FanMode) String() string {
	if s, ok := fanNames[f]; ok {
		return s
	}
	return fmt.Sprintf("fan(%d)", uint8(f))
}

// ParseFanMode parses a fan speed name. "med" is accepted for medium.
func ParseFanMode(s string) (FanMode, error) {
	key := normalizeName(s)
	if key == "med" {
		return FanMedium, nil
	}
	for f, name := range fanNames {
		if name == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown fan mode %q", s)
}

// Swing is the louver position: off, continuous vertical sweep or one of
// five fixed levels.
type Swing uint8

const (
	SwingOff Swing = iota
	SwingVertical
	SwingLevel1
	SwingLevel2
	SwingLevel3
	SwingLevel4
	SwingLevel5
)

func (s Swing) String() string {
	switch {
	case s == SwingOff:
		return "off"
	case s == SwingVertical:
		return "vertical"
	case s >= SwingLevel1 && s <= SwingLevel5:
		return fmt.Sprintf("level%d", s.Level())
	}
	return fmt.Sprintf("swing(%d)", uint8(s))
}

// Level returns 1..5 for a fixed position and 0 otherwise.
func (s Swing) Level() int {
	if s >= SwingLevel1 && s <= SwingLevel5 {
		return int(s-SwingLevel1) + 1
	}
	return 0
}

// SwingLevel returns the fixed position n (1..5).
func SwingLevel(n int) (Swing, error) {
	if n < 1 || n > 5 {
		return 0, fmt.Errorf("swing level %d out of range 1-5", n)
	}
	return SwingLevel1 + Swing(n-1), nil
}

// ParseSwing parses "off", "vertical" or "level1".."level5" (also "1".."5").
func ParseSwing(s string) (Swing, error) {
	key := normalizeName(s)
	switch key {
	case "off":
		return SwingOff, nil
	case "vertical", "on":
		return SwingVertical, nil
	}
	key = strings.TrimPrefix(key, "level")
	if len(key) == 1 && key[0] >= '1' && key[0] <= '5' {
		return SwingLevel(int(key[0] - '0'))
	}
	return 0, fmt.Errorf("unknown swing %q", s)
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// State is the logical climate state owned by a Device.
type State struct {
	Mode        Mode
	Temperature float64
	Fan         FanMode
	Swing       Swing
}

// DefaultState is the state of a freshly created device.
func DefaultState() State {
	return State{
		Mode:        ModeOff,
		Temperature: 25,
		Fan:         FanAuto,
		Swing:       SwingOff,
	}
}

func (s State) String() string {
	return fmt.Sprintf("mode=%s temp=%g fan=%s swing=%s", s.Mode, s.Temperature, s.Fan, s.Swing)
}

// Opt is a value that may be unset. The zero Opt is unset.
type Opt[T any] struct {
	value T
	set   bool
}

// Some returns an Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Opt[T]) IsSet() bool {
	return o.set
}

// Request is a partial state update. Only set fields are applied.
type Request struct {
	Mode        Opt[Mode]
	Temperature Opt[float64]
	Fan         Opt[FanMode]
	Swing       Opt[Swing]
}

// IsEmpty reports whether no field is set.
func (r Request) IsEmpty() bool {
	return !r.Mode.IsSet() && !r.Temperature.IsSet() && !r.Fan.IsSet() && !r.Swing.IsSet()
}

func (r Request) String() string {
	var parts []string
	if v, ok := r.Mode.Get(); ok {
		parts = append(parts, "mode="+v.String())
	}
	if v, ok := r.Temperature.Get(); ok {
		parts = append(parts, fmt.Sprintf("temp=%g", v))
	}
	if v, ok := r.Fan.Get(); ok {
		parts = append(parts, "fan="+v.String())
	}
	if v, ok := r.Swing.Get(); ok {
		parts = append(parts, "swing="+v.String())
	}
	if len(parts) == 0 {
		return "<empty>"
	}
	return strings.Join(parts, " ")
}

// Merge returns s with the set fields of r applied.
func (s State) Merge(r Request) State {
	if v, ok := r.Mode.Get(); ok {
		s.Mode = v
	}
	if v, ok := r.Temperature.Get(); ok {
		s.Temperature = v
	}
	if v, ok := r.Fan.Get(); ok {
		s.Fan = v
	}
	if v, ok := r.Swing.Get(); ok {
		s.Swing = v
	}
	return s
}

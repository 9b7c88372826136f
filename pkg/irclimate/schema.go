package irclimate

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	ErrNotRecognized   = errors.New("frame not recognized")
	ErrUnsupported     = errors.New("unsupported by protocol")
	ErrUnknownProtocol = errors.New("unknown protocol")
)

// Schema translates between a logical climate state and one brand's frame
// layout. Implementations are stateless and safe to share between devices.
type Schema interface {
	Name() string
	Profile() *Profile
	FrameLen() int
	Traits() Traits

	// Encode builds the frame for the given state.
	Encode(s State) (Frame, error)

	// Decode maps a frame back to the fields it carries. A frame that does
	// not belong to this protocol returns ErrNotRecognized.
	Decode(f Frame) (Request, error)
}

// SwingEncoder is implemented by schemas that send swing changes as a
// separate special frame instead of a full state frame.
type SwingEncoder interface {
	EncodeSwing(s Swing) (Frame, error)
}

// SequencedEncoder is implemented by schemas whose ON frames carry a rolling
// sequence nibble.
type SequencedEncoder interface {
	EncodeSequenced(s State, seq uint8) (Frame, error)
	InitialSequence() uint8
}

// Traits describes the values a protocol can represent.
type Traits struct {
	Modes    []Mode
	Fans     []FanMode
	Swings   []Swing
	MinTemp  float64
	MaxTemp  float64
	TempStep float64
}

// SupportsMode reports whether m is in the supported mode list.
func (t Traits) SupportsMode(m Mode) bool {
	return slices.Contains(t.Modes, m)
}

// SupportsFan reports whether f is in the supported fan list.
func (t Traits) SupportsFan(f FanMode) bool {
	return slices.Contains(t.Fans, f)
}

// SupportsSwing reports whether s is in the supported swing list.
func (t Traits) SupportsSwing(s Swing) bool {
	return slices.Contains(t.Swings, s)
}

// ClampTemperature rounds v to a whole step and clamps it to the range.
func (t Traits) ClampTemperature(v float64) float64 {
	step := t.TempStep
	if step <= 0 {
		step = 1
	}
	v = math.Round(v/step) * step
	return math.Max(t.MinTemp, math.Min(t.MaxTemp, v))
}

// tempCode returns round(clamp(v, lo, hi)) - base.
func tempCode(v, lo, hi, base float64) uint8 {
	v = math.Max(lo, math.Min(hi, math.Round(v)))
	return uint8(v - base)
}

// SumChecksum returns the low byte of the sum of payload.
func SumChecksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum += b
	}
	return sum
}

func clampTemp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func checkLen(s Schema, f Frame) error {
	if len(f) != s.FrameLen() {
		return fmt.Errorf("%w: %s wants %d bytes, got %d", ErrFrameLength, s.Name(), s.FrameLen(), len(f))
	}
	return nil
}

func notRecognized(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotRecognized}, args...)...)
}

func unsupported(s Schema, what string) error {
	return fmt.Errorf("%w: %s cannot encode %s", ErrUnsupported, s.Name(), what)
}

// Protocol names.
const (
	ProtocolCarrier            = "carrier"
	ProtocolCarrierCartridge   = "carrier-cartridge"
	ProtocolCarrierCartridgeRX = "carrier-cartridge-rx"
	ProtocolSaijo              = "saijo"
	ProtocolSaijo9             = "saijo-9"
	ProtocolMitsubishi         = "mitsubishi"
)

var registry = []Schema{
	Carrier{},
	CarrierCartridge{},
	CarrierCartridgeRX{},
	Saijo{},
	Saijo9{},
	Mitsubishi{},
}

// Lookup returns the schema registered under name.
func Lookup(name string) (Schema, error) {
	for _, s := range registry {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, name)
}

// Protocols returns the registered protocol names in registration order.
func Protocols() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name()
	}
	return names
}

// Schemas returns every registered schema in registration order.
func Schemas() []Schema {
	return slices.Clone(registry)
}

// DecodeRaw runs the bit-level codec and then the schema decode.
func DecodeRaw(s Schema, d []int32) (Frame, Request, error) {
	f, err := Decode(s.Profile(), d, s.FrameLen())
	if err != nil {
		return nil, Request{}, err
	}
	req, err := s.Decode(f)
	if err != nil {
		return f, Request{}, err
	}
	return f, req, nil
}

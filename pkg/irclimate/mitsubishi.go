package irclimate

import (
	"bytes"
	"fmt"
	"math"
	"math/bits"
)

// Mitsubishi 14-byte remote. Only the OFF and COOL 22 frames have been
// captured; the last byte is a checksum computed over bit-reversed bytes.
const (
	mitsubishiModeOff  = 0x05
	mitsubishiModeCool = 0x25
	mitsubishiTemp     = 22
)

var mitsubishiHeader = []byte{0xC4, 0xD3, 0x64, 0x80}

var (
	mitsubishiOffFrame    = Frame{0xC4, 0xD3, 0x64, 0x80, 0x00, 0x05, 0xC0, 0x60, 0x00, 0x00, 0x00, 0x00, 0x00, 0x7D}
	mitsubishiCool22Frame = Frame{0xC4, 0xD3, 0x64, 0x80, 0x00, 0x25, 0xC0, 0x60, 0x00, 0x00, 0x00, 0x00, 0x00, 0x43}
)

// MitsubishiChecksum returns the checksum byte for the given payload. It is
// SumChecksum taken in the remote's LSB-first bit order.
func MitsubishiChecksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum += bits.Reverse8(b)
	}
	return bits.Reverse8(sum)
}

// Mitsubishi is the 14-byte Mitsubishi protocol.
type Mitsubishi struct{}

func (Mitsubishi) Name() string      { return ProtocolMitsubishi }
func (Mitsubishi) Profile() *Profile { return &ProfileMitsubishi }
func (Mitsubishi) FrameLen() int     { return 14 }

func (Mitsubishi) Traits() Traits {
	return Traits{
		Modes:    []Mode{ModeOff, ModeCool},
		Fans:     []FanMode{FanAuto},
		MinTemp:  mitsubishiTemp,
		MaxTemp:  mitsubishiTemp,
		TempStep: 1,
	}
}

func (m Mitsubishi) Encode(s State) (Frame, error) {
	switch s.Mode {
	case ModeOff:
		return append(Frame(nil), mitsubishiOffFrame...), nil
	case ModeCool:
		if s.Fan != FanAuto {
			return nil, unsupported(m, "fan "+s.Fan.String())
		}
		if math.Round(s.Temperature) != mitsubishiTemp {
			return nil, unsupported(m, fmt.Sprintf("temperature %g", s.Temperature))
		}
		return append(Frame(nil), mitsubishiCool22Frame...), nil
	}
	return nil, unsupported(m, "mode "+s.Mode.String())
}

func (m Mitsubishi) Decode(f Frame) (Request, error) {
	if err := checkLen(m, f); err != nil {
		return Request{}, err
	}
	if !bytes.HasPrefix(f, mitsubishiHeader) {
		return Request{}, notRecognized("mitsubishi header %s", f[:4])
	}
	last := len(f) - 1
	if sum := MitsubishiChecksum(f[:last]); sum != f[last] {
		return Request{}, notRecognized("mitsubishi checksum %02X, want %02X", f[last], sum)
	}

	switch f[5] {
	case mitsubishiModeOff:
		return Request{Mode: Some(ModeOff)}, nil
	case mitsubishiModeCool:
		return Request{
			Mode:        Some(ModeCool),
			Temperature: Some(float64(mitsubishiTemp)),
			Fan:         Some(FanAuto),
		}, nil
	}
	return Request{}, notRecognized("mitsubishi mode byte %02X", f[5])
}

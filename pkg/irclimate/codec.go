package irclimate

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidHeader    = errors.New("invalid header")
	ErrAmbiguousTiming  = errors.New("ambiguous timing")
	ErrIncompleteFrame  = errors.New("incomplete frame")
	ErrFrameLength      = errors.New("invalid frame length")
)

// Frame is a fixed-width command, most significant byte first.
type Frame []byte

// FrameFromUint64 returns the low n bytes of v as a frame, n <= 8.
func FrameFromUint64(v uint64, n int) Frame {
	f := make(Frame, n)
	for i := n - 1; i >= 0; i-- {
		f[i] = byte(v)
		v >>= 8
	}
	return f
}

// Uint64 packs up to the last 8 bytes of the frame into an integer.
func (f Frame) Uint64() uint64 {
	var v uint64
	for _, b := range f {
		v = v<<8 | uint64(b)
	}
	return v
}

// Equal reports whether two frames carry the same bytes.
func (f Frame) Equal(other Frame) bool {
	return bytes.Equal(f, other)
}

func (f Frame) String() string {
	return strings.ToUpper(hex.EncodeToString(f))
}

// Encode renders a frame as a duration sequence: header pair, one
// mark/space pair per bit (MSB first), trailing mark.
func Encode(p *Profile, f Frame) []int32 {
	raw := make([]int32, 0, SequenceLen(len(f)))
	raw = append(raw, p.HeaderMark, p.HeaderSpace)

	for _, b := range f {
		for i := 7; i >= 0; i-- {
			raw = append(raw, p.BitMark)
			if (b>>i)&1 == 1 {
				raw = append(raw, p.OneSpace)
			} else {
				raw = append(raw, p.ZeroSpace)
			}
		}
	}

	raw = append(raw, p.TrailerMark)
	return raw
}

// Decode parses an n-byte frame from a duration sequence.
// Any malformed input fails the whole decode; no partial frame is returned.
// A sequence whose bits run on past n bytes is a longer frame and fails
// with ErrFrameLength.
func Decode(p *Profile, d []int32, n int) (Frame, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameLength, n)
	}
	if len(d) < SequenceLen(n) {
		return nil, fmt.Errorf("%w: need %d durations, got %d", ErrInsufficientData, SequenceLen(n), len(d))
	}
	if !p.matchHeader(d[0], d[1]) {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidHeader, d[0], d[1])
	}

	f := make(Frame, n)
	bits, err := decodeBits(p, d, f)
	if err != nil {
		return nil, err
	}
	if bits != 8*n {
		return nil, fmt.Errorf("%w: %d of %d bits", ErrIncompleteFrame, bits, 8*n)
	}
	if longerFrame(p, d, n) {
		return nil, fmt.Errorf("%w: burst carries more than %d bytes", ErrFrameLength, n)
	}
	return f, nil
}

// longerFrame reports whether the bits of d run on for at least one more
// whole byte after the first n. A space at least as long as the header
// space ends the frame, so repeats and trailing noise after a gap are
// ignored.
func longerFrame(p *Profile, d []int32, n int) bool {
	rest := d[16*n:]
	if len(rest) < SequenceLen(1) || abs32(rest[3]) >= abs32(p.HeaderSpace) {
		return false
	}
	bits, err := decodeBits(p, rest, make(Frame, 1))
	return err == nil && bits == 8
}

// DecodeAny decodes as many whole bytes as the sequence carries.
// Used to dump unknown remotes; trailing partial bits are dropped.
func DecodeAny(p *Profile, d []int32) (Frame, error) {
	if len(d) < SequenceLen(1) {
		return nil, fmt.Errorf("%w: got %d durations", ErrInsufficientData, len(d))
	}
	if !p.matchHeader(d[0], d[1]) {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidHeader, d[0], d[1])
	}

	n := (len(d) - 3) / 16
	f := make(Frame, n)
	if _, err := decodeBits(p, d, f); err != nil {
		return nil, err
	}
	return f, nil
}

// decodeBits fills f from the mark/space pairs following the header and
// returns the number of bits classified.
func decodeBits(p *Profile, d []int32, f Frame) (int, error) {
	want := 8 * len(f)
	bits := 0
	for i := 2; i+1 < len(d) && bits < want; i += 2 {
		space := abs32(d[i+1])
		idx := bits / 8
		f[idx] <<= 1

		switch {
		case space >= p.OneMin:
			f[idx] |= 1
		case space < p.ZeroMax:
		default:
			return bits, fmt.Errorf("%w: %d us at index %d", ErrAmbiguousTiming, space, i+1)
		}
		bits++
	}
	return bits, nil
}

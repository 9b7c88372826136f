package irclimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// burst builds a header, one mark per given space and a trailer.
func burst(p *Profile, spaces ...int32) []int32 {
	d := []int32{p.HeaderMark, p.HeaderSpace}
	for _, s := range spaces {
		d = append(d, p.BitMark, s)
	}
	return append(d, p.TrailerMark)
}

func repeat(v int32, n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestEncode_Layout(t *testing.T) {
	f := FrameFromUint64(0x2849000000890700, 8)
	d := Encode(&ProfileNEC, f)

	require.Len(t, d, 131)
	assert.Equal(t, int32(9000), d[0])
	assert.Equal(t, int32(-4500), d[1])
	assert.Equal(t, int32(650), d[130])

	// 0x28 = 0010 1000
	want := []int32{-500, -500, -1600, -500, -1600, -500, -500, -500}
	for i, s := range want {
		assert.Equal(t, int32(650), d[2+2*i], "mark %d", i)
		assert.Equal(t, s, d[3+2*i], "space %d", i)
	}
}

func TestEncode_SequenceLen(t *testing.T) {
	for _, n := range []int{1, 8, 9, 14} {
		d := Encode(&ProfileMitsubishi, make(Frame, n))
		assert.Len(t, d, SequenceLen(n))
		assert.Equal(t, 2+16*n+1, SequenceLen(n))
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	frames := []Frame{
		FrameFromUint64(0x2049000000090700, 8),
		FrameFromUint64(0xF20D03FC00818000, 8),
		{0xA0, 0x90, 0xAC, 0x04, 0x25, 0x0C, 0x25, 0x00, 0xA8},
		mitsubishiOffFrame,
	}
	profiles := []*Profile{&ProfileNEC, &ProfileNECSingle, &ProfileMitsubishi}

	for _, p := range profiles {
		for _, f := range frames {
			got, err := Decode(p, Encode(p, f), len(f))
			require.NoError(t, err, "%s %s", p.Name, f)
			assert.Equal(t, f, got)
		}
	}
}

func TestDecode_Deterministic(t *testing.T) {
	d := Encode(&ProfileNEC, FrameFromUint64(0x2849000000890700, 8))

	a, errA := Decode(&ProfileNEC, d, 8)
	b, errB := Decode(&ProfileNEC, d, 8)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestDecode_ThresholdBoundary(t *testing.T) {
	p := &ProfileNEC

	// Exactly one-min is a 1, zero-max minus one is a 0.
	spaces := append([]int32{-1300, -699}, repeat(-500, 6)...)
	f, err := Decode(p, burst(p, spaces...), 1)
	require.NoError(t, err)
	assert.Equal(t, Frame{0x80}, f)

	// Positive spaces are classified by magnitude too.
	spaces = append([]int32{1600}, repeat(500, 7)...)
	f, err = Decode(p, burst(p, spaces...), 1)
	require.NoError(t, err)
	assert.Equal(t, Frame{0x80}, f)
}

func TestDecode_AmbiguousTiming(t *testing.T) {
	p := &ProfileNEC

	for _, s := range []int32{-700, -1000, -1299} {
		spaces := append(repeat(-500, 3), s)
		spaces = append(spaces, repeat(-500, 4)...)

		f, err := Decode(p, burst(p, spaces...), 1)
		assert.ErrorIs(t, err, ErrAmbiguousTiming, "space %d", s)
		assert.Nil(t, f)
	}
}

func TestDecode_SingleThreshold(t *testing.T) {
	p := &ProfileNECSingle

	spaces := append([]int32{-1299, -1300}, repeat(-1000, 6)...)
	f, err := Decode(p, burst(p, spaces...), 1)
	require.NoError(t, err)
	assert.Equal(t, Frame{0x40}, f)
}

func TestDecode_Truncated(t *testing.T) {
	d := Encode(&ProfileNEC, FrameFromUint64(0x2849000000890700, 8))

	for _, n := range []int{0, 2, 64, 129, 130} {
		f, err := Decode(&ProfileNEC, d[:n], 8)
		assert.ErrorIs(t, err, ErrInsufficientData, "len %d", n)
		assert.Nil(t, f)
	}
}

func TestDecode_TrailingDataIgnored(t *testing.T) {
	d := Encode(&ProfileNEC, FrameFromUint64(0x2849000000890700, 8))
	d = append(d, -20000, 9000, -4500)

	f, err := Decode(&ProfileNEC, d, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2849000000890700), f.Uint64())
}

func TestDecode_LongerFrameRejected(t *testing.T) {
	d := Encode(&ProfileNEC, Frame{0xA0, 0x90, 0xAC, 0x04, 0x25, 0x0C, 0x25, 0x00, 0xA8})

	_, err := Decode(&ProfileNEC, d, 8)
	assert.ErrorIs(t, err, ErrFrameLength)

	f, err := Decode(&ProfileNEC, d, 9)
	require.NoError(t, err)
	assert.Equal(t, "A090AC04250C2500A8", f.String())
}

func TestDecode_RepeatAfterGapIgnored(t *testing.T) {
	one := Encode(&ProfileNEC, FrameFromUint64(0x2849000000890700, 8))
	d := append(append([]int32(nil), one...), -20000)
	d = append(d, one...)

	f, err := Decode(&ProfileNEC, d, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2849000000890700), f.Uint64())
}

func TestDecode_InvalidHeader(t *testing.T) {
	// A Mitsubishi burst must not decode with NEC timing.
	d := Encode(&ProfileMitsubishi, FrameFromUint64(0x2849000000890700, 8))

	_, err := Decode(&ProfileNEC, d, 8)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestDecode_HeaderTolerance(t *testing.T) {
	d := Encode(&ProfileNEC, Frame{0x5A})

	d[0], d[1] = 8200, -4900
	f, err := Decode(&ProfileNEC, d, 1)
	require.NoError(t, err)
	assert.Equal(t, Frame{0x5A}, f)

	d[0] = 6000
	_, err = Decode(&ProfileNEC, d, 1)
	assert.ErrorIs(t, err, ErrInvalidHeader)

	// Zero tolerance skips the check.
	p := ProfileNEC
	p.HeaderTolerance = 0
	f, err = Decode(&p, d, 1)
	require.NoError(t, err)
	assert.Equal(t, Frame{0x5A}, f)
}

func TestDecode_InvalidLength(t *testing.T) {
	_, err := Decode(&ProfileNEC, burst(&ProfileNEC), 0)
	assert.ErrorIs(t, err, ErrFrameLength)
}

func TestDecodeAny_WholeBytes(t *testing.T) {
	p := &ProfileMitsubishi
	d := Encode(p, Frame{0xC4, 0xD3, 0x64})

	// Four extra bits before the trailer are dropped.
	d = d[:len(d)-1]
	d = append(d, p.BitMark, p.OneSpace, p.BitMark, p.OneSpace, p.BitMark, p.ZeroSpace, p.BitMark, p.OneSpace, p.TrailerMark)

	f, err := DecodeAny(p, d)
	require.NoError(t, err)
	assert.Equal(t, "C4D364", f.String())
}

func TestDecodeAny_TooShort(t *testing.T) {
	_, err := DecodeAny(&ProfileNEC, []int32{9000, -4500, 650})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFrame_Helpers(t *testing.T) {
	f := FrameFromUint64(0x2849000000890700, 8)

	assert.Equal(t, Frame{0x28, 0x49, 0x00, 0x00, 0x00, 0x89, 0x07, 0x00}, f)
	assert.Equal(t, uint64(0x2849000000890700), f.Uint64())
	assert.Equal(t, "2849000000890700", f.String())
	assert.True(t, f.Equal(Frame{0x28, 0x49, 0x00, 0x00, 0x00, 0x89, 0x07, 0x00}))
	assert.False(t, f.Equal(Frame{0x28}))

	assert.Equal(t, Frame{0x07, 0x00}, FrameFromUint64(0x2849000000890700, 2))
}

func TestProfile_Validate(t *testing.T) {
	for _, p := range []Profile{ProfileNEC, ProfileNECSingle, ProfileMitsubishi} {
		assert.NoError(t, p.Validate(), p.Name)
	}

	bad := ProfileNEC
	bad.OneMin = 600
	assert.Error(t, bad.Validate())

	bad = ProfileNEC
	bad.ZeroMax = 0
	bad.OneMin = 0
	assert.Error(t, bad.Validate())

	bad = ProfileNEC
	bad.HeaderTolerance = 101
	assert.Error(t, bad.Validate())
}

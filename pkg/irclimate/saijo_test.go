package irclimate

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameHex(t *testing.T, s string) Frame {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return Frame(b)
}

func TestSaijo_EncodeSequenced(t *testing.T) {
	tests := []struct {
		name  string
		state State
		seq   uint8
		want  string
	}{
		{"cool 24 auto vertical", State{Mode: ModeCool, Temperature: 24, Fan: FanAuto, Swing: SwingVertical}, 0x05, "A090B002050A0500"},
		{"dry 22 low level 3", State{Mode: ModeDry, Temperature: 22, Fan: FanLow, Swing: SwingLevel3}, 0x06, "A090AC2106694600"},
		{"fan only high level 5", State{Mode: ModeFanOnly, Temperature: 27, Fan: FanHigh, Swing: SwingLevel5}, 0x0F, "A090B6814FA90F00"},
		{"sequence masked to a nibble", State{Mode: ModeCool, Temperature: 24, Fan: FanAuto}, 0x15, "A090B002050A0500"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Saijo{}.EncodeSequenced(tc.state, tc.seq)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.String())
		})
	}
}

func TestSaijo_EncodeUsesInitialSequence(t *testing.T) {
	s := Saijo{}
	assert.Equal(t, uint8(0x05), s.InitialSequence())

	f, err := s.Encode(State{Mode: ModeCool, Temperature: 24, Fan: FanAuto})
	require.NoError(t, err)
	assert.Equal(t, "A090B002050A0500", f.String())
}

func TestSaijo_EncodeOff(t *testing.T) {
	f, err := Saijo{}.Encode(State{Mode: ModeOff, Temperature: 25, Fan: FanHigh, Swing: SwingLevel2})
	require.NoError(t, err)
	assert.Equal(t, "A000B20109090900", f.String())

	// The sequence does not appear in OFF frames.
	g, err := Saijo{}.EncodeSequenced(State{Mode: ModeOff, Temperature: 25}, 0x0C)
	require.NoError(t, err)
	assert.Equal(t, f, g)
}

func TestSaijo_EncodeUnsupportedMode(t *testing.T) {
	_, err := Saijo{}.Encode(State{Mode: ModeHeat, Temperature: 24})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestSaijo_DecodeFanCoercion(t *testing.T) {
	tests := []struct {
		code byte
		want FanMode
	}{
		{0x0, FanAuto},
		{0x2, FanLow},
		{0x6, FanMedium},
		{0x8, FanHigh},
		{0x4, FanAuto},
		{0xA, FanAuto},
	}
	for _, tc := range tests {
		f := frameHex(t, "A090B002050A0500")
		f[3] = tc.code<<4 | 0x2

		req, err := Saijo{}.Decode(f)
		require.NoError(t, err, "fan nibble %X", tc.code)
		fan, _ := req.Fan.Get()
		assert.Equal(t, tc.want, fan, "fan nibble %X", tc.code)
	}
}

func TestSaijo_DecodeModeFlags(t *testing.T) {
	tests := []struct {
		b4, b6 byte
		want   Mode
	}{
		{0x05, 0x05, ModeCool},
		{0x45, 0x05, ModeFanOnly},
		{0x05, 0x45, ModeDry},
		{0x45, 0x45, ModeCool},
	}
	for _, tc := range tests {
		f := frameHex(t, "A090B002050A0500")
		f[4], f[6] = tc.b4, tc.b6

		req := mustDecode(t, Saijo{}, f)
		mode, _ := req.Mode.Get()
		assert.Equal(t, tc.want, mode, "b4=%02X b6=%02X", tc.b4, tc.b6)
	}
}

func TestSaijo_DecodeSwing(t *testing.T) {
	tests := []struct {
		code byte
		want Swing
		set  bool
	}{
		{0x0, SwingVertical, true},
		{0x2, SwingLevel1, true},
		{0x4, SwingLevel2, true},
		{0x6, SwingLevel3, true},
		{0x8, SwingLevel4, true},
		{0xA, SwingLevel5, true},
		{0x3, 0, false},
		{0xC, 0, false},
	}
	for _, tc := range tests {
		f := frameHex(t, "A090B002050A0500")
		f[5] = tc.code<<4 | 0xA

		req := mustDecode(t, Saijo{}, f)
		sw, ok := req.Swing.Get()
		assert.Equal(t, tc.set, ok, "swing nibble %X", tc.code)
		if tc.set {
			assert.Equal(t, tc.want, sw)
		}
	}
}

func TestSaijo_DecodeOff(t *testing.T) {
	req := mustDecode(t, Saijo{}, frameHex(t, "A000B20109090900"))
	s := State{Mode: ModeCool, Temperature: 22, Fan: FanHigh, Swing: SwingLevel1}.Merge(req)

	assert.Equal(t, State{Mode: ModeOff, Temperature: 25, Fan: FanAuto, Swing: SwingLevel1}, s)
}

func TestSaijo_DecodeRejects(t *testing.T) {
	_, err := Saijo{}.Decode(FrameFromUint64(0x2849000000890700, 8))
	assert.ErrorIs(t, err, ErrNotRecognized, "foreign header")

	_, err = Saijo{}.Decode(frameHex(t, "A050B002050A0500"))
	assert.ErrorIs(t, err, ErrNotRecognized, "unknown power byte")

	_, err = Saijo{}.Decode(frameHex(t, "A090B002050A050000"))
	assert.ErrorIs(t, err, ErrFrameLength)
}

func TestSaijo_RoundTrip(t *testing.T) {
	s := Saijo{}
	tr := s.Traits()
	for _, mode := range []Mode{ModeCool, ModeDry, ModeFanOnly} {
		for _, fan := range tr.Fans {
			for _, sw := range tr.Swings {
				for temp := tr.MinTemp; temp <= tr.MaxTemp; temp++ {
					want := State{Mode: mode, Temperature: temp, Fan: fan, Swing: sw}
					f, err := s.EncodeSequenced(want, 0x09)
					require.NoError(t, err)

					got := State{}.Merge(mustDecode(t, s, f))
					assert.Equal(t, want, got, "%s", f)
				}
			}
		}
	}
}

func TestSaijo9_EncodeCodebook(t *testing.T) {
	for key, want := range saijo9Codebook {
		st := State{Mode: key.mode, Temperature: float64(key.temp), Fan: key.fan}
		f, err := Saijo9{}.Encode(st)
		require.NoError(t, err, "%+v", key)
		assert.Equal(t, want, f)
	}
}

func TestSaijo9_Encode(t *testing.T) {
	f, err := Saijo9{}.Encode(State{Mode: ModeCool, Temperature: 24, Fan: FanMedium})
	require.NoError(t, err)
	assert.Equal(t, "A090B064210C2100DD", f.String())

	// Dry ignores the fan, fan only ignores the temperature.
	dry, err := Saijo9{}.Encode(State{Mode: ModeDry, Temperature: 26, Fan: FanHigh})
	require.NoError(t, err)
	assert.Equal(t, "A090B40324", dry.String()[:10])

	fan, err := Saijo9{}.Encode(State{Mode: ModeFanOnly, Temperature: 22, Fan: FanLow})
	require.NoError(t, err)
	assert.Equal(t, "A090B6245E0C1E00C5", fan.String())

	off, err := Saijo9{}.Encode(State{Mode: ModeOff, Temperature: 22, Fan: FanLow})
	require.NoError(t, err)
	assert.Equal(t, "A000B6841E0C1E0045", off.String())

	// Codebook frames are copies.
	off[0] = 0
	assert.Equal(t, byte(0xA0), saijo9Codebook[saijoKey{ModeOff, 0, FanAuto}][0])
}

func TestSaijo9_EncodeUnsupported(t *testing.T) {
	_, err := Saijo9{}.Encode(State{Mode: ModeAuto, Temperature: 24})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestSaijo9_DecodeCodebook(t *testing.T) {
	for key, f := range saijo9Codebook {
		req := mustDecode(t, Saijo9{}, f)

		mode, _ := req.Mode.Get()
		assert.Equal(t, key.mode, mode, "%s", f)
		fan, _ := req.Fan.Get()
		assert.Equal(t, key.fan, fan, "%s", f)
		if key.temp != 0 {
			temp, _ := req.Temperature.Get()
			assert.Equal(t, float64(key.temp), temp, "%s", f)
		}
	}
}

func TestSaijo9_DecodeOmitsFixedTemperature(t *testing.T) {
	for key, f := range saijo9Codebook {
		if key.mode != ModeOff && key.mode != ModeFanOnly {
			continue
		}
		req := mustDecode(t, Saijo9{}, f)
		assert.False(t, req.Temperature.IsSet(), "%s", f)
	}
}

func TestDevice_Saijo9FanOnlyKeepsTemperature(t *testing.T) {
	d, tx, _ := newTestDevice(t, Saijo9{},
		WithInitialState(State{Mode: ModeCool, Temperature: 23, Fan: FanLow, Swing: SwingVertical}))

	require.NoError(t, d.Apply(Request{Mode: Some(ModeFanOnly)}))
	require.Len(t, tx.sent, 1)

	require.True(t, d.Receive(tx.sent[0].durations))
	assert.Equal(t, State{Mode: ModeFanOnly, Temperature: 23, Fan: FanLow, Swing: SwingVertical}, d.State())

	require.NoError(t, d.Apply(Request{Mode: Some(ModeOff)}))
	require.True(t, d.Receive(tx.sent[1].durations))
	assert.Equal(t, 23.0, d.State().Temperature)
}

func TestDevice_SaijoIgnoresSaijo9Burst(t *testing.T) {
	initial := State{Mode: ModeCool, Temperature: 26, Fan: FanMedium}
	d, _, pub := newTestDevice(t, Saijo{}, WithInitialState(initial))

	burst := Encode(&ProfileNECSingle, saijo9Codebook[saijoKey{ModeCool, 22, FanLow}])
	assert.False(t, d.Receive(burst))
	assert.Equal(t, initial, d.State())
	assert.Empty(t, pub.states)
}

func TestSaijo9_ProfileSingleThreshold(t *testing.T) {
	p := Saijo9{}.Profile()
	assert.Equal(t, p.ZeroMax, p.OneMin)
	assert.Equal(t, int32(1300), p.OneMin)
	assert.Equal(t, 9, Saijo9{}.FrameLen())
}

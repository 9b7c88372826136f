package irclimate

import "fmt"

// Saijo Denki remotes. The 8-byte layout is rule-built and carries a rolling
// sequence nibble; the 9-byte layout adds a trailing byte with no known rule
// and is only sent from captured frames.
const (
	saijoHeader  = 0xA0
	saijoPowerOn = 0x90
	saijoOff     = 0x00

	saijoTempBase = 15
	saijoTempCode = 0x9E
	saijoMinTemp  = 22
	saijoMaxTemp  = 27

	// Flag added to b4 (fan only) or b6 (dry) on top of the sequence nibble.
	saijoModeFlag = 0x40

	saijoStartSeq = 0x05
)

var saijoFanCodes = map[FanMode]uint8{
	FanAuto:   0x0,
	FanLow:    0x2,
	FanMedium: 0x6,
	FanHigh:   0x8,
}

func saijoFan(code uint8) FanMode {
	switch code {
	case 0x2:
		return FanLow
	case 0x6:
		return FanMedium
	case 0x8:
		return FanHigh
	}
	return FanAuto
}

func saijoTemp(t float64) uint8 {
	return saijoTempCode + 2*tempCode(t, saijoMinTemp, saijoMaxTemp, saijoTempBase)
}

// saijoSwingCode is the high nibble of b5. Vertical and off share code 0.
func saijoSwingCode(s Swing) uint8 {
	if lvl := s.Level(); lvl > 0 {
		return uint8(lvl-1)*2 + 0x2
	}
	return 0x0
}

func saijoSwing(code uint8) (Swing, bool) {
	if code == 0x0 {
		return SwingVertical, true
	}
	if code >= 0x2 && code <= 0xA && code%2 == 0 {
		return SwingLevel1 + Swing((code-0x2)/2), true
	}
	return 0, false
}

// decodeSaijo reads the fields shared by both Saijo layouts.
func decodeSaijo(f Frame) (Request, error) {
	if f[0] != saijoHeader {
		return Request{}, notRecognized("saijo header %02X", f[0])
	}

	temp := saijoTempBase + (float64(f[2])-saijoTempCode)/2
	temp = clampTemp(temp, saijoMinTemp, saijoMaxTemp)

	switch f[1] {
	case saijoOff:
		return Request{
			Mode:        Some(ModeOff),
			Temperature: Some(temp),
			Fan:         Some(FanAuto),
		}, nil
	case saijoPowerOn:
	default:
		return Request{}, notRecognized("saijo power byte %02X", f[1])
	}

	fanOnly := f[4]&saijoModeFlag != 0
	dry := f[6]&saijoModeFlag != 0
	mode := ModeCool
	switch {
	case fanOnly && !dry:
		mode = ModeFanOnly
	case dry && !fanOnly:
		mode = ModeDry
	}

	req := Request{
		Mode:        Some(mode),
		Temperature: Some(temp),
		Fan:         Some(saijoFan(f[3] >> 4)),
	}
	if sw, ok := saijoSwing(f[5] >> 4); ok {
		req.Swing = Some(sw)
	}
	return req, nil
}

// Saijo is the rule-built 8-byte Saijo Denki protocol.
type Saijo struct{}

func (Saijo) Name() string      { return ProtocolSaijo }
func (Saijo) Profile() *Profile { return &ProfileNEC }
func (Saijo) FrameLen() int     { return 8 }

func (Saijo) Traits() Traits {
	return Traits{
		Modes:    []Mode{ModeOff, ModeCool, ModeFanOnly, ModeDry},
		Fans:     []FanMode{FanAuto, FanLow, FanMedium, FanHigh},
		Swings:   []Swing{SwingVertical, SwingLevel1, SwingLevel2, SwingLevel3, SwingLevel4, SwingLevel5},
		MinTemp:  saijoMinTemp,
		MaxTemp:  saijoMaxTemp,
		TempStep: 1,
	}
}

func (Saijo) InitialSequence() uint8 { return saijoStartSeq }

// Encode builds a frame using the initial sequence number.
func (s Saijo) Encode(st State) (Frame, error) {
	return s.EncodeSequenced(st, saijoStartSeq)
}

func (s Saijo) EncodeSequenced(st State, seq uint8) (Frame, error) {
	temp := saijoTemp(st.Temperature)
	if st.Mode == ModeOff {
		return Frame{saijoHeader, saijoOff, temp, 0x01, 0x09, 0x09, 0x09, 0x00}, nil
	}

	var modeCode, sub uint8
	switch st.Mode {
	case ModeCool:
		modeCode, sub = 0x2, 0xA
	case ModeDry, ModeFanOnly:
		modeCode, sub = 0x1, 0x9
	default:
		return nil, unsupported(s, "mode "+st.Mode.String())
	}
	fan, ok := saijoFanCodes[st.Fan]
	if !ok {
		return nil, unsupported(s, "fan "+st.Fan.String())
	}

	b4 := seq & 0x0F
	b6 := seq & 0x0F
	switch st.Mode {
	case ModeDry:
		b6 += saijoModeFlag
	case ModeFanOnly:
		b4 += saijoModeFlag
	}

	return Frame{
		saijoHeader,
		saijoPowerOn,
		temp,
		fan<<4 | modeCode,
		b4,
		saijoSwingCode(st.Swing)<<4 | sub,
		b6,
		0x00,
	}, nil
}

func (s Saijo) Decode(f Frame) (Request, error) {
	if err := checkLen(s, f); err != nil {
		return Request{}, err
	}
	return decodeSaijo(f)
}

type saijoKey struct {
	mode Mode
	temp int
	fan  FanMode
}

// Captured 9-byte frames. Fan-only frames ignore temperature (keyed 0) and
// dry frames always use auto fan.
var saijo9Codebook = map[saijoKey]Frame{
	{ModeCool, 22, FanAuto}:   {0xA0, 0x90, 0xAC, 0x04, 0x25, 0x0C, 0x25, 0x00, 0xA8},
	{ModeCool, 23, FanAuto}:   {0xA0, 0x90, 0xAE, 0x04, 0x24, 0x0C, 0x24, 0x00, 0x21},
	{ModeCool, 24, FanAuto}:   {0xA0, 0x90, 0xB0, 0x04, 0x24, 0x0C, 0x24, 0x00, 0x27},
	{ModeCool, 25, FanAuto}:   {0xA0, 0x90, 0xB2, 0x04, 0x24, 0x0C, 0x24, 0x00, 0x21},
	{ModeCool, 26, FanAuto}:   {0xA0, 0x90, 0xB4, 0x04, 0x24, 0x0C, 0x24, 0x00, 0x2F},
	{ModeCool, 27, FanAuto}:   {0xA0, 0x90, 0xB6, 0x04, 0x23, 0x0C, 0x23, 0x00, 0xE2},
	{ModeCool, 22, FanLow}:    {0xA0, 0x90, 0xAC, 0x24, 0x23, 0x0C, 0x23, 0x00, 0x14},
	{ModeCool, 23, FanLow}:    {0xA0, 0x90, 0xAE, 0x24, 0x23, 0x0C, 0x23, 0x00, 0x4A},
	{ModeCool, 24, FanLow}:    {0xA0, 0x90, 0xB0, 0x24, 0x22, 0x0C, 0x22, 0x00, 0x0B},
	{ModeCool, 25, FanLow}:    {0xA0, 0x90, 0xB2, 0x24, 0x22, 0x0C, 0x22, 0x00, 0x0D},
	{ModeCool, 26, FanLow}:    {0xA0, 0x90, 0xB4, 0x24, 0x22, 0x0C, 0x22, 0x00, 0x0B},
	{ModeCool, 27, FanLow}:    {0xA0, 0x90, 0xB6, 0x24, 0x22, 0x0C, 0x22, 0x00, 0x0D},
	{ModeCool, 22, FanMedium}: {0xA0, 0x90, 0xAC, 0x64, 0x21, 0x0C, 0x21, 0x00, 0xDD},
	{ModeCool, 23, FanMedium}: {0xA0, 0x90, 0xAE, 0x64, 0x21, 0x0C, 0x21, 0x00, 0xDF},
	{ModeCool, 24, FanMedium}: {0xA0, 0x90, 0xB0, 0x64, 0x21, 0x0C, 0x21, 0x00, 0xDD},
	{ModeCool, 25, FanMedium}: {0xA0, 0x90, 0xB2, 0x64, 0x21, 0x0C, 0x21, 0x00, 0xC7},
	{ModeCool, 26, FanMedium}: {0xA0, 0x90, 0xB4, 0x64, 0x21, 0x0C, 0x21, 0x00, 0xC5},
	{ModeCool, 27, FanMedium}: {0xA0, 0x90, 0xB6, 0x64, 0x20, 0x0C, 0x20, 0x00, 0x08},
	{ModeCool, 22, FanHigh}:   {0xA0, 0x90, 0xAC, 0x84, 0x20, 0x0C, 0x20, 0x00, 0xB2},
	{ModeCool, 23, FanHigh}:   {0xA0, 0x90, 0xAE, 0x84, 0x20, 0x0C, 0x20, 0x00, 0xF0},
	{ModeCool, 24, FanHigh}:   {0xA0, 0x90, 0xB0, 0x84, 0x1F, 0x0C, 0x1F, 0x00, 0xF0},
	{ModeCool, 25, FanHigh}:   {0xA0, 0x90, 0xB2, 0x84, 0x1F, 0x0C, 0x1F, 0x00, 0xB6},
	{ModeCool, 26, FanHigh}:   {0xA0, 0x90, 0xB4, 0x84, 0x1F, 0x0C, 0x1F, 0x00, 0xB4},
	{ModeCool, 27, FanHigh}:   {0xA0, 0x90, 0xB6, 0x84, 0x1F, 0x0C, 0x1F, 0x00, 0xEA},

	{ModeDry, 22, FanAuto}: {0xA0, 0x90, 0xAC, 0x04, 0x1D, 0x0C, 0x5D, 0x00, 0x79},
	{ModeDry, 23, FanAuto}: {0xA0, 0x90, 0xAE, 0x04, 0x1D, 0x0C, 0x5D, 0x00, 0x3F},
	{ModeDry, 24, FanAuto}: {0xA0, 0x90, 0xB0, 0x04, 0x1D, 0x0C, 0x5D, 0x00, 0x3D},
	{ModeDry, 25, FanAuto}: {0xA0, 0x90, 0xB2, 0x04, 0x1D, 0x0C, 0x5D, 0x00, 0x73},
	{ModeDry, 26, FanAuto}: {0xA0, 0x90, 0xB4, 0x03, 0x24, 0x0B, 0x64, 0x00, 0xEF},
	{ModeDry, 27, FanAuto}: {0xA0, 0x90, 0xB6, 0x03, 0x23, 0x0B, 0x63, 0x00, 0xAA},

	{ModeFanOnly, 0, FanAuto}:   {0xA0, 0x90, 0xB6, 0x04, 0x5F, 0x0C, 0x1F, 0x00, 0x2B},
	{ModeFanOnly, 0, FanLow}:    {0xA0, 0x90, 0xB6, 0x24, 0x5E, 0x0C, 0x1E, 0x00, 0xC5},
	{ModeFanOnly, 0, FanMedium}: {0xA0, 0x90, 0xB6, 0x64, 0x5E, 0x0C, 0x1E, 0x00, 0x8D},
	{ModeFanOnly, 0, FanHigh}:   {0xA0, 0x90, 0xB6, 0x84, 0x5E, 0x0C, 0x1E, 0x00, 0x65},

	{ModeOff, 0, FanAuto}: {0xA0, 0x00, 0xB6, 0x84, 0x1E, 0x0C, 0x1E, 0x00, 0x45},
}

// Saijo9 is the captured 9-byte Saijo protocol. It decodes with a single
// 1300 us threshold.
type Saijo9 struct{}

func (Saijo9) Name() string      { return ProtocolSaijo9 }
func (Saijo9) Profile() *Profile { return &ProfileNECSingle }
func (Saijo9) FrameLen() int     { return 9 }

func (Saijo9) Traits() Traits {
	return Traits{
		Modes:    []Mode{ModeOff, ModeCool, ModeDry, ModeFanOnly},
		Fans:     []FanMode{FanAuto, FanLow, FanMedium, FanHigh},
		Swings:   []Swing{SwingVertical},
		MinTemp:  saijoMinTemp,
		MaxTemp:  saijoMaxTemp,
		TempStep: 1,
	}
}

func (s Saijo9) Encode(st State) (Frame, error) {
	key := saijoKey{mode: st.Mode, fan: st.Fan}
	switch st.Mode {
	case ModeOff:
		key.fan = FanAuto
	case ModeCool:
		key.temp = int(tempCode(st.Temperature, saijoMinTemp, saijoMaxTemp, 0))
	case ModeDry:
		key.temp = int(tempCode(st.Temperature, saijoMinTemp, saijoMaxTemp, 0))
		key.fan = FanAuto
	case ModeFanOnly:
	default:
		return nil, unsupported(s, "mode "+st.Mode.String())
	}

	f, ok := saijo9Codebook[key]
	if !ok {
		return nil, unsupported(s, fmt.Sprintf("%s/%d/%s", key.mode, key.temp, key.fan))
	}
	return append(Frame(nil), f...), nil
}

// Decode reads the Saijo fields from the first eight bytes. The ninth byte
// has no known meaning and is ignored. OFF and fan-only frames always carry
// the same temperature byte, so no temperature is reported for them.
func (s Saijo9) Decode(f Frame) (Request, error) {
	if err := checkLen(s, f); err != nil {
		return Request{}, err
	}
	req, err := decodeSaijo(f)
	if err != nil {
		return Request{}, err
	}
	if mode, _ := req.Mode.Get(); mode == ModeOff || mode == ModeFanOnly {
		req.Temperature = Opt[float64]{}
	}
	return req, nil
}

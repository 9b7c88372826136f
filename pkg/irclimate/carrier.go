package irclimate

// Carrier 64-bit remote. Byte 1 packs a mode/fan selector with the
// temperature, byte 5 carries a check nibble and bytes 6-7 repeat the fan.
const (
	carrierPowerOn  = 0x28
	carrierPowerOff = 0x20

	carrierTempBase = 15
	carrierMinTemp  = 22
	carrierMaxTemp  = 27

	// Low nibble of byte 1 while in fan-only mode.
	carrierFanOnlyTemp = 0x9
)

var carrierOffFrame = FrameFromUint64(0x2049000000090700, 8)

type carrierSelector struct {
	mode Mode
	fan  FanMode
}

var carrierSelectors = map[uint8]carrierSelector{
	0x1: {ModeFanOnly, FanHigh},
	0x2: {ModeFanOnly, FanMedium},
	0x3: {ModeFanOnly, FanLow},
	0x4: {ModeCool, FanAuto},
	0x5: {ModeCool, FanHigh},
	0x6: {ModeCool, FanMedium},
	0x7: {ModeCool, FanLow},
	0xB: {ModeDry, FanAuto},
}

var carrierFanPair = map[FanMode][2]byte{
	FanAuto:   {0x07, 0x00},
	FanLow:    {0x00, 0x07},
	FanMedium: {0x01, 0x06},
	FanHigh:   {0x02, 0x05},
}

// Carrier is the 8-byte Carrier wall-unit protocol.
type Carrier struct{}

func (Carrier) Name() string      { return ProtocolCarrier }
func (Carrier) Profile() *Profile { return &ProfileNEC }
func (Carrier) FrameLen() int     { return 8 }

func (Carrier) Traits() Traits {
	return Traits{
		Modes:    []Mode{ModeOff, ModeCool, ModeDry, ModeFanOnly},
		Fans:     []FanMode{FanAuto, FanLow, FanMedium, FanHigh},
		MinTemp:  carrierMinTemp,
		MaxTemp:  carrierMaxTemp,
		TempStep: 1,
	}
}

func (c Carrier) Encode(s State) (Frame, error) {
	if s.Mode == ModeOff {
		return append(Frame(nil), carrierOffFrame...), nil
	}

	var selector, temp uint8
	fan := s.Fan
	switch s.Mode {
	case ModeCool:
		selector = carrierSelectorFor(ModeCool, fan)
		temp = tempCode(s.Temperature, carrierMinTemp, carrierMaxTemp, carrierTempBase)
	case ModeDry:
		selector = 0xB
		fan = FanAuto
		temp = tempCode(s.Temperature, carrierMinTemp, carrierMaxTemp, carrierTempBase)
	case ModeFanOnly:
		// The remote has no auto fan in fan-only mode and sends high.
		if fan == FanAuto {
			fan = FanHigh
		}
		selector = carrierSelectorFor(ModeFanOnly, fan)
		temp = carrierFanOnlyTemp
	default:
		return nil, unsupported(c, "mode "+s.Mode.String())
	}
	if selector == 0 {
		return nil, unsupported(c, "fan "+s.Fan.String())
	}

	pair := carrierFanPair[fan]
	f := Frame{carrierPowerOn, selector<<4 | temp, 0x00, 0x00, 0x00, 0x09, pair[0], pair[1]}
	f[5] |= carrierCheck(f) << 4
	return f, nil
}

func (c Carrier) Decode(f Frame) (Request, error) {
	if err := checkLen(c, f); err != nil {
		return Request{}, err
	}
	if carrierCheck(f) != f[5]>>4 {
		return Request{}, notRecognized("carrier check nibble %X in %s", f[5]>>4, f)
	}

	switch f[0] {
	case carrierPowerOff:
		return Request{Mode: Some(ModeOff)}, nil
	case carrierPowerOn:
	default:
		return Request{}, notRecognized("carrier power byte %02X", f[0])
	}

	sel, ok := carrierSelectors[f[1]>>4]
	if !ok {
		return Request{}, notRecognized("carrier selector %X", f[1]>>4)
	}

	req := Request{Mode: Some(sel.mode), Fan: Some(sel.fan)}
	if sel.mode == ModeCool || sel.mode == ModeDry {
		t := float64(carrierTempBase + f[1]&0x0F)
		req.Temperature = Some(clampTemp(t, carrierMinTemp, carrierMaxTemp))
	}
	return req, nil
}

func carrierSelectorFor(m Mode, fan FanMode) uint8 {
	for code, sel := range carrierSelectors {
		if sel.mode == m && sel.fan == fan {
			return code
		}
	}
	return 0
}

// carrierCheck returns the nibble that makes all sixteen nibbles of the
// frame sum to 0xF, ignoring the current high nibble of byte 5.
func carrierCheck(f Frame) uint8 {
	var sum uint8
	for i, b := range f {
		if i != 5 {
			sum += b >> 4
		}
		sum += b & 0x0F
	}
	return (0x0F - sum) & 0x0F
}

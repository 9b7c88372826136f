package irclimate

// Carrier cartridge (ceiling cassette) remote. State frames carry a fixed
// four byte prefix; swing is toggled with separate special frames.
const (
	cartridgePrefix = 0xF20D03FC

	cartridgeTempBase = 17
	cartridgeMinTemp  = 17
	cartridgeMaxTemp  = 30
	// The temperature nibble can carry up to 32.
	cartridgeNibbleMax = 32
)

var (
	cartridgeSwingOn  = FrameFromUint64(0xF20D01FE210120FC, 8)
	cartridgeSwingOff = FrameFromUint64(0xF20D01FE210223FC, 8)
)

var cartridgeModes = map[uint8]Mode{
	0x0: ModeAuto,
	0x1: ModeCool,
	0x2: ModeDry,
	0x4: ModeFanOnly,
	0x7: ModeOff,
}

var cartridgeFanCodes = map[FanMode]uint8{
	FanAuto:   0x0,
	FanLow:    0x4,
	FanMedium: 0x8,
	FanHigh:   0xC,
}

// cartridgeFan collapses the five physical fan levels onto three speeds.
// Unknown levels fall back to auto.
func cartridgeFan(code uint8) FanMode {
	switch code {
	case 0x4:
		return FanLow
	case 0x6, 0x8:
		return FanMedium
	case 0xA, 0xC:
		return FanHigh
	}
	return FanAuto
}

// CarrierCartridge is the 8-byte Carrier cartridge protocol.
type CarrierCartridge struct{}

func (CarrierCartridge) Name() string      { return ProtocolCarrierCartridge }
func (CarrierCartridge) Profile() *Profile { return &ProfileNEC }
func (CarrierCartridge) FrameLen() int     { return 8 }

func (CarrierCartridge) Traits() Traits {
	return Traits{
		Modes:    []Mode{ModeOff, ModeCool, ModeFanOnly, ModeDry, ModeAuto},
		Fans:     []FanMode{FanAuto, FanLow, FanMedium, FanHigh},
		Swings:   []Swing{SwingOff, SwingVertical},
		MinTemp:  cartridgeMinTemp,
		MaxTemp:  cartridgeMaxTemp,
		TempStep: 1,
	}
}

func (c CarrierCartridge) Encode(s State) (Frame, error) {
	var mode uint8
	found := false
	for code, m := range cartridgeModes {
		if m == s.Mode {
			mode, found = code, true
			break
		}
	}
	if !found {
		return nil, unsupported(c, "mode "+s.Mode.String())
	}
	fan, ok := cartridgeFanCodes[s.Fan]
	if !ok {
		return nil, unsupported(c, "fan "+s.Fan.String())
	}

	f := FrameFromUint64(cartridgePrefix<<32, 8)
	if s.Mode != ModeFanOnly && s.Mode != ModeOff {
		f[5] = tempCode(s.Temperature, cartridgeMinTemp, cartridgeNibbleMax, cartridgeTempBase) << 4
	}
	f[6] = fan<<4 | mode
	return f, nil
}

func (c CarrierCartridge) EncodeSwing(s Swing) (Frame, error) {
	switch s {
	case SwingVertical:
		return append(Frame(nil), cartridgeSwingOn...), nil
	case SwingOff:
		return append(Frame(nil), cartridgeSwingOff...), nil
	}
	return nil, unsupported(c, "swing "+s.String())
}

func (c CarrierCartridge) Decode(f Frame) (Request, error) {
	if err := checkLen(c, f); err != nil {
		return Request{}, err
	}
	switch {
	case f.Equal(cartridgeSwingOn):
		return Request{Swing: Some(SwingVertical)}, nil
	case f.Equal(cartridgeSwingOff):
		return Request{Swing: Some(SwingOff)}, nil
	}

	if f.Uint64()>>32 != cartridgePrefix {
		return Request{}, notRecognized("cartridge prefix in %s", f)
	}

	mode, ok := cartridgeModes[f[6]&0x0F]
	if !ok {
		return Request{}, notRecognized("cartridge mode nibble %X", f[6]&0x0F)
	}

	req := Request{Mode: Some(mode), Fan: Some(cartridgeFan(f[6] >> 4))}
	if mode != ModeOff && mode != ModeFanOnly {
		t := float64(cartridgeTempBase + f[5]>>4)
		req.Temperature = Some(clampTemp(t, cartridgeMinTemp, cartridgeMaxTemp))
	}
	return req, nil
}

// Receive-only layout of the same cartridge remote as reported by a
// second capture. Its swing-off code differs from the transmit side.
const cartridgeRXPrefix = 0xF20D01FE21

var cartridgeRXSwingOff = FrameFromUint64(0xF20D01FE210100DC, 8)

var cartridgeRXModes = map[uint8]Mode{
	0x8: ModeCool,
	0x1: ModeHeat,
	0x2: ModeDry,
	0x0: ModeFanOnly,
}

// CarrierCartridgeRX decodes the receive-side cartridge layout. It cannot encode.
type CarrierCartridgeRX struct{}

func (CarrierCartridgeRX) Name() string      { return ProtocolCarrierCartridgeRX }
func (CarrierCartridgeRX) Profile() *Profile { return &ProfileNEC }
func (CarrierCartridgeRX) FrameLen() int     { return 8 }

func (CarrierCartridgeRX) Traits() Traits {
	return Traits{
		Modes:    []Mode{ModeOff, ModeCool, ModeHeat, ModeDry, ModeFanOnly},
		Fans:     []FanMode{FanAuto, FanLow, FanMedium, FanHigh},
		Swings:   []Swing{SwingOff, SwingVertical},
		MinTemp:  cartridgeMinTemp,
		MaxTemp:  cartridgeMaxTemp,
		TempStep: 1,
	}
}

func (c CarrierCartridgeRX) Encode(State) (Frame, error) {
	return nil, unsupported(c, "state frames")
}

func (c CarrierCartridgeRX) Decode(f Frame) (Request, error) {
	if err := checkLen(c, f); err != nil {
		return Request{}, err
	}
	switch {
	case f.Equal(cartridgeSwingOn):
		return Request{Swing: Some(SwingVertical)}, nil
	case f.Equal(cartridgeRXSwingOff):
		return Request{Swing: Some(SwingOff)}, nil
	}

	if f.Uint64()>>24 != cartridgeRXPrefix {
		return Request{}, notRecognized("cartridge rx prefix in %s", f)
	}

	var mode Mode
	if f[5]>>4 == 0 {
		mode = ModeOff
	} else {
		m, ok := cartridgeRXModes[f[5]&0x0F]
		if !ok {
			return Request{}, notRecognized("cartridge rx mode nibble %X", f[5]&0x0F)
		}
		mode = m
	}

	req := Request{
		Mode: Some(mode),
		Fan:  Some(cartridgeFan(f[6] >> 4)),
	}
	if mode != ModeOff && mode != ModeFanOnly {
		t := float64(cartridgeTempBase + f[6]&0x0F)
		req.Temperature = Some(clampTemp(t, cartridgeMinTemp, cartridgeMaxTemp))
	}
	if f[7]>>4 == 0x2 {
		req.Swing = Some(SwingVertical)
	} else {
		req.Swing = Some(SwingOff)
	}
	return req, nil
}

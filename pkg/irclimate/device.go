package irclimate

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

var ErrNoTransmitter = errors.New("no transmitter configured")

// Transmitter sends a duration sequence on an IR carrier.
type Transmitter interface {
	Transmit(carrierHz uint32, durations []int32) error
}

// PublishFunc receives the device state after every change.
type PublishFunc func(name string, s State)

// Device owns the logical climate state of one unit and translates requests
// and received bursts through its schema.
type Device struct {
	name    string
	schema  Schema
	tx      Transmitter
	publish PublishFunc
	logger  *slog.Logger

	mu    sync.Mutex
	state State
	seq   uint8
}

// NewDevice creates a device speaking the given protocol.
func NewDevice(name string, schema Schema, opts ...DeviceOption) (*Device, error) {
	if name == "" {
		return nil, errors.New("device name must not be empty")
	}
	if schema == nil {
		return nil, errors.New("device schema must not be nil")
	}
	if err := schema.Profile().Validate(); err != nil {
		return nil, err
	}

	cfg := defaultDeviceConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	d := &Device{
		name:    name,
		schema:  schema,
		tx:      cfg.transmitter,
		publish: cfg.publish,
		logger:  cfg.logger,
		state:   cfg.state,
	}
	if seq, ok := schema.(SequencedEncoder); ok {
		d.seq = seq.InitialSequence()
	}
	return d, nil
}

// Name returns the configured device name.
func (d *Device) Name() string { return d.name }

// Schema returns the protocol schema of the device.
func (d *Device) Schema() Schema { return d.schema }

// State returns a snapshot of the current state.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Apply merges req into the current state, encodes it and transmits it.
// The state is committed and published only after a successful transmit.
func (d *Device) Apply(req Request) error {
	if t, ok := req.Temperature.Get(); ok && (math.IsNaN(t) || math.IsInf(t, 0)) {
		return fmt.Errorf("%w: temperature %v", ErrUnsupported, t)
	}

	d.mu.Lock()

	next := d.state.Merge(req)
	frame, advance, err := d.encode(req, next)
	if err != nil {
		d.mu.Unlock()
		return err
	}

	if d.tx == nil {
		d.mu.Unlock()
		if d.logger != nil {
			d.logger.Error("transmitter not set up", "device", d.name)
		}
		return ErrNoTransmitter
	}

	p := d.schema.Profile()
	if err := d.tx.Transmit(p.CarrierHz, Encode(p, frame)); err != nil {
		d.mu.Unlock()
		if d.logger != nil {
			d.logger.Error("transmit failed", "device", d.name, "frame", frame.String(), "error", err)
		}
		return fmt.Errorf("transmit %s: %w", d.name, err)
	}

	if d.logger != nil {
		d.logger.Debug("frame sent", "device", d.name, "frame", frame.String(), "state", next.String())
	}

	d.state = next
	if advance {
		d.seq = (d.seq + 1) & 0x0F
	}
	d.mu.Unlock()

	d.notify(next)
	return nil
}

// encode picks the frame for a request. A swing change on a schema with
// dedicated swing frames sends only that frame.
func (d *Device) encode(req Request, next State) (Frame, bool, error) {
	if sw, ok := req.Swing.Get(); ok {
		if enc, ok := d.schema.(SwingEncoder); ok {
			f, err := enc.EncodeSwing(sw)
			return f, false, err
		}
	}
	if enc, ok := d.schema.(SequencedEncoder); ok && next.Mode != ModeOff {
		f, err := enc.EncodeSequenced(next, d.seq)
		return f, err == nil, err
	}
	f, err := d.schema.Encode(next)
	return f, false, err
}

// Receive decodes a received burst. It returns false, leaving the state
// untouched, when the burst does not belong to this device's protocol.
func (d *Device) Receive(durations []int32) bool {
	frame, req, err := DecodeRaw(d.schema, durations)
	if err != nil {
		if d.logger != nil {
			if frame != nil {
				d.logger.Warn("frame rejected", "device", d.name, "frame", frame.String(), "error", err)
			} else {
				d.logger.Debug("burst not decoded", "device", d.name, "error", err)
			}
		}
		return false
	}

	d.mu.Lock()
	d.state = d.state.Merge(req)
	st := d.state
	d.mu.Unlock()

	if d.logger != nil {
		d.logger.Debug("frame received", "device", d.name, "frame", frame.String(), "update", req.String())
	}
	d.notify(st)
	return true
}

func (d *Device) notify(s State) {
	if d.publish != nil {
		d.publish(d.name, s)
	}
}

package irclimate

import (
	"errors"
	"log/slog"
)

// DeviceOption configures a Device.
type DeviceOption func(*deviceConfig) error

// deviceConfig holds the configuration for a Device.
type deviceConfig struct {
	transmitter Transmitter
	publish     PublishFunc
	logger      *slog.Logger
	state       State
}

// defaultDeviceConfig returns the default device configuration.
func defaultDeviceConfig() *deviceConfig {
	return &deviceConfig{
		state: DefaultState(),
	}
}

// WithTransmitter sets the IR transmitter used by Apply.
// Without one, Apply fails with ErrNoTransmitter.
func WithTransmitter(tx Transmitter) DeviceOption {
	return func(c *deviceConfig) error {
		if tx == nil {
			return errors.New("transmitter must not be nil")
		}
		c.transmitter = tx
		return nil
	}
}

// WithPublisher sets the callback invoked after every state change.
func WithPublisher(fn PublishFunc) DeviceOption {
	return func(c *deviceConfig) error {
		c.publish = fn
		return nil
	}
}

// WithLogger sets a structured logger for debug and error logging.
// By default, no logging is performed.
func WithLogger(logger *slog.Logger) DeviceOption {
	return func(c *deviceConfig) error {
		c.logger = logger
		return nil
	}
}

// WithInitialState replaces the default OFF / 25 / auto start state.
func WithInitialState(s State) DeviceOption {
	return func(c *deviceConfig) error {
		c.state = s
		return nil
	}
}

// BridgeOption configures a Bridge.
type BridgeOption func(*bridgeConfig) error

// bridgeConfig holds the configuration for a Bridge.
type bridgeConfig struct {
	baudRate int
	logger   *slog.Logger
}

// defaultBridgeConfig returns the default bridge configuration.
func defaultBridgeConfig() *bridgeConfig {
	return &bridgeConfig{
		baudRate: 115200,
	}
}

// WithBaudRate sets the serial baud rate.
// Default is 115200.
func WithBaudRate(baud int) BridgeOption {
	return func(c *bridgeConfig) error {
		if baud <= 0 {
			return errors.New("baud rate must be positive")
		}
		c.baudRate = baud
		return nil
	}
}

// WithBridgeLogger sets a structured logger for the bridge read loop.
// By default, no logging is performed.
func WithBridgeLogger(logger *slog.Logger) BridgeOption {
	return func(c *bridgeConfig) error {
		c.logger = logger
		return nil
	}
}

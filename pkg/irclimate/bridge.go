package irclimate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"
)

var ErrBridgeClosed = errors.New("bridge closed")

// minBurstLen is the shortest line treated as a burst: a header pair plus
// at least one bit.
const minBurstLen = 4

// Listener is offered every burst received by a Bridge. It returns true when
// it handled the burst.
type Listener interface {
	Receive(durations []int32) bool
}

// Bridge talks to an IR transceiver over a line-oriented serial link.
// It sends "TX <hz> <d0>,<d1>,..." lines and hands every received raw dump
// to its listeners.
type Bridge struct {
	rw     io.ReadWriteCloser
	logger *slog.Logger

	mu       sync.Mutex
	isClosed bool
	closeCh  chan struct{}
	done     chan struct{}

	listenersMu sync.RWMutex
	listeners   []Listener
}

// OpenBridge opens the serial port and starts reading from it.
func OpenBridge(port string, opts ...BridgeOption) (*Bridge, error) {
	cfg, err := bridgeOptions(opts)
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: cfg.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("bridge: failed to open %s: %w", port, err)
	}
	if cfg.logger != nil {
		cfg.logger.Debug("serial port opened", "port", port, "baud", cfg.baudRate)
	}
	return newBridge(p, cfg), nil
}

// NewBridge starts a bridge on an already open connection.
func NewBridge(rw io.ReadWriteCloser, opts ...BridgeOption) (*Bridge, error) {
	cfg, err := bridgeOptions(opts)
	if err != nil {
		return nil, err
	}
	return newBridge(rw, cfg), nil
}

func bridgeOptions(opts []BridgeOption) (*bridgeConfig, error) {
	cfg := defaultBridgeConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return cfg, nil
}

func newBridge(rw io.ReadWriteCloser, cfg *bridgeConfig) *Bridge {
	b := &Bridge{
		rw:      rw,
		logger:  cfg.logger,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go b.readLoop()
	return b
}

// AddListener registers l. Listeners are tried in registration order.
func (b *Bridge) AddListener(l Listener) {
	b.listenersMu.Lock()
	defer b.listenersMu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Transmit writes one burst to the transceiver.
func (b *Bridge) Transmit(carrierHz uint32, durations []int32) error {
	var sb strings.Builder
	sb.WriteString("TX ")
	sb.WriteString(strconv.FormatUint(uint64(carrierHz), 10))
	sb.WriteByte(' ')
	for i, d := range durations {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(int64(d), 10))
	}
	sb.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.isClosed {
		return ErrBridgeClosed
	}
	if _, err := io.WriteString(b.rw, sb.String()); err != nil {
		if b.logger != nil {
			b.logger.Error("failed to write burst", "error", err)
		}
		return err
	}
	if b.logger != nil {
		b.logger.Debug("burst sent", "carrierHz", carrierHz, "len", len(durations))
	}
	return nil
}

// Done is closed when the read loop has stopped.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Close stops the read loop and closes the connection.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.isClosed {
		return nil
	}
	b.isClosed = true
	close(b.closeCh)
	if b.logger != nil {
		b.logger.Debug("bridge closed")
	}
	return b.rw.Close()
}

func (b *Bridge) readLoop() {
	defer close(b.done)

	r := bufio.NewReader(b.rw)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			b.dispatch(line)
		}
		if err != nil {
			select {
			case <-b.closeCh:
			default:
				if b.logger != nil && !errors.Is(err, io.EOF) {
					b.logger.Error("failed to read from bridge", "error", err)
				}
				b.Close()
			}
			return
		}
	}
}

func (b *Bridge) dispatch(line string) {
	// Transceivers may echo our own commands.
	if strings.HasPrefix(strings.TrimSpace(line), "TX ") {
		return
	}
	durations := ParseRawLog(line)
	if len(durations) < minBurstLen {
		return
	}

	b.listenersMu.RLock()
	listeners := b.listeners
	b.listenersMu.RUnlock()

	for _, l := range listeners {
		if l.Receive(durations) {
			return
		}
	}
	if b.logger != nil {
		b.logger.Warn("burst not handled", "len", len(durations))
	}
}

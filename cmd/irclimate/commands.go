package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zberg/go-irclimate/internal/config"
	"github.com/zberg/go-irclimate/pkg/irclimate"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

var captureProfiles = map[string]*irclimate.Profile{
	"nec":        &irclimate.ProfileNEC,
	"nec-single": &irclimate.ProfileNECSingle,
	"mitsubishi": &irclimate.ProfileMitsubishi,
}

func init() {
	rootCmd.AddCommand(protocolsCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(listenCmd)
}

var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List supported remote protocols",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range irclimate.Schemas() {
			tr := s.Traits()
			fmt.Printf("%s  (%s timing, %d bytes)\n", bold(s.Name()), s.Profile().Name, s.FrameLen())
			fmt.Printf("  modes: %s\n", joinStrings(tr.Modes))
			fmt.Printf("  fans:  %s\n", joinStrings(tr.Fans))
			if len(tr.Swings) > 0 {
				fmt.Printf("  swing: %s\n", joinStrings(tr.Swings))
			}
			fmt.Printf("  temp:  %g-%g\n", tr.MinTemp, tr.MaxTemp)
		}
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a climate command to a frame",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		protocol, _ := cmd.Flags().GetString("protocol")
		raw, _ := cmd.Flags().GetBool("raw")

		schema, err := irclimate.Lookup(protocol)
		if err != nil {
			return err
		}
		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		if req.IsEmpty() {
			return errors.New("nothing to encode: set at least one of --mode, --temp, --fan, --swing")
		}

		// Run the request through a device so swing frames and sequence
		// numbers are chosen the same way as when sending.
		tx := &captureTransmitter{}
		dev, err := irclimate.NewDevice("encode", schema, irclimate.WithTransmitter(tx), irclimate.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := dev.Apply(req); err != nil {
			return err
		}
		frame, err := irclimate.Decode(schema.Profile(), tx.durations, schema.FrameLen())
		if err != nil {
			return fmt.Errorf("re-decode encoded burst: %w", err)
		}

		fmt.Printf("%s %s\n", bold("state:"), dev.State())
		fmt.Printf("%s %s\n", bold("frame:"), green(frame.String()))
		if raw {
			fmt.Printf("%s %d Hz, %d durations\n", bold("raw:"), tx.carrierHz, len(tx.durations))
			fmt.Println(irclimate.FormatRaw(tx.durations))
		}
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode a raw burst from an ESPHome log",
	Long: `Decode a raw burst read from a file or stdin. Log metadata is stripped
before the durations are parsed. Without --protocol every protocol is tried.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		protocol, _ := cmd.Flags().GetString("protocol")

		text, err := readInput(args)
		if err != nil {
			return err
		}
		d := irclimate.ParseRawLog(text)

		schemas := irclimate.Schemas()
		if protocol != "" {
			s, err := irclimate.Lookup(protocol)
			if err != nil {
				return err
			}
			schemas = []irclimate.Schema{s}
		}

		var lastErr error
		for _, s := range schemas {
			frame, req, err := irclimate.DecodeRaw(s, d)
			if err != nil {
				logger.Debug("protocol did not match", "protocol", s.Name(), "error", err)
				lastErr = err
				continue
			}
			fmt.Printf("%s %s\n", bold("protocol:"), cyan(s.Name()))
			fmt.Printf("%s %s\n", bold("frame:"), green(frame.String()))
			fmt.Printf("%s %s\n", bold("fields:"), req)
			return nil
		}
		if protocol != "" {
			return lastErr
		}
		return fmt.Errorf("no protocol recognized the burst (%d durations)", len(d))
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture [file]",
	Short: "Dump the bytes of a burst from an unknown remote",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("profile")
		p, ok := captureProfiles[name]
		if !ok {
			return fmt.Errorf("unknown profile %q", name)
		}

		text, err := readInput(args)
		if err != nil {
			return err
		}
		d := irclimate.ParseRawLog(text)
		frame, err := irclimate.DecodeAny(p, d)
		if err != nil {
			return err
		}

		fmt.Printf("%s %d durations, %d bytes\n", bold("burst:"), len(d), len(frame))
		fmt.Printf("%s %s\n", bold("hex:"), green(frame.String()))
		for i, b := range frame {
			fmt.Printf("  %2d  %02X  %08b\n", i, b, b)
		}
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a climate command to a configured device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("device")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dc, ok := cfg.Device(name)
		if !ok {
			return fmt.Errorf("device %q not in %s", name, configPath)
		}
		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		if req.IsEmpty() {
			return errors.New("nothing to send: set at least one of --mode, --temp, --fan, --swing")
		}

		bridge, err := openBridge(cfg)
		if err != nil {
			return err
		}
		defer bridge.Close()

		dev, err := newDevice(dc, bridge)
		if err != nil {
			return err
		}
		if err := dev.Apply(req); err != nil {
			return err
		}
		fmt.Println(green("Command sent successfully."))
		return nil
	},
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Track configured devices from received remote commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(cfg.Devices) == 0 {
			return fmt.Errorf("no devices configured in %s", configPath)
		}

		bridge, err := openBridge(cfg)
		if err != nil {
			return err
		}
		defer bridge.Close()

		for _, dc := range cfg.Devices {
			dev, err := newDevice(dc, bridge)
			if err != nil {
				return err
			}
			bridge.AddListener(dev)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Listening on %s for %d devices. Press Ctrl+C to stop.\n", cfg.Bridge.Port, len(cfg.Devices))
		select {
		case <-ctx.Done():
			return nil
		case <-bridge.Done():
			return errors.New("bridge connection lost")
		}
	},
}

func init() {
	encodeCmd.Flags().String("protocol", "", "Protocol name (see 'irclimate protocols')")
	encodeCmd.Flags().Bool("raw", false, "Also print the raw duration sequence")
	_ = encodeCmd.MarkFlagRequired("protocol")
	addRequestFlags(encodeCmd)

	decodeCmd.Flags().String("protocol", "", "Only try this protocol")

	captureCmd.Flags().String("profile", "nec", "Timing profile (nec, nec-single, mitsubishi)")

	sendCmd.Flags().String("device", "", "Configured device name")
	_ = sendCmd.MarkFlagRequired("device")
	addRequestFlags(sendCmd)
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "Mode (off, cool, dry, fan_only, auto, heat)")
	cmd.Flags().Float64("temp", 0, "Target temperature in Celsius")
	cmd.Flags().String("fan", "", "Fan speed (auto, low, medium, high)")
	cmd.Flags().String("swing", "", "Swing (off, vertical, level1-level5)")
}

// requestFromFlags builds a request holding only the flags given on the
// command line.
func requestFromFlags(cmd *cobra.Command) (irclimate.Request, error) {
	var req irclimate.Request

	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		m, err := irclimate.ParseMode(v)
		if err != nil {
			return req, err
		}
		req.Mode = irclimate.Some(m)
	}
	if cmd.Flags().Changed("temp") {
		t, _ := cmd.Flags().GetFloat64("temp")
		req.Temperature = irclimate.Some(t)
	}
	if v, _ := cmd.Flags().GetString("fan"); v != "" {
		f, err := irclimate.ParseFanMode(v)
		if err != nil {
			return req, err
		}
		req.Fan = irclimate.Some(f)
	}
	if v, _ := cmd.Flags().GetString("swing"); v != "" {
		s, err := irclimate.ParseSwing(v)
		if err != nil {
			return req, err
		}
		req.Swing = irclimate.Some(s)
	}
	return req, nil
}

// loadConfig loads and validates the config file. The config log level
// applies unless --log-level was given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", configPath, err)
	}
	if !cmd.Flags().Changed("log-level") {
		level, _ := config.ParseLevel(cfg.LogLevel)
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return cfg, nil
}

func openBridge(cfg *config.Config) (*irclimate.Bridge, error) {
	return irclimate.OpenBridge(cfg.Bridge.Port,
		irclimate.WithBaudRate(cfg.Bridge.BaudRate),
		irclimate.WithBridgeLogger(logger),
	)
}

func newDevice(dc config.DeviceConfig, tx irclimate.Transmitter) (*irclimate.Device, error) {
	schema, err := irclimate.Lookup(dc.Protocol)
	if err != nil {
		return nil, err
	}
	return irclimate.NewDevice(dc.Name, schema,
		irclimate.WithTransmitter(tx),
		irclimate.WithLogger(logger),
		irclimate.WithPublisher(printState),
	)
}

func printState(name string, s irclimate.State) {
	fmt.Printf("%s %s\n", cyan(name), s)
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		fmt.Fprintln(os.Stderr, yellow("Reading raw log from stdin..."))
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// captureTransmitter keeps the last burst instead of sending it.
type captureTransmitter struct {
	carrierHz uint32
	durations []int32
}

func (c *captureTransmitter) Transmit(carrierHz uint32, durations []int32) error {
	c.carrierHz = carrierHz
	c.durations = durations
	return nil
}

func joinStrings[T fmt.Stringer](vs []T) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

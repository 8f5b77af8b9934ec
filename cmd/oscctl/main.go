package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/danmuck/oscwire/internal/config"
	"github.com/danmuck/oscwire/internal/logging"
	"github.com/danmuck/oscwire/internal/observability"
	"github.com/danmuck/oscwire/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	mode       string
	configPath string
	metrics    bool

	hexInput  string
	fileInput string

	address string
	args    argList
	bundle  string

	output string
	force  bool
}

func main() {
	logging.ConfigureRuntime()
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fatalf("%v", err)
	}
	if err := run(opts, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

// parseFlags accepts the mode either as a leading word ("oscctl encode ...")
// or through -mode.
func parseFlags(argv []string) (options, error) {
	var opts options
	mode := ""
	if len(argv) > 0 && !strings.HasPrefix(argv[0], "-") {
		mode, argv = argv[0], argv[1:]
	}
	fs := flag.NewFlagSet("oscctl", flag.ContinueOnError)
	fs.StringVar(&opts.mode, "mode", "decode", "mode: decode | encode | init-config")
	fs.StringVar(&opts.configPath, "config", "", "path to oscctl TOML config")
	fs.BoolVar(&opts.metrics, "metrics", false, "print codec metrics after the run")
	fs.StringVar(&opts.hexInput, "hex", "", "packet bytes as hex (decode mode)")
	fs.StringVar(&opts.fileInput, "file", "", "packet file, - for stdin (decode mode)")
	fs.StringVar(&opts.address, "addr", "", "address pattern (encode mode)")
	fs.Var(&opts.args, "arg", "argument literal tag:value, repeatable (encode mode)")
	fs.StringVar(&opts.bundle, "bundle", "", "wrap the message in a bundle with this timetag (encode mode)")
	fs.StringVar(&opts.output, "output", "oscctl.toml", "output path (init-config mode)")
	fs.BoolVar(&opts.force, "force", false, "overwrite existing config file (init-config mode)")
	if err := fs.Parse(argv); err != nil {
		return options{}, err
	}
	if mode != "" {
		opts.mode = mode
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

func run(opts options, out io.Writer) error {
	if opts.mode == "init-config" {
		if err := config.WriteTemplate(opts.output, opts.force); err != nil {
			return err
		}
		log.Info().Str("path", opts.output).Msg("wrote oscctl config template")
		return nil
	}

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if lvl, ok := logging.ParseLevel(cfg.LogLevel); ok {
			zerolog.SetGlobalLevel(lvl)
		}
	}

	var observer protocol.Observer
	if opts.metrics || cfg.Metrics {
		observer = observability.NewCodecMetrics()
	}
	codec := protocol.NewCodec(cfg.Limits(), observer)

	var err error
	switch opts.mode {
	case "decode":
		err = runDecode(codec, opts, out)
	case "encode":
		err = runEncode(codec, cfg, opts, out)
	default:
		err = fmt.Errorf("unknown mode %q (supported: decode, encode, init-config)", opts.mode)
	}
	if err != nil {
		return err
	}
	if observer != nil {
		return writeMetrics(out)
	}
	return nil
}

func runDecode(codec *protocol.Codec, opts options, out io.Writer) error {
	packet, err := readPacket(opts)
	if err != nil {
		return err
	}
	msgs, err := codec.Resolve(packet)
	if err != nil {
		return fmt.Errorf("decode %d bytes: %w", len(packet), err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(out, formatMessage(msg))
	}
	log.Debug().Int("bytes", len(packet)).Int("messages", len(msgs)).Msg("oscctl decode")
	return nil
}

func readPacket(opts options) ([]byte, error) {
	switch {
	case opts.hexInput != "" && opts.fileInput != "":
		return nil, errors.New("use either -hex or -file, not both")
	case opts.hexInput != "":
		clean := strings.Join(strings.Fields(opts.hexInput), "")
		return hex.DecodeString(clean)
	case opts.fileInput == "-":
		return io.ReadAll(os.Stdin)
	case opts.fileInput != "":
		return os.ReadFile(opts.fileInput)
	default:
		return nil, errors.New("decode needs -hex or -file")
	}
}

func runEncode(codec *protocol.Codec, cfg config.Config, opts options, out io.Writer) error {
	msg := protocol.NewMessage(opts.address)
	for _, lit := range opts.args {
		arg, err := parseArgument(lit)
		if err != nil {
			return err
		}
		msg.Add(arg)
	}

	buf := make([]byte, cfg.EncodeBufferBytes)
	n, err := codec.EncodeTo(msg, buf)
	if err != nil {
		return fmt.Errorf("encode %s into %d bytes: %w", opts.address, len(buf), err)
	}
	packet := buf[:n]

	if opts.bundle != "" {
		tt, err := strconv.ParseUint(opts.bundle, 0, 64)
		if err != nil {
			return fmt.Errorf("parse bundle timetag: %w", err)
		}
		b := &protocol.Bundle{Timetag: protocol.Timetag(tt), Messages: []*protocol.Message{msg}}
		if packet, err = b.Encode(); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, hex.EncodeToString(packet))
	return nil
}

func formatMessage(msg *protocol.Message) string {
	var sb strings.Builder
	sb.WriteString(msg.Address())
	if msg.HasTimetag() {
		fmt.Fprintf(&sb, " @%d", uint64(msg.Timetag()))
	}
	for _, a := range msg.Args() {
		sb.WriteByte(' ')
		sb.WriteString(formatArgument(a))
	}
	return sb.String()
}

func writeMetrics(out io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "oscwire_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "oscctl: "+format+"\n", args...)
	os.Exit(1)
}

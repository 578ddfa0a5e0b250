// ABOUTME: Command-line flag parsing for the file player
// ABOUTME: Maps flags onto player.Config and validates enumerated values
package main

import (
	"flag"
	"fmt"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/Resonate-Protocol/resonate-play/pkg/audio/resample"
	"github.com/Resonate-Protocol/resonate-play/pkg/player"
	"github.com/sirupsen/logrus"
)

type options struct {
	config      player.Config
	logFile     string
	logLevel    logrus.Level
	noTUI       bool
	showVersion bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var (
		backend        = fs.String("backend", "malgo", "Output backend: malgo, oto, portaudio, null")
		mode           = fs.String("mode", "buffered", "Threading mode: buffered or direct")
		bufferMs       = fs.Int("buffer-ms", player.DefaultBufferMs, "Ring buffer size in milliseconds (buffered mode)")
		batch          = fs.Int("batch", resample.DefaultBatchFrames, "Resampler input batch in frames")
		engine         = fs.String("engine", "sinc", "Resampling engine: sinc or soxr")
		quality        = fs.String("quality", "medium", "soxr quality: quick, low, medium, high, veryhigh")
		strictChannels = fs.Bool("strict-channels", false, "Fail when file and device channel counts differ")
		maxSkips       = fs.Int("max-skips", 0, "Consecutive corrupt frames tolerated before stopping (0 = default)")
		rate           = fs.Int("rate", 0, "Requested sample rate for oto/null backends")
		channels       = fs.Int("channels", 0, "Requested channel count for oto/null backends")
		format         = fs.String("format", "", "Requested sample format for oto/null backends (i16, f32, u8, ...)")
		logFile        = fs.String("log-file", "resonate-play.log", "Log file path")
		logLevel       = fs.String("log-level", "info", "Log level: debug, info, warn, error")
		noTUI          = fs.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
		streamLogs     = fs.Bool("stream-logs", false, "Alias for -no-tui")
		showVersion    = fs.Bool("version", false, "Print version and exit")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: resonate-play [flags] <audio file>\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{
		logFile:     *logFile,
		noTUI:       *noTUI || *streamLogs,
		showVersion: *showVersion,
	}
	if opts.showVersion {
		return opts, nil
	}

	if fs.NArg() != 1 {
		return options{}, fmt.Errorf("expected exactly one audio file, got %d arguments", fs.NArg())
	}

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		return options{}, err
	}
	opts.logLevel = level

	m, err := player.ParseMode(*mode)
	if err != nil {
		return options{}, err
	}
	e, err := resample.ParseEngine(*engine)
	if err != nil {
		return options{}, err
	}

	req := audio.StreamConfig{SampleRate: *rate, Channels: *channels}
	if *format != "" {
		f, err := audio.ParseSampleFormat(*format)
		if err != nil {
			return options{}, err
		}
		req.Format = f
	}

	opts.config = player.Config{
		Path:                fs.Arg(0),
		Backend:             *backend,
		Request:             req,
		Mode:                m,
		BufferMs:            *bufferMs,
		BatchFrames:         *batch,
		Engine:              e,
		Quality:             *quality,
		StrictChannels:      *strictChannels,
		MaxConsecutiveSkips: *maxSkips,
	}
	if err := opts.config.Validate(); err != nil {
		return options{}, err
	}
	return opts, nil
}

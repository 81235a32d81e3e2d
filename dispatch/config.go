package dispatch

import (
	"fmt"
	"github.com/caarlos0/env/v11"
	"io"
	"log/slog"
	"os"
)

// Config holds the settings of a [Registry] that may come from the environment.
type Config struct {
	// Strict makes a listener failure panic instead of being reported and skipped.
	Strict   bool       `env:"DISPATCH_STRICT" envDefault:"false"`
	LogLevel slog.Level `env:"DISPATCH_LOG_LEVEL" envDefault:"INFO"`
}

// ConfigFromEnv loads a [Config] from environment variables.
func ConfigFromEnv() (Config, error) {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return conf, nil
}

// NewLogger creates a text logger that writes to w at the configured level.
// If w is nil, then os.Stderr is used.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: c.LogLevel,
	}))
}

type options struct {
	conf Config
	log  *slog.Logger
	inst Instrument
}

// ConfigFunc sets an option for [NewRegistry].
// An error is returned if the option is invalid, and the options are left unchanged.
type ConfigFunc func(*options) error

// WithConfig applies a whole [Config], usually from [ConfigFromEnv].
func WithConfig(conf Config) ConfigFunc {
	return func(opts *options) error {
		opts.conf = conf
		return nil
	}
}

// Strict overrides [Config.Strict].
func Strict(strict bool) ConfigFunc {
	return func(opts *options) error {
		opts.conf.Strict = strict
		return nil
	}
}

func WithLogger(log *slog.Logger) ConfigFunc {
	return func(opts *options) error {
		if log == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidConfig)
		}
		opts.log = log
		return nil
	}
}

func WithInstrument(inst Instrument) ConfigFunc {
	return func(opts *options) error {
		if inst == nil {
			return fmt.Errorf("%w: nil instrument", ErrInvalidConfig)
		}
		opts.inst = inst
		return nil
	}
}

// Instrument receives measurements from a [Registry].
// Implementations are called synchronously, so they should return quickly.
type Instrument interface {
	// Committed is called when an event is committed to at least one listener.
	Committed(key Key, listeners int)
	// ListenerFailed is called for each listener that failed during a commit.
	ListenerFailed(key Key, err error)
	// ListenersChanged is called with the new number of listeners for a key after it changes.
	ListenersChanged(key Key, count int)
}

type nopInstrument struct{}

func (nopInstrument) Committed(Key, int) {}
func (nopInstrument) ListenerFailed(Key, error) {}
func (nopInstrument) ListenersChanged(Key, int) {}

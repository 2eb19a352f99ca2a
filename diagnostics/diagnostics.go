package diagnostics

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Sink receives warnings emitted while a fault tree is built or generated.
// None of these conditions abort construction; a Sink only observes them.
type Sink interface {
	// OrphanEvent warns that a basic or house event named name has no
	// parent gate anywhere in the tree.
	OrphanEvent(kind, name string)

	// UndefinedPromoted warns that a gate argument named name did not
	// resolve to any declared entity and was promoted to a placeholder
	// undefined event.
	UndefinedPromoted(name string)

	// CCFUncovered warns that count basic events belong to no CCF group
	// in a tree that has CCF groups.
	CCFUncovered(count int)
}

// NopSink discards every warning. It is the default for library callers
// that have no use for diagnostics.
type NopSink struct{}

func (NopSink) OrphanEvent(kind, name string) {}
func (NopSink) UndefinedPromoted(name string) {}
func (NopSink) CCFUncovered(count int)        {}

// ConsoleSink logs warnings through zerolog, in the same console/JSON
// split command surfaces use for everything else they log.
type ConsoleSink struct {
	logger zerolog.Logger
}

// ConsoleOption configures a ConsoleSink.
type ConsoleOption func(*consoleConfig)

type consoleConfig struct {
	out    io.Writer
	pretty bool
}

// WithOutput sets the writer a ConsoleSink logs to. Defaults to os.Stderr.
func WithOutput(w io.Writer) ConsoleOption {
	return func(c *consoleConfig) { c.out = w }
}

// WithPrettyConsole switches the sink from structured JSON lines to
// zerolog's human-readable ConsoleWriter, useful for interactive CLI runs.
func WithPrettyConsole() ConsoleOption {
	return func(c *consoleConfig) { c.pretty = true }
}

// NewConsoleSink builds a ConsoleSink from the given options.
func NewConsoleSink(opts ...ConsoleOption) *ConsoleSink {
	cfg := consoleConfig{out: os.Stderr}
	for _, opt := range opts {
		opt(&cfg)
	}

	var out io.Writer = cfg.out
	if cfg.pretty {
		out = zerolog.ConsoleWriter{Out: cfg.out, TimeFormat: time.RFC3339, NoColor: false}
	}

	return &ConsoleSink{logger: zerolog.New(out).With().Timestamp().Logger()}
}

func (s *ConsoleSink) OrphanEvent(kind, name string) {
	s.logger.Warn().Str("kind", kind).Str("name", name).Msg("event has no parent gate")
}

func (s *ConsoleSink) UndefinedPromoted(name string) {
	s.logger.Warn().Str("name", name).Msg("gate argument never declared, treated as undefined event")
}

func (s *ConsoleSink) CCFUncovered(count int) {
	s.logger.Warn().Int("count", count).Msg("basic events left outside any CCF group")
}

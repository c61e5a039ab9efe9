package common

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
)

type Logger interface {
	Printf(format string, v ...interface{})
	Err(msg string, err error)
	Fatal(msg string, err error)
	Warn(msg string)
	Debug(msg string)
	Info(msg string)
}

type NilLogger struct {
}

func (NilLogger) Info(_ string) {
	// no op
}

func (NilLogger) Warn(_ string) {
	// no op
}

func (NilLogger) Debug(_ string) {
	// no op
}

func (NilLogger) Err(_ string, _ error) {
	// no op
}

func (NilLogger) Fatal(_ string, _ error) {
	// no op
}

func (NilLogger) Printf(_ string, _ ...interface{}) {
	//no op
}

func NewDefaultLogger() Logger {
	return &NilLogger{}
}

type ZeroLogger struct {
	log zerolog.Logger
	out io.Closer
}

func (l *ZeroLogger) Info(msg string) {
	l.log.Info().Msg(msg)
}

func (l *ZeroLogger) Warn(msg string) {
	l.log.Warn().Msg(msg)
}

func (l *ZeroLogger) Debug(msg string) {
	l.log.Debug().Msg(msg)
}

func (l *ZeroLogger) Fatal(msg string, err error) {
	l.log.Fatal().Err(err).Msg(msg)
}

func (l *ZeroLogger) Printf(format string, v ...interface{}) {
	l.log.Printf(format, v...)
}

func (l *ZeroLogger) Err(msg string, err error) {
	l.log.Err(err).Msg(msg)
}

// Close flushes buffered messages. The logger must not be used afterwards.
func (l *ZeroLogger) Close() error {
	if l.out == nil {
		return nil
	}

	return l.out.Close()
}

// unclosable keeps the diode writer from closing stderr on shutdown.
type unclosable struct {
	io.Writer
}

// NewZeroLogger returns a `Logger` implementation backed by zerolog,
// writing to stderr so stdout stays free for tool output.
func NewZeroLogger(mode string) *ZeroLogger {
	return NewZeroLoggerWithWriter(mode, os.Stderr)
}

// NewZeroLoggerWithWriter is NewZeroLogger with an explicit destination.
func NewZeroLoggerWithWriter(mode string, w io.Writer) *ZeroLogger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	dw := diode.NewWriter(unclosable{w}, 10000, 10*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "Logger Dropped %d messages\n", missed)
	})

	return &ZeroLogger{
		log: zerolog.New(dw).With().Timestamp().Logger(),
		out: dw,
	}
}

package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w
// Debug output is enabled when debug is set or the DEBUG variable exists.
func New(w io.Writer, debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return fmt.Sprintf("[%s]", i)
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}

	level := zerolog.InfoLevel
	if _, exists := os.LookupEnv("DEBUG"); exists || debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewJSON returns a structured logger, used when stdout is not a terminal
func NewJSON(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if _, exists := os.LookupEnv("DEBUG"); exists || debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

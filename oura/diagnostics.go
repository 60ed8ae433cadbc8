package oura

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DiagnosticLabelUnauthorized labels a request the API rejected with 401.
const DiagnosticLabelUnauthorized = "401"

// DiagnosticSink records error conditions that do not fail a request.
type DiagnosticSink interface {
	Record(label, message string)
}

// DiagnosticSinkFunc adapts a function to DiagnosticSink.
type DiagnosticSinkFunc func(label, message string)

func (f DiagnosticSinkFunc) Record(label, message string) {
	f(label, message)
}

// LogSink writes diagnostics as zerolog warnings.
type LogSink struct {
	Logger *zerolog.Logger
}

func (s LogSink) Record(label, message string) {
	logger := s.Logger
	if logger == nil {
		logger = &log.Logger
	}
	logger.Warn().Str("label", label).Msg(message)
}

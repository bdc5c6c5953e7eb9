// Package log provides structured logging for SciTree built on rs/zerolog.
//
// Two surfaces are exposed. The Logger interface is what estimators hold:
// leveled methods taking a message plus alternating key/value pairs, in the
// style of logr. GetLogger returns the underlying zerolog.Logger for callers
// that want the full fluent API.
//
// Example:
//
//	log.SetupLogger("info")
//	logger := log.GetLoggerWithName("tree").With(
//	    log.ModelNameKey, "DecisionTreeClassifier",
//	    log.ComponentKey, "sklearn/tree",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, n,
//	)
package log

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Standard structured-logging keys shared across the library.
const (
	ModelNameKey  = "model"
	ComponentKey  = "component"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	OutputsKey    = "outputs"
	PredsKey      = "predictions"
	DurationMsKey = "duration_ms"
)

// Standard values for OperationKey and PhaseKey.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	PhaseTraining    = "training"
	PhaseInference   = "inference"
)

// Logger is the leveled, key/value logging interface held by estimators.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})

	// With returns a Logger that includes the given key/value pairs
	// in every subsequent record.
	With(keysAndValues ...interface{}) Logger
}

// LoggerProvider creates named Loggers. Libraries hold a provider so the
// application controls the backend and level.
type LoggerProvider interface {
	GetLoggerWithName(name string) Logger
}

var (
	mu            sync.RWMutex
	globalLogger  = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	defaultSource LoggerProvider
)

// ToLogLevel converts a level name ("debug", "info", "warn", "error") to a
// zerolog level. Unknown names map to InfoLevel.
func ToLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetupLogger configures the global logger at the given level name.
func SetupLogger(level string) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = globalLogger.Level(ToLogLevel(level))
	defaultSource = nil
}

// GetLogger returns the global zerolog.Logger for fluent-style use.
func GetLogger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := globalLogger
	return &l
}

// GetLoggerWithName returns a named Logger from the default provider.
func GetLoggerWithName(name string) Logger {
	mu.Lock()
	if defaultSource == nil {
		defaultSource = &zerologProvider{base: globalLogger}
	}
	p := defaultSource
	mu.Unlock()
	return p.GetLoggerWithName(name)
}

// NewZerologProvider creates a LoggerProvider writing to stderr at the
// given level.
func NewZerologProvider(level zerolog.Level) LoggerProvider {
	return &zerologProvider{
		base: zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level),
	}
}

// LogError logs err with a message through the global logger.
func LogError(err error, msg string) {
	GetLogger().Error().Err(err).Msg(msg)
}

type zerologProvider struct {
	base zerolog.Logger
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{logger: p.base.With().Str("logger", name).Logger()}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	withFields(z.logger.Debug(), keysAndValues).Msg(msg)
}

func (z *zerologLogger) Info(msg string, keysAndValues ...interface{}) {
	withFields(z.logger.Info(), keysAndValues).Msg(msg)
}

func (z *zerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	withFields(z.logger.Warn(), keysAndValues).Msg(msg)
}

func (z *zerologLogger) Error(msg string, keysAndValues ...interface{}) {
	withFields(z.logger.Error(), keysAndValues).Msg(msg)
}

func (z *zerologLogger) With(keysAndValues ...interface{}) Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, keysAndValues[i+1])
	}
	return &zerologLogger{logger: ctx.Logger()}
}

func withFields(ev *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	return ev
}

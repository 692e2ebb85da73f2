//nolint:gochecknoglobals
package logx

import (
	"context"
	"log"
	"strings"
	"sync"
)

type ServiceContext struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

// Logger - logger interface.
type Logger interface {
	// LogInfo logs a message at Info level.
	LogInfo(ctx context.Context, msg string)
	// LogDebug logs a message at Debug level.
	LogDebug(ctx context.Context, msg string)
	// LogWarning logs a message at Warning level.
	LogWarning(ctx context.Context, msg string, errs ...error)
	// LogError logs a message at Error level.
	LogError(ctx context.Context, msg string, errs ...error)
	// LogPanic logs a message at Panic level then panics.
	LogPanic(ctx context.Context, msg string, errs ...error)
	// LogFatal logs a message at Fatal Level.
	// The logger then calls os.Exit(1), even if logging at FatalLevel is
	// disabled.
	LogFatal(ctx context.Context, msg string, errs ...error)

	GetLogger() interface{}
}

var (
	lock   sync.RWMutex
	logger Logger
)

// DefaultLogger - Logger implementation backed by the standard log package,
// used until SetupLogger or SetLogger is called.
type DefaultLogger struct{}

// GetLogger - returns an instance of the Logger.
// If called before SetupLogger a DefaultLogger will be returned.
func GetLogger() Logger {
	lock.RLock()
	defer lock.RUnlock()

	if logger == nil {
		return &DefaultLogger{}
	}

	return logger
}

// SetLogger - replace the global logger. Passing nil restores the DefaultLogger.
func SetLogger(l Logger) {
	lock.Lock()
	defer lock.Unlock()

	logger = l
}

func (nl *DefaultLogger) LogInfo(ctx context.Context, msg string) {
	log.Println("INFO " + msg)
}

func (nl *DefaultLogger) LogDebug(ctx context.Context, msg string) {
	log.Println("DEBUG " + msg)
}

func (nl *DefaultLogger) LogWarning(ctx context.Context, msg string, errs ...error) {
	log.Println("WARN " + msg + joinErrs(errs))
}

func (nl *DefaultLogger) LogError(ctx context.Context, msg string, errs ...error) {
	log.Println("ERROR " + msg + joinErrs(errs))
}

func (nl *DefaultLogger) LogPanic(ctx context.Context, msg string, errs ...error) {
	log.Panicln("PANIC " + msg + joinErrs(errs))
}

func (nl *DefaultLogger) LogFatal(ctx context.Context, msg string, errs ...error) {
	log.Fatalln("FATAL " + msg + joinErrs(errs))
}

// GetLogger noop.
func (nl *DefaultLogger) GetLogger() interface{} { return nil }

func joinErrs(errs []error) string {
	var sb strings.Builder
	for _, err := range errs {
		if err == nil {
			continue
		}
		sb.WriteString(" error=")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

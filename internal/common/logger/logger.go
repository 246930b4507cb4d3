package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/op/go-logging"
)

type ctxKey struct{}

// Init installs the leveled stdout backend. Entries are already JSON, so the
// format is the bare message.
func Init(level string) error { return InitWithWriter(os.Stdout, level) }

func InitWithWriter(w io.Writer, level string) error {
	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(`%{message}`))
	leveled := logging.AddModuleLevel(formatted)
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return nil
}

type Logger struct {
	service string
	lg      *logging.Logger
}

func New(service string) *Logger {
	return &Logger{service: service, lg: logging.MustGetLogger(service)}
}

// WithRequestID stores the request id picked up by the *Ctx methods.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func requestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (l *Logger) log(level logging.Level, reqID, action string, fields map[string]any, err error) {
	if !l.lg.IsEnabledFor(level) {
		return
	}
	entry := map[string]any{
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		"level":      level.String(),
		"service":    l.service,
		"action":     action,
		"message":    action,
		"hostname":   hostname(),
		"request_id": reqID,
	}
	for k, v := range fields {
		entry[k] = v
	}
	if err != nil {
		entry["error"] = map[string]any{"msg": err.Error(), "type": fmt.Sprintf("%T", err)}
	}
	b, mErr := json.Marshal(entry)
	if mErr != nil {
		b = []byte(fmt.Sprintf(`{"level":"ERROR","service":%q,"action":"log_marshal_failed"}`, l.service))
	}
	line := string(b)
	switch level {
	case logging.DEBUG:
		l.lg.Debug(line)
	case logging.INFO:
		l.lg.Info(line)
	case logging.WARNING:
		l.lg.Warning(line)
	default:
		l.lg.Error(line)
	}
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(logging.INFO, "", action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(logging.DEBUG, "", action, fields, nil) }
func (l *Logger) Warn(action string, err error, fields map[string]any) {
	l.log(logging.WARNING, "", action, fields, err)
}
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(logging.ERROR, "", action, fields, err)
}

func (l *Logger) InfoCtx(ctx context.Context, action string, fields map[string]any) {
	l.log(logging.INFO, requestID(ctx), action, fields, nil)
}

func (l *Logger) ErrorCtx(ctx context.Context, action string, err error, fields map[string]any) {
	l.log(logging.ERROR, requestID(ctx), action, fields, err)
}

func hostname() string { h, _ := os.Hostname(); return h }

// Package state carries per-run program state through context.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fontpack/config"
)

type envKey struct{}

// LocalEnv is created once per run and shared by every command.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// build command flags
	BaseURL   string
	Overwrite bool

	start         time.Time
	restoreStdLog func()
}

// ContextWithEnv attaches a fresh LocalEnv to ctx and starts its clock.
func ContextWithEnv(ctx context.Context) context.Context {
	env := &LocalEnv{start: time.Now()}
	return context.WithValue(ctx, envKey{}, env)
}

// EnvFromContext panics when ctx was not prepared with ContextWithEnv.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("state: no LocalEnv in context")
	}
	return env
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends standard library log output to Log at info level.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log != nil {
		e.restoreStdLog = zap.RedirectStdLog(e.Log)
	}
}

// RestoreStdLog flushes Log and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if restore := e.restoreStdLog; restore != nil {
		e.restoreStdLog = nil
		restore()
	}
}

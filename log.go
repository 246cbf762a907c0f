package docdelve

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// logc is a context-aware slog wrapper, the same shape as the teacher's
// src/log.go slogWithCtx: it lets call sites pass a context through for
// whatever handler the caller installed with slog.SetDefault, without
// this package ever constructing a logger or a handler of its own. Unlike
// the teacher, there is no Fatalf/Fatalln here: a library must never
// os.Exit on behalf of its caller.
var logc slogWithCtx

type slogWithCtx struct{}

func (l slogWithCtx) log(ctx context.Context, level slog.Level, msg string) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()
	if !logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	// skip [runtime.Callers, this method, method calling this method]
	runtime.Callers(3, pcs[:])

	record := slog.NewRecord(time.Now(), level, strings.TrimRight(msg, "\n"), pcs[0])
	_ = logger.Handler().Handle(ctx, record)
}

func (l slogWithCtx) Debugf(ctx context.Context, format string, v ...any) {
	l.log(ctx, slog.LevelDebug, fmt.Sprintf(format, v...))
}

func (l slogWithCtx) Printf(ctx context.Context, format string, v ...any) {
	l.log(ctx, slog.LevelInfo, fmt.Sprintf(format, v...))
}

func (l slogWithCtx) Warnf(ctx context.Context, format string, v ...any) {
	l.log(ctx, slog.LevelWarn, fmt.Sprintf(format, v...))
}

func (l slogWithCtx) Errorf(ctx context.Context, format string, v ...any) {
	l.log(ctx, slog.LevelError, fmt.Sprintf(format, v...))
}

package database

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/utafrali/catalog-widget/pkg/database"

var slowCommandCfg struct {
	mu        sync.RWMutex
	threshold time.Duration
	logger    *slog.Logger
}

// SetSlowCommandLogging configures slow command detection. Commands exceeding
// the threshold are logged as warnings with command name, key, and duration.
// A zero threshold disables slow command logging.
func SetSlowCommandLogging(threshold time.Duration, logger *slog.Logger) {
	slowCommandCfg.mu.Lock()
	defer slowCommandCfg.mu.Unlock()
	slowCommandCfg.threshold = threshold
	slowCommandCfg.logger = logger
}

func getSlowCommandConfig() (time.Duration, *slog.Logger) {
	slowCommandCfg.mu.RLock()
	defer slowCommandCfg.mu.RUnlock()
	return slowCommandCfg.threshold, slowCommandCfg.logger
}

// TraceCommand starts a span for a Redis command. The returned function
// must be called when the command completes:
//
//	ctx, end := database.TraceCommand(ctx, "get", "haircare_cart_items")
//	defer func() { end(err) }()
//
// redis.Nil is a cache miss, not a failure, and does not mark the span.
func TraceCommand(ctx context.Context, command, key string) (context.Context, func(error)) {
	start := time.Now()
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "redis."+command,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", command),
			attribute.String("db.redis.key", key),
		),
	)

	return ctx, func(err error) {
		if err != nil && !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if threshold, logger := getSlowCommandConfig(); threshold > 0 && logger != nil {
			if elapsed := time.Since(start); elapsed >= threshold {
				attrs := []any{
					slog.String("command", command),
					slog.String("key", key),
					slog.Duration("duration", elapsed),
				}
				if err != nil {
					attrs = append(attrs, slog.String("error", err.Error()))
				}
				logger.WarnContext(ctx, "slow redis command", attrs...)
			}
		}
	}
}

// TracingHook is a go-redis hook that wraps every command in TraceCommand.
type TracingHook struct{}

var _ redis.Hook = TracingHook{}

func (TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, end := TraceCommand(ctx, cmd.Name(), commandKey(cmd))
		err := next(ctx, cmd)
		end(err)
		return err
	}
}

func (TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, c.Name())
		}
		ctx, end := TraceCommand(ctx, "pipeline", strings.Join(names, ","))
		err := next(ctx, cmds)
		end(err)
		return err
	}
}

func commandKey(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return ""
	}
	if s, ok := args[1].(string); ok {
		return s
	}
	return ""
}

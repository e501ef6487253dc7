package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"busreserve/internal/config"
)

// NewRedisClient connects to the Redis instance backing idempotent replay.
// When nrApp is set, replay lookups show up as datastore segments on the
// booking transaction.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(replayTracer{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// replayTracer reports replay-store traffic to the New Relic transaction
// carried in the request context. Commands outside a transaction pass
// through untouched.
type replayTracer struct{}

func (replayTracer) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.Printf("redis: dial %s: %v", addr, err)
		}
		return conn, err
	}
}

func (replayTracer) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		end := startSegment(ctx, strings.ToLower(cmd.Name()), collectionFor(cmd))
		err := next(ctx, cmd)
		end(err)
		return err
	}
}

func (replayTracer) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		collection := "redis"
		if len(cmds) > 0 {
			collection = collectionFor(cmds[0])
		}
		end := startSegment(ctx, pipelineOperation(cmds), collection)
		err := next(ctx, cmds)
		end(err)
		return err
	}
}

// startSegment opens a datastore segment on the context's transaction and
// returns the func that closes it. A miss (redis.Nil) is not an error.
func startSegment(ctx context.Context, operation, collection string) func(error) {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return func(error) {}
	}

	segment := newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    newrelic.DatastoreRedis,
		Operation:  operation,
		Collection: collection,
	}
	return func(err error) {
		if err != nil && !errors.Is(err, redis.Nil) {
			txn.NoticeError(err)
		}
		segment.End()
	}
}

// pipelineOperation joins the command names, e.g. "get+set".
func pipelineOperation(cmds []redis.Cmder) string {
	if len(cmds) == 0 {
		return "pipeline"
	}
	names := make([]string, len(cmds))
	for i, cmd := range cmds {
		names[i] = strings.ToLower(cmd.Name())
	}
	return strings.Join(names, "+")
}

// collectionFor takes the key prefix before the first colon, so replay keys
// ("idempotency:...") are grouped apart from anything else in the instance.
func collectionFor(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return "redis"
	}
	key, ok := args[1].(string)
	if !ok {
		return "redis"
	}
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "redis"
}

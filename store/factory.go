package store

import (
	"context"
	"fmt"
	"time"

	"aeroparts/domain"
)

// Options selects and configures a backend.
type Options struct {
	Kind      string
	Path      string
	RedisAddr string
	RedisTTL  time.Duration
}

// NewStore constructs a domain.StateStore by kind: "memory", "file" or "redis".
// For file store, provide the file path in Path; for redis, the server address
// in RedisAddr.
func NewStore(ctx context.Context, opts Options) (domain.StateStore, error) {
	switch opts.Kind {
	case "memory", "mem":
		return NewInMemoryStore(), nil
	case "file":
		if opts.Path == "" {
			return nil, fmt.Errorf("file path required for file store")
		}
		return NewFileStore(opts.Path)
	case "redis":
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis address required for redis store")
		}
		client, err := DialRedis(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, opts.RedisTTL), nil
	default:
		return nil, fmt.Errorf("unknown store kind: %s", opts.Kind)
	}
}

package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// Drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Open returns Store for the driver.
// dsn is the SQLite file path or the Redis URL, prefix applies to Redis keys.
func Open(ctx context.Context, driver, dsn, prefix string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverSQLite:
		st, err := NewSQLiteStore(dsn)
		if err != nil {
			return nil, err
		}
		return st, nil
	case DriverRedis:
		opts, err := redis.ParseURL(dsn)
		if err != nil {
			return nil, errors.Wrap(err, "invalid redis URL")
		}
		client := redis.NewClient(opts)
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Wrap(err, "failed to connect to redis")
		}
		return NewRedisStore(client, prefix), nil
	default:
		return nil, errors.Newf("unsupported store driver: %q", driver)
	}
}

package testing

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// GetRedisClient connects to the Redis instance named by REDIS_HOST and
// GYMAI_REDIS_PASS, using the given database so tests do not share keys with
// a running service. The database is flushed before and after the test.
func GetRedisClient(t *testing.T, db int) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	t.Logf("using redis host: [%s], db: %d", redisHost, db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(redisHost, "6379"),
		Password: os.Getenv("GYMAI_REDIS_PASS"),
		DB:       db,
	})

	pingRes, err := rdb.Ping(ctx).Result()
	require.NoError(t, err)
	t.Logf("redis ping res: %s", pingRes)

	require.NoError(t, rdb.FlushDB(ctx).Err())
	t.Cleanup(func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := rdb.FlushDB(flushCtx).Err(); err != nil {
			t.Logf("flush redis db %d: %s", db, err)
		}
		_ = rdb.Close()
	})

	return rdb
}

package config

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the Redis client used for rate limiting and the
// public response cache.  Address resolution order: REDIS_HOST+REDIS_PORT,
// then REDIS_ADDR, then localhost:6379.  REDIS_PASSWORD, REDIS_DB and
// REDIS_TLS are optional.  Redis is not required for booking correctness,
// so a failed ping returns nil and callers disable both middlewares.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host := envStr("REDIS_HOST", ""); host != "" {
		addr = host + ":" + envStr("REDIS_PORT", "6379")
	}

	var tlsConf *tls.Config
	if envBool("REDIS_TLS", false) {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  envStr("REDIS_PASSWORD", ""),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

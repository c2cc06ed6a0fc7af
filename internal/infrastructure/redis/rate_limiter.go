package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimiter cuenta intentos por clave en una ventana fija (INCR + EXPIRE).
type RateLimiter struct {
	client *goredis.Client
	limit  int64
	window time.Duration
	prefix string
}

// Options conexión y parámetros del limitador.
type Options struct {
	Addr     string
	Password string
	DB       int
	Limit    int
	Window   time.Duration
}

// NewRateLimiter crea el cliente y verifica la conexión con PING.
func NewRateLimiter(ctx context.Context, opts Options) (*RateLimiter, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewRateLimiterWithClient(client, opts.Limit, opts.Window), nil
}

// NewRateLimiterWithClient usa un cliente ya construido.
func NewRateLimiterWithClient(client *goredis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: int64(limit), window: window, prefix: "rate:login:"}
}

// Allow registra un intento y dice si sigue dentro del límite.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis: incr %s: %w", k, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("redis: expire %s: %w", k, err)
		}
	}
	return count <= l.limit, nil
}

// Ping comprueba la conexión (health check).
func (l *RateLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RateLimiter) Close() error {
	return l.client.Close()
}

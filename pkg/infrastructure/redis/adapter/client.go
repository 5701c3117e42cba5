package adapter

import "github.com/redis/go-redis/v9"

// NewRedisClient connects to the local broker the redis demo wiring
// expects.
func NewRedisClient() redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "",
		DB:       0,
	})
}

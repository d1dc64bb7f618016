package main

import (
	"context"
	"log"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// initRedis connects the shared stats counters. Without REDIS_ADDR, or when the
// server does not answer, counters stay in memory only.
func initRedis(ctx context.Context, c Config) {
	if c.RedisAddr == "" {
		log.Println("⚠️  REDIS_ADDR not set, using in-memory stats")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("⚠️  Redis not available at %s, using in-memory stats: %v", c.RedisAddr, err)
		_ = client.Close()
		return
	}
	redisClient = client
	log.Printf("✅ Redis connected successfully (%s)", c.RedisAddr)
}

func closeRedis() {
	if redisClient == nil {
		return
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("[redis] close: %v", err)
	}
}

func incrStat(field string) {
	if redisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := redisClient.HIncrBy(ctx, RedisStatsKey, field, 1).Err(); err != nil {
		log.Printf("[redis] incr %s: %v", field, err)
	}
}

// redisStats returns the counters accumulated across all processes sharing the server.
func redisStats(ctx context.Context) (map[string]int64, error) {
	if redisClient == nil {
		return nil, nil
	}
	vals, err := redisClient.HGetAll(ctx, RedisStatsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(vals))
	for k, v := range vals {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}

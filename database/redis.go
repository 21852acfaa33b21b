package database

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/clementus360/chat-backend/config"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const presenceTTL = 5 * time.Minute

// InitRedis sets up the optional presence cache. When REDIS_URL is not
// configured the backend runs without it and presence writes become no-ops.
func InitRedis() {
	config.LoadEnv()

	rawURL := config.GetEnv("REDIS_URL", "")
	if rawURL == "" {
		log.Println("REDIS_URL not set, presence cache disabled")
		return
	}

	password := config.GetEnv("REDIS_PASSWORD", "")
	db := 0
	addr := rawURL

	// Check if REDIS_URL is a full URI like redis://...
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" {
		addr = u.Host

		if u.User != nil {
			pw, _ := u.User.Password()
			if pw != "" {
				password = pw
			}
		}

		if u.Path != "" && u.Path != "/" {
			if dbNum, err := strconv.Atoi(u.Path[1:]); err == nil {
				db = dbNum
			}
		}
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Unable to connect to redis: %v\n", err)
	}

	log.Println("Connected to Redis at", addr)
}

// SetPresence mirrors a user's status into Redis. Best effort: the row in
// Postgres is authoritative, so failures are logged and swallowed.
func SetPresence(ctx context.Context, userID int, status string) {
	if RedisClient == nil {
		return
	}

	key := "presence:" + strconv.Itoa(userID)
	if err := RedisClient.Set(ctx, key, status, presenceTTL).Err(); err != nil {
		log.Println("Error writing presence for user", userID, ":", err)
	}
}

// ClearPresence drops a user's presence key, used when a user goes offline.
func ClearPresence(ctx context.Context, userID int) {
	if RedisClient == nil {
		return
	}

	key := "presence:" + strconv.Itoa(userID)
	if err := RedisClient.Del(ctx, key).Err(); err != nil {
		log.Println("Error clearing presence for user", userID, ":", err)
	}
}

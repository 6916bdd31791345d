package router

import (
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/escape-room-booking/internal/middleware"
)

// Redis is the client shared by the limiter and the response cache.  It
// may be nil when Redis is not configured.
type Redis = *redis.Client

// scripter and cacheStore keep a nil *redis.Client from turning into a
// non-nil interface, which would make the middleware call into it.
func scripter(rdb Redis) redis.Scripter {
	if rdb == nil {
		return nil
	}
	return rdb
}

func cacheStore(rdb Redis) middleware.CacheStore {
	if rdb == nil {
		return nil
	}
	return rdb
}

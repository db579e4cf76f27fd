package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

var (
	// кеш для хранения количества неудачных bootstrap-попыток по IP
	FailedAttemptsCache = cache.New(3*time.Minute, 1*time.Minute)
	mu                  sync.Mutex
	maxFailedAttempts   = 5
	blockDuration       = 3 * time.Minute
)

// BootstrapAttemptLimiter блокирует IP после серии неудачных Phase-1 запросов.
// Хендлер bootstrap при протокольном отказе ставит в контекст "failed_handshake".
func BootstrapAttemptLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		// проверка на заблокирован ли IP
		if blockedUntil, found := FailedAttemptsCache.Get("block_" + ip); found {
			if t, ok := blockedUntil.(time.Time); ok && time.Now().Before(t) {
				retryAfter := int(time.Until(t).Seconds())
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":       "too many failed attempts, try again later",
					"retry_after": retryAfter,
				})
				return
			}
		}

		c.Next()

		if failed, exists := c.Get("failed_handshake"); exists && failed.(bool) {
			mu.Lock()
			defer mu.Unlock()

			key := "fail_" + ip
			countRaw, _ := FailedAttemptsCache.Get(key)
			count := 0
			if countRaw != nil {
				count = countRaw.(int)
			}
			count++
			if count >= maxFailedAttempts {
				FailedAttemptsCache.Set("block_"+ip, time.Now().Add(blockDuration), blockDuration)
				FailedAttemptsCache.Delete(key)
			} else {
				FailedAttemptsCache.Set(key, count, blockDuration)
			}
		}
	}
}

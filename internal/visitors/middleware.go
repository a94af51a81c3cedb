package visitors

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/logger"
)

// untracked paths never produce a visit row.
var untracked = []string{"/static/", "/images/", "/favicon", "/metrics", "/ws", "/healthz", "/api/"}

// Recorder is the part of Store the middleware needs.
type Recorder interface {
	Record(ctx context.Context, ip, userAgent, path string) error
}

// Middleware records page views in the background. Requests carrying
// "DNT: 1" and asset or API paths are skipped.
func Middleware(rec Recorder, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != "GET" || skip(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := rec.Record(ctx, ip, ua, path); err != nil {
				log.Warn(ctx, "record visit", logger.String("path", path), logger.Error(err))
			}
		}()
		c.Next()
	}
}

func skip(path string) bool {
	for _, prefix := range untracked {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RunCleanup deletes expired rows once immediately and then every interval
// until ctx is done.
func RunCleanup(ctx context.Context, s *Store, retention, interval time.Duration, log logger.Logger) {
	sweep := func() {
		n, err := s.Cleanup(ctx, retention)
		if err != nil {
			if ctx.Err() == nil {
				log.Error(ctx, "visitor cleanup", logger.Error(err))
			}
			return
		}
		if n > 0 {
			log.Info(ctx, "visitor cleanup", logger.Int("removed", int(n)))
		}
	}

	sweep()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sweep()
		}
	}
}

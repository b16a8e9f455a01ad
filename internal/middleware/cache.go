package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type CacheConfig struct {
	MaxAge  int
	Private bool
	Vary    []string
}

// CatalogCacheConfig suits the package catalog: public and effectively
// static between deploys.
func CatalogCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge: 300,
		Vary:   []string{"Accept"},
	}
}

// Cache sets Cache-Control on GET responses. Everything else is no-store:
// checkout and search responses must never be replayed from a cache.
func Cache(config CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}

		directives := []string{"public"}
		if config.Private {
			directives[0] = "private"
		}
		if config.MaxAge > 0 {
			directives = append(directives, "max-age="+strconv.Itoa(config.MaxAge))
		}

		c.Header("Cache-Control", strings.Join(directives, ", "))
		if len(config.Vary) > 0 {
			c.Header("Vary", strings.Join(config.Vary, ", "))
		}

		c.Next()
	}
}

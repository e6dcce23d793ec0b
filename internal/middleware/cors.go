package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware returns a CORS middleware for the dashboard origins.
// A single "*" allows any origin without credentials.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 || (len(cleaned) == 1 && cleaned[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = cleaned
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

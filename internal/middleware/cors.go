package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the comma-separated origins to call the API. "*" allows any
// origin.
func CORS(origins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Cache-Control", "X-Requested-With"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        24 * time.Hour,
	}

	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		switch {
		case o == "*":
			cfg.AllowAllOrigins = true
		case o != "":
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	if cfg.AllowAllOrigins {
		cfg.AllowOrigins = nil
	}
	if !cfg.AllowAllOrigins && len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"http://localhost:5173"}
	}

	return cors.New(cfg)
}

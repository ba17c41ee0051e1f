package app

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/billbook/billbook/internal/config"
	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wraps the router with panic recovery, CORS for the dashboard UI and request
// logging, outermost first.
func SetupMiddleware(next http.Handler, cfg config.Application) http.Handler {
	logged := handlers.CustomLoggingHandler(io.Discard, next, logRequest)

	cors := handlers.CORS(
		handlers.AllowedOriginValidator(originValidator(allowedOrigins(cfg))),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept"}),
	)

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(cors(logged))
}

// allowedOrigins returns the configured CORS origins, or the dashboard host when none are set. Each
// entry is reduced to the scheme://host[:port] form browsers send in the Origin header.
func allowedOrigins(cfg config.Application) []string {
	configured := cfg.Cors.Origins
	if len(configured) == 0 && strings.TrimSpace(cfg.Host) != "" {
		configured = []string{cfg.Host}
	}
	origins := make([]string, 0, len(configured))
	for _, candidate := range configured {
		origin, ok := toOrigin(candidate)
		if !ok {
			log.Warnf("Ignoring CORS origin %q: not a host or URL", candidate)
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

// originValidator matches the Origin header exactly against origins. An empty list allows no
// cross-origin requests.
func originValidator(origins []string) handlers.OriginValidator {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			return func(string) bool { return true }
		}
		allowed[origin] = struct{}{}
	}
	return func(origin string) bool {
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}
}

func toOrigin(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if value == "*" {
		return value, true
	}
	if !strings.Contains(value, "://") {
		value = "http://" + value
	}
	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return "", false
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), true
}

func logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	entry := log.WithFields(log.Fields{
		"method":   params.Request.Method,
		"path":     params.URL.Path,
		"status":   params.StatusCode,
		"size":     params.Size,
		"duration": time.Since(params.TimeStamp),
	})
	if params.StatusCode >= http.StatusInternalServerError {
		entry.Warn("request failed")
		return
	}
	entry.Debug("request handled")
}

package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/libgate/internal/logger"
	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/utils"
)

// AllowOnlyCIDRS guards the operational endpoints. Callers outside the listed
// IPs and CIDRs get the 403 JSON envelope. An empty list does not filter.
// trustProxy should be true behind a trusted reverse proxy (e.g., cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m, rejected := utils.NewIPMatcher(allowed)
	if len(rejected) > 0 {
		log.Warn("AllowOnlyCIDRS: ignoring unparsable entries", logger.Strings("entries", rejected))
	}
	if m.IsEmpty() {
		log.Debug("AllowOnlyCIDRS: empty matcher, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debug("AllowOnlyCIDRS: initialized",
		logger.Int("rules", m.Len()), logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("AllowOnlyCIDRS: rejected",
					logger.String("ip", ip), logger.String("path", r.URL.Path))
				search.ErrForbidden.Write(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

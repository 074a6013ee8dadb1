package deps

import (
	"time"

	"github.com/MrSnakeDoc/libgate/internal/logger"
	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/version"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Build        version.Info     // build stamp reported by /healthz
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to reach /api
	AllowedCIDRS []string         // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Service      *search.Service  // Engine-agnostic search pipeline, carries the portal settings
}

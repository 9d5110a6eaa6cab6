package cache

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Balogunolalere/myoozik/internal/infra/config"
)

// NewFromConfig creates a cache from configuration.
func NewFromConfig(cfg config.CacheConfig) (Cache, error) {
	zlog.Debug().Msgf("creating cache provider: type=%s settings=%+v", cfg.Provider, cfg.Settings)

	switch cfg.Provider {
	case "memory", "":
		return NewMemory(cfg.Settings)
	case "redis":
		return NewRedis(cfg.Settings)
	default:
		return nil, errors.Newf("unsupported cache provider: %s", cfg.Provider)
	}
}

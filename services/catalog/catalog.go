package catalog

import (
	"context"
	"fmt"
	"math"

	"bookpilot/models"

	"go.uber.org/zap"
)

// ProviderCatalog supplies candidate providers for a request. The
// returned Source reports which path produced the result.
type ProviderCatalog interface {
	Search(ctx context.Context, prefs models.Preferences) ([]models.Provider, models.Source, error)
}

// CompositeCatalog prefers the live capability and silently downgrades
// to the static fallback when the live path is absent, fails, or comes
// back empty. The downgrade itself is never an error; the orchestrator
// records it in the transcript via the returned Source.
type CompositeCatalog struct {
	Live     ProviderCatalog // nil when no live search capability is configured
	Fallback ProviderCatalog
	Logger   *zap.Logger
}

// Search implements ProviderCatalog.
func (c *CompositeCatalog) Search(ctx context.Context, prefs models.Preferences) ([]models.Provider, models.Source, error) {
	if c.Live != nil {
		providers, source, err := c.Live.Search(ctx, prefs)
		if err == nil && len(providers) > 0 {
			return providers, source, nil
		}
		if err != nil && c.Logger != nil {
			c.Logger.Warn("live provider search failed, downgrading to fallback catalog",
				zap.String("specialty", prefs.Specialty), zap.Error(err))
		}
	}
	if c.Fallback == nil {
		return nil, models.SourceFallback, fmt.Errorf("no fallback catalog configured")
	}
	return c.Fallback.Search(ctx, prefs)
}

// haversineKm returns the great-circle distance in kilometres.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

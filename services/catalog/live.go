package catalog

import (
	"context"
	"fmt"
	"strings"

	"bookpilot/models"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

const maxLiveResults = 10

// PlacesCatalog is the live provider search capability, backed by the
// Google Places text search. Travel distance comes from the Distance
// Matrix API when reachable, falling back to great-circle distance.
type PlacesCatalog struct {
	Client *maps.Client
	Logger *zap.Logger
}

// NewPlacesCatalog builds the live catalog from an API key.
func NewPlacesCatalog(apiKey string, logger *zap.Logger) (*PlacesCatalog, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesCatalog{Client: client, Logger: logger}, nil
}

// Search implements ProviderCatalog over the Places API.
func (c *PlacesCatalog) Search(ctx context.Context, prefs models.Preferences) ([]models.Provider, models.Source, error) {
	radius := prefs.MaxDistanceKm
	if radius <= 0 {
		radius = 10
	}

	req := &maps.TextSearchRequest{
		Query:  fmt.Sprintf("%s near %s", prefs.Specialty, prefs.Address),
		Radius: uint(radius * 1000),
	}
	if prefs.Location.HasCoordinates() {
		req.Location = &maps.LatLng{Lat: prefs.Location.Lat(), Lng: prefs.Location.Lng()}
	}

	resp, err := c.Client.TextSearch(ctx, req)
	if err != nil {
		return nil, models.SourceLive, fmt.Errorf("places text search failed: %w", err)
	}

	results := resp.Results
	if len(results) > maxLiveResults {
		results = results[:maxLiveResults]
	}

	providers := make([]models.Provider, 0, len(results))
	for _, r := range results {
		p := models.Provider{
			ID:          r.PlaceID,
			Name:        r.Name,
			Specialty:   strings.ToLower(prefs.Specialty),
			Rating:      float64(r.Rating),
			Address:     r.FormattedAddress,
			LocationGeo: models.NewGeoPoint(r.Geometry.Location.Lat, r.Geometry.Location.Lng),
			Source:      models.SourceLive,
		}
		if r.OpeningHours != nil {
			p.OpeningHours = models.OpeningHours{WeekdayText: r.OpeningHours.WeekdayText}
		}
		if prefs.Location.HasCoordinates() {
			p.DistanceKm = haversineKm(
				prefs.Location.Lat(), prefs.Location.Lng(),
				p.LocationGeo.Lat(), p.LocationGeo.Lng(),
			)
		}
		providers = append(providers, p)
	}

	c.annotateTravelDistance(ctx, prefs, providers)
	return providers, models.SourceLive, nil
}

// annotateTravelDistance replaces straight-line distances with reported
// travel distances where the Distance Matrix call succeeds. A failed
// call leaves the great-circle values in place.
func (c *PlacesCatalog) annotateTravelDistance(ctx context.Context, prefs models.Preferences, providers []models.Provider) {
	if len(providers) == 0 || !prefs.Location.HasCoordinates() {
		return
	}

	origin := fmt.Sprintf("%f,%f", prefs.Location.Lat(), prefs.Location.Lng())
	destinations := make([]string, len(providers))
	for i, p := range providers {
		destinations[i] = fmt.Sprintf("%f,%f", p.LocationGeo.Lat(), p.LocationGeo.Lng())
	}

	resp, err := c.Client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: destinations,
		Mode:         maps.TravelModeDriving,
	})
	if err != nil || len(resp.Rows) == 0 {
		if err != nil && c.Logger != nil {
			c.Logger.Warn("distance matrix lookup failed, keeping great-circle distances", zap.Error(err))
		}
		return
	}

	for i, el := range resp.Rows[0].Elements {
		if i >= len(providers) || el.Status != "OK" {
			continue
		}
		providers[i].DistanceKm = float64(el.Distance.Meters) / 1000
	}
}

package catalog

import (
	"context"
	"sort"
	"strings"

	"bookpilot/models"
)

// FallbackCatalog serves providers from a static in-memory dataset. It
// is always available, so the pipeline can complete end-to-end with no
// external integration configured.
type FallbackCatalog struct {
	Providers       []models.Provider
	DefaultRadiusKm float64
}

// NewFallbackCatalog builds a fallback catalog over the given dataset.
// With no providers given it uses the built-in demo dataset.
func NewFallbackCatalog(providers ...models.Provider) *FallbackCatalog {
	if len(providers) == 0 {
		providers = DefaultProviders()
	}
	return &FallbackCatalog{Providers: providers, DefaultRadiusKm: 10}
}

// Search filters the dataset by specialty, computes great-circle
// distance when user coordinates are known, applies the distance cap,
// and returns the matches closest-first, tagged as fallback data.
func (c *FallbackCatalog) Search(_ context.Context, prefs models.Preferences) ([]models.Provider, models.Source, error) {
	radius := prefs.MaxDistanceKm
	if radius <= 0 {
		radius = c.DefaultRadiusKm
	}

	var matches []models.Provider
	for _, p := range c.Providers {
		if !strings.EqualFold(p.Specialty, prefs.Specialty) {
			continue
		}
		p.Source = models.SourceFallback
		if prefs.Location.HasCoordinates() && p.LocationGeo.HasCoordinates() {
			p.DistanceKm = haversineKm(
				prefs.Location.Lat(), prefs.Location.Lng(),
				p.LocationGeo.Lat(), p.LocationGeo.Lng(),
			)
			if p.DistanceKm > radius {
				continue
			}
		}
		matches = append(matches, p)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, models.SourceFallback, nil
}

// DefaultProviders is the built-in demo dataset used when no dataset is
// supplied. Coordinates are around central Berlin.
func DefaultProviders() []models.Provider {
	return []models.Provider{
		{
			ID: "prov-001", Name: "Mitte Dental", Specialty: "dentist",
			Rating: 4.6, Address: "Torstr. 21, 10119 Berlin",
			LocationGeo: models.NewGeoPoint(52.5296, 13.4012),
			Phone:       "+49 30 1111111",
			InsuranceAccepted: []string{"AOK", "TK", "Blue Cross"},
			Languages:         []string{"de", "en"},
			OpeningHours: models.OpeningHours{WeekdayText: []string{
				"Monday: 8:00 - 18:00", "Tuesday: 8:00 - 18:00", "Wednesday: 8:00 - 18:00",
				"Thursday: 8:00 - 18:00", "Friday: 8:00 - 16:00",
			}},
		},
		{
			ID: "prov-002", Name: "Kreuzberg Smile Clinic", Specialty: "dentist",
			Rating: 4.2, Address: "Oranienstr. 64, 10969 Berlin",
			LocationGeo: models.NewGeoPoint(52.5012, 13.4182),
			Phone:       "+49 30 2222222",
			InsuranceAccepted: []string{"AOK", "Barmer"},
			Languages:         []string{"de", "en", "tr"},
		},
		{
			ID: "prov-010", Name: "Herzzentrum Mitte", Specialty: "cardiology",
			Rating: 4.8, Address: "Luisenstr. 13, 10117 Berlin",
			LocationGeo: models.NewGeoPoint(52.5244, 13.3778),
			Phone:       "+49 30 3333333",
			InsuranceAccepted: []string{"TK", "Blue Cross"},
			Languages:         []string{"de", "en"},
			OpeningHours: models.OpeningHours{WeekdayText: []string{
				"Monday: 9:00 - 17:00", "Tuesday: 9:00 - 17:00", "Wednesday: 9:00 - 17:00",
				"Thursday: 9:00 - 17:00", "Friday: 9:00 - 14:00",
			}},
		},
		{
			ID: "prov-011", Name: "Kardiologie am Park", Specialty: "cardiology",
			Rating: 4.4, Address: "Schönhauser Allee 55, 10437 Berlin",
			LocationGeo: models.NewGeoPoint(52.5451, 13.4131),
			Phone:       "+49 30 4444444",
			InsuranceAccepted: []string{"AOK", "Blue Cross"},
			Languages:         []string{"de"},
		},
		{
			ID: "prov-012", Name: "Dr. Weber Cardiology", Specialty: "cardiology",
			Rating: 4.1, Address: "Kantstr. 102, 10627 Berlin",
			LocationGeo: models.NewGeoPoint(52.5064, 13.3021),
			Phone:       "+49 30 5555555",
			InsuranceAccepted: []string{"Barmer", "Blue Cross"},
			Languages:         []string{"de", "en"},
		},
		{
			ID: "prov-013", Name: "Herzpraxis Neukölln", Specialty: "cardiology",
			Rating: 3.9, Address: "Karl-Marx-Str. 80, 12043 Berlin",
			LocationGeo: models.NewGeoPoint(52.4789, 13.4401),
			Phone:       "+49 30 6666666",
			InsuranceAccepted: []string{"AOK"},
			Languages:         []string{"de", "ar"},
		},
		{
			ID: "prov-020", Name: "Hautzentrum Prenzlauer Berg", Specialty: "dermatology",
			Rating: 4.5, Address: "Danziger Str. 12, 10435 Berlin",
			LocationGeo: models.NewGeoPoint(52.5402, 13.4201),
			Phone:       "+49 30 7777777",
			InsuranceAccepted: []string{"TK", "Barmer"},
			Languages:         []string{"de", "en"},
		},
	}
}

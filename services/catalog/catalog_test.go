package catalog

import (
	"context"
	"errors"
	"testing"

	"bookpilot/models"

	"go.uber.org/zap"
)

type fakeCatalog struct {
	providers []models.Provider
	source    models.Source
	err       error
}

func (f fakeCatalog) Search(context.Context, models.Preferences) ([]models.Provider, models.Source, error) {
	return f.providers, f.source, f.err
}

func TestCompositePrefersLive(t *testing.T) {
	live := fakeCatalog{
		providers: []models.Provider{{ID: "live-1", Specialty: "cardiology"}},
		source:    models.SourceLive,
	}
	composite := &CompositeCatalog{Live: live, Fallback: NewFallbackCatalog(), Logger: zap.NewNop()}

	providers, source, err := composite.Search(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if source != models.SourceLive {
		t.Fatalf("source = %q, want live", source)
	}
	if len(providers) != 1 || providers[0].ID != "live-1" {
		t.Fatalf("expected the live result, got %+v", providers)
	}
}

func TestCompositeDowngradesOnLiveError(t *testing.T) {
	live := fakeCatalog{source: models.SourceLive, err: errors.New("quota exceeded")}
	composite := &CompositeCatalog{Live: live, Fallback: NewFallbackCatalog(), Logger: zap.NewNop()}

	providers, source, err := composite.Search(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("a live failure must downgrade, not surface: %v", err)
	}
	if source != models.SourceFallback {
		t.Fatalf("source = %q, want fallback after live failure", source)
	}
	if len(providers) == 0 {
		t.Fatal("fallback produced no providers")
	}
}

func TestCompositeDowngradesOnEmptyLiveResult(t *testing.T) {
	live := fakeCatalog{source: models.SourceLive}
	composite := &CompositeCatalog{Live: live, Fallback: NewFallbackCatalog(), Logger: zap.NewNop()}

	providers, source, err := composite.Search(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if source != models.SourceFallback || len(providers) == 0 {
		t.Fatalf("empty live result must fall through to fallback, got source %q with %d providers", source, len(providers))
	}
}

func TestCompositeWithoutLiveCapability(t *testing.T) {
	composite := &CompositeCatalog{Fallback: NewFallbackCatalog(), Logger: zap.NewNop()}

	providers, source, err := composite.Search(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if source != models.SourceFallback || len(providers) == 0 {
		t.Fatalf("unconfigured live capability must be fallback mode, got source %q with %d providers", source, len(providers))
	}
}

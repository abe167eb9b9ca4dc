package models

// Source tags where a piece of data came from, so downstream steps know
// whether a real backend can be booked against.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
	SourceStub     Source = "stub"
)

// OpeningHours carries the provider's published operating hours. The
// weekday text is descriptive; Periods are only populated on the live
// path where the data is structured enough to trust.
type OpeningHours struct {
	WeekdayText []string        `bson:"weekdayText,omitempty" json:"weekdayText,omitempty"`
	Periods     []OpeningPeriod `bson:"periods,omitempty" json:"periods,omitempty"`
}

// OpeningPeriod is a single open interval on a weekday, minutes from
// midnight local time. Weekday follows time.Weekday (Sunday = 0).
type OpeningPeriod struct {
	Weekday     int `bson:"weekday" json:"weekday"`
	OpenMinute  int `bson:"openMinute" json:"openMinute"`
	CloseMinute int `bson:"closeMinute" json:"closeMinute"`
}

// Provider is a candidate service provider. Sourced fresh per request;
// never persisted by the core.
type Provider struct {
	ID                string       `bson:"id" json:"id"`
	Name              string       `bson:"name" json:"name"`
	Specialty         string       `bson:"specialty" json:"specialty"`
	Rating            float64      `bson:"rating" json:"rating"` // 0-5
	Address           string       `bson:"address" json:"address,omitempty"`
	LocationGeo       GeoPoint     `bson:"locationGeo" json:"locationGeo,omitzero"`
	Phone             string       `bson:"phone" json:"phone,omitempty"`
	InsuranceAccepted []string     `bson:"insuranceAccepted,omitempty" json:"insuranceAccepted,omitempty"`
	Languages         []string     `bson:"languages,omitempty" json:"languages,omitempty"`
	OpeningHours      OpeningHours `bson:"openingHours,omitzero" json:"openingHours,omitzero"`
	DistanceKm        float64      `bson:"distanceKm" json:"distanceKm"` // from the user's location
	Source            Source       `bson:"source" json:"source"`
}

// AcceptsInsurance reports whether the provider lists the given plan.
// An empty plan always matches.
func (p Provider) AcceptsInsurance(plan string) bool {
	if plan == "" {
		return true
	}
	for _, ins := range p.InsuranceAccepted {
		if ins == plan {
			return true
		}
	}
	return false
}

// SpeaksLanguage reports whether the provider lists the given language.
// An empty language always matches.
func (p Provider) SpeaksLanguage(lang string) bool {
	if lang == "" {
		return true
	}
	for _, l := range p.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

package domain

// Status is the lifecycle state of a departing service.
type Status string

const (
	StatusOnTime    Status = "OnTime"
	StatusNewTime   Status = "NewTime"
	StatusDelayed   Status = "Delayed"
	StatusCancelled Status = "Cancelled"
)

// Station is the origin station a departure board was fetched for.
type Station struct {
	Name                 string `json:"name"`
	AreServicesAvailable bool   `json:"are_services_available"`
	Message              string `json:"message"`
}

// ServiceStatus pairs a status with the reasons and alerts behind it.
type ServiceStatus struct {
	Status             Status `json:"status"`
	AbnormalityMessage string `json:"abnormality_message"`
}

// CallingPoint is a stop of interest after the origin.
// Time is a display string and may be actual, scheduled or estimated.
type CallingPoint struct {
	Name        string `json:"name"`
	Time        string `json:"time"`
	IsCancelled bool   `json:"is_cancelled"`
	Alert       string `json:"alert"`
}

// Service is a single train departing the origin station.
type Service struct {
	ID            string         `json:"id"`
	Status        ServiceStatus  `json:"status"`
	Time          TimeOfDay      `json:"time"`
	CallingPoints []CallingPoint `json:"calling_points"`
	Length        *int           `json:"length"`
	Platform      *string        `json:"platform"`
}

// NewService builds a service with length and platform absent.
func NewService(id string, status ServiceStatus, t TimeOfDay, callingPoints []CallingPoint) Service {
	if callingPoints == nil {
		callingPoints = []CallingPoint{}
	}
	return Service{ID: id, Status: status, Time: t, CallingPoints: callingPoints}
}

// WithLength returns a copy of s with the train length set.
func (s Service) WithLength(length int) Service {
	s.Length = &length
	return s
}

// WithPlatform returns a copy of s with the platform set.
func (s Service) WithPlatform(platform string) Service {
	s.Platform = &platform
	return s
}

// StationAndServices is one scrape result for one origin.
type StationAndServices struct {
	Station  Station   `json:"station"`
	Services []Service `json:"services"`
}

// OriginAndCallingPoints names an origin station and the calling points a
// caller cares about for services leaving it.
type OriginAndCallingPoints struct {
	OriginName        string   `json:"origin_name" mapstructure:"origin_name"`
	CallingPointNames []string `json:"calling_point_names" mapstructure:"calling_point_names"`
}

// Names returns the calling point names as a lookup set.
func (o OriginAndCallingPoints) Names() NameSet {
	return NewNameSet(o.CallingPointNames...)
}

// NameSet is a set of calling point names.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ScrapeResult is the outcome of scraping one origin in best-effort mode.
// Exactly one of Board and Err is set.
type ScrapeResult struct {
	Origin string
	Board  *StationAndServices
	Err    error
}

// OK reports whether the origin was scraped successfully.
func (r ScrapeResult) OK() bool {
	return r.Err == nil && r.Board != nil
}

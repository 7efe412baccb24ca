// Package matching scores and ranks labor candidates against a request.
//
// Every stage is a pure function of its inputs. Candidates are supplied by
// the caller; the package performs no I/O and keeps no state across calls.
package matching

const (
	DateLayout = "2006-01-02"

	// NeutralScore is used where a factor cannot be judged, so it does not
	// push a candidate up or down.
	NeutralScore = 50
)

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotUnavailable SlotStatus = "unavailable"
	SlotBooked      SlotStatus = "booked"
)

type RateUnit string

const (
	RateHourly RateUnit = "hourly"
	RateDaily  RateUnit = "daily"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is either a symbolic region, a coordinate, or both.
type Location struct {
	Region      string       `json:"region,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (l Location) IsZero() bool {
	return l.Region == "" && l.Coordinates == nil
}

// AvailabilitySlot is one schedule entry. Empty Start and End cover the
// whole day.
type AvailabilitySlot struct {
	Date   string     `json:"date"`
	Start  string     `json:"start,omitempty"`
	End    string     `json:"end,omitempty"`
	Status SlotStatus `json:"status"`
}

type CandidateProfile struct {
	ID             string             `json:"id"`
	DisplayName    string             `json:"displayName,omitempty"`
	Skills         []string           `json:"skills,omitempty"`
	Certifications []string           `json:"certifications,omitempty"`
	CrewSize       int                `json:"crewSize,omitempty"`
	Rate           float64            `json:"rate,omitempty"`
	RateUnit       RateUnit           `json:"rateUnit,omitempty"`
	Location       Location           `json:"location"`
	Rating         float64            `json:"rating"`
	CompletedJobs  int                `json:"completedJobs"`
	Availability   []AvailabilitySlot `json:"availability,omitempty"`

	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

func (c CandidateProfile) effectiveCrewSize() int {
	if c.CrewSize <= 0 {
		return 1
	}
	return c.CrewSize
}

type DateWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type MatchRequest struct {
	RequestID  string      `json:"requestId,omitempty"`
	Trade      string      `json:"trade"`
	Skills     []string    `json:"skills"`
	DateWindow DateWindow  `json:"dateWindow"`
	TimeWindow *TimeWindow `json:"timeWindow,omitempty"`
	CrewSize   int         `json:"crewSize,omitempty"`
	Location   Location    `json:"location"`
	Limit      int         `json:"limit,omitempty"`
}

// CandidateScore is the per-candidate result of a match. It is a value and
// is never modified after Match returns it.
type CandidateScore struct {
	CandidateID       string   `json:"candidateId"`
	DisplayName       string   `json:"displayName,omitempty"`
	SkillScore        int      `json:"skillScore"`
	RatingScore       int      `json:"ratingScore"`
	AvailabilityScore int      `json:"availabilityScore"`
	LocationScore     int      `json:"locationScore"`
	TotalScore        int      `json:"totalScore"`
	ExperienceScore   int      `json:"experienceScore"`
	MatchingSkills    []string `json:"matchingSkills"`
	MissingSkills     []string `json:"missingSkills"`
	DistanceKm        *float64 `json:"distanceKm,omitempty"`
	Rank              int      `json:"rank"`
	Rationale         string   `json:"rationale"`
}

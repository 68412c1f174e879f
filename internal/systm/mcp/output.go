package mcp

import (
	"encoding/json"

	"github.com/sufferlandria/systm-mcp/internal/systm"
)

// Tool output shapes. These are the caller-facing structures: snake_case
// keys and human-friendly derived fields (formatted durations, dates,
// distances) instead of the raw upstream encodings.

type workoutsResultOut struct {
	Total    int                    `json:"total"`
	Workouts []systm.LibraryContent `json:"workouts"`
}

type scheduleWorkoutResultOut struct {
	Success  bool   `json:"success"`
	AgendaID string `json:"agenda_id"`
	Date     string `json:"date"`
	TimeZone string `json:"time_zone"`
}

type rescheduleWorkoutResultOut struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	AgendaID string `json:"agenda_id"`
	NewDate  string `json:"new_date"`
	TimeZone string `json:"time_zone"`
}

type removeWorkoutResultOut struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	AgendaID string `json:"agenda_id"`
}

type fourDPValueOut struct {
	Watts int     `json:"watts"`
	Score float64 `json:"score"`
}

type fourDPProfileOut struct {
	NM  fourDPValueOut `json:"nm"`
	AC  fourDPValueOut `json:"ac"`
	MAP fourDPValueOut `json:"map"`
	FTP fourDPValueOut `json:"ftp"`
}

type riderTypeOut struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type strengthWeaknessOut struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

type riderProfileOut struct {
	FourDP         fourDPProfileOut      `json:"four_dp"`
	RiderType      riderTypeOut          `json:"rider_type"`
	Strengths      strengthWeaknessOut   `json:"strengths"`
	Weaknesses     strengthWeaknessOut   `json:"weaknesses"`
	LTHR           *float64              `json:"lthr,omitempty"`
	HeartRateZones []systm.HeartRateZone `json:"heart_rate_zones"`
	LastTestDate   *string               `json:"last_test_date,omitempty"`
}

type fitnessTestSummaryOut struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Date            *string           `json:"date,omitempty"`
	Duration        *string           `json:"duration,omitempty"`
	Distance        *string           `json:"distance,omitempty"`
	TSS             *int              `json:"tss,omitempty"`
	IntensityFactor *float64          `json:"intensity_factor,omitempty"`
	FourDP          *fourDPProfileOut `json:"four_dp,omitempty"`
	LTHR            *float64          `json:"lthr,omitempty"`
	RiderType       *string           `json:"rider_type,omitempty"`
}

type fitnessTestHistoryOut struct {
	Tests []fitnessTestSummaryOut `json:"tests"`
	Total int                     `json:"total"`
}

type powerCurvePointOut struct {
	Duration int `json:"duration"`
	Value    int `json:"value"`
}

type activityDataOut struct {
	Power     []int `json:"power,omitempty"`
	Cadence   []int `json:"cadence,omitempty"`
	HeartRate []int `json:"heart_rate,omitempty"`
}

type fitnessTestDetailsOut struct {
	Name            string               `json:"name"`
	Date            *string              `json:"date,omitempty"`
	Duration        *string              `json:"duration,omitempty"`
	Distance        *string              `json:"distance,omitempty"`
	TSS             *int                 `json:"tss,omitempty"`
	IntensityFactor *float64             `json:"intensity_factor,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	FourDP          *fourDPProfileOut    `json:"four_dp,omitempty"`
	LTHR            *float64             `json:"lthr,omitempty"`
	RiderType       *string              `json:"rider_type,omitempty"`
	PowerCurve      []powerCurvePointOut `json:"power_curve"`
	ActivityData    activityDataOut      `json:"activity_data"`
	// Analysis is the upstream analysis payload parsed as JSON; absent when
	// the payload is missing or not valid JSON (non-fatal).
	Analysis json.RawMessage `json:"analysis,omitempty"`
}

func fourDPFromTestResults(results *systm.FitnessTestResults) *fourDPProfileOut {
	if results == nil {
		return nil
	}
	return &fourDPProfileOut{
		NM:  fourDPValueOut{Watts: results.Power5s.Value, Score: results.Power5s.GraphValue},
		AC:  fourDPValueOut{Watts: results.Power1m.Value, Score: results.Power1m.GraphValue},
		MAP: fourDPValueOut{Watts: results.Power5m.Value, Score: results.Power5m.GraphValue},
		FTP: fourDPValueOut{Watts: results.Power20m.Value, Score: results.Power20m.GraphValue},
	}
}

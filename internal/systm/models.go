package systm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Upstream responses are inconsistent about which fields are present, and the
// "same" entity can arrive with different shapes on different paths. Every
// field that has ever been observed absent is a pointer here, so absence
// stays distinguishable from a zero value.

// RiderProfile is the 4DP power profile used for workout targets.
type RiderProfile struct {
	NM               int      `json:"nm"`
	AC               int      `json:"ac"`
	MAP              int      `json:"map"`
	FTP              int      `json:"ftp"`
	LTHR             *float64 `json:"lthr,omitempty"`
	CadenceThreshold *int     `json:"cadenceThreshold,omitempty"`
}

// PowerTestValue is one per-duration test result: raw watts plus the
// normalized 0-100ish score the app graphs.
type PowerTestValue struct {
	Status     string  `json:"status"`
	GraphValue float64 `json:"graphValue"`
	Value      int     `json:"value"`
}

// RiderTypeInfo classifies the rider (Sprinter, Time Trialist, ...).
type RiderTypeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// RiderWeaknessInfo carries the strength/weakness narrative pair from the
// most recent fitness test.
type RiderWeaknessInfo struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	WeaknessSummary     string `json:"weaknessSummary"`
	WeaknessDescription string `json:"weaknessDescription"`
	StrengthName        string `json:"strengthName"`
	StrengthDescription string `json:"strengthDescription"`
	StrengthSummary     string `json:"strengthSummary"`
}

// EnhancedRiderProfile extends the 4DP profile with test values, derived
// heart rate zones and rider classification. Only ever constructed from a
// completed fitness test.
type EnhancedRiderProfile struct {
	RiderProfile

	Power5s  PowerTestValue `json:"power5s"`
	Power1m  PowerTestValue `json:"power1m"`
	Power5m  PowerTestValue `json:"power5m"`
	Power20m PowerTestValue `json:"power20m"`

	LactateThresholdHeartRate float64         `json:"lactateThresholdHeartRate"`
	HeartRateZones            []HeartRateZone `json:"heartRateZones"`

	RiderType     RiderTypeInfo     `json:"riderType"`
	RiderWeakness RiderWeaknessInfo `json:"riderWeakness"`

	FitnessTestRidden bool   `json:"fitnessTestRidden"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
}

// WorkoutGraphTrigger is one point of a workout intensity graph.
type WorkoutGraphTrigger struct {
	Time  int     `json:"time"`
	Value float64 `json:"value"`
	Type  string  `json:"type"`
}

// GraphTriggers is an ordered workout intensity profile. The upstream encodes
// it either as a list of {time, value, type} records or, on older paths, as
// three parallel arrays {"time": [...], "value": [...], "type": [...]};
// unmarshalling normalizes both to records, truncating ragged parallel
// arrays to the shortest one.
type GraphTriggers []WorkoutGraphTrigger

func (g *GraphTriggers) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = nil
		return nil
	}

	var list []WorkoutGraphTrigger
	if err := json.Unmarshal(data, &list); err == nil {
		*g = list
		return nil
	}

	var cols struct {
		Time  []int     `json:"time"`
		Value []float64 `json:"value"`
		Type  []string  `json:"type"`
	}
	if err := json.Unmarshal(data, &cols); err != nil {
		return fmt.Errorf("graph triggers: %w", err)
	}
	if cols.Time == nil || cols.Value == nil || cols.Type == nil {
		return fmt.Errorf("graph triggers: unsupported encoding")
	}

	n := len(cols.Time)
	if len(cols.Value) < n {
		n = len(cols.Value)
	}
	if len(cols.Type) < n {
		n = len(cols.Type)
	}

	triggers := make([]WorkoutGraphTrigger, 0, n)
	for i := 0; i < n; i++ {
		triggers = append(triggers, WorkoutGraphTrigger{
			Time:  cols.Time[i],
			Value: cols.Value[i],
			Type:  cols.Type[i],
		})
	}
	*g = triggers
	return nil
}

// WorkoutIntensity holds per-energy-system intensity values of a prospect.
type WorkoutIntensity struct {
	Master *int `json:"master,omitempty"`
	NM     *int `json:"nm,omitempty"`
	AC     *int `json:"ac,omitempty"`
	MAP    *int `json:"map,omitempty"`
	FTP    *int `json:"ftp,omitempty"`
}

// TrainerSetting is the smart trainer mode for a workout prospect.
type TrainerSetting struct {
	Mode  *string `json:"mode,omitempty"`
	Level *int    `json:"level,omitempty"`
}

// WorkoutRatings are the 4DP intensity ratings (1-5) of a workout.
type WorkoutRatings struct {
	NM  *int `json:"nm,omitempty"`
	AC  *int `json:"ac,omitempty"`
	MAP *int `json:"map,omitempty"`
	FTP *int `json:"ftp,omitempty"`
}

// WorkoutProspectMetrics wraps the ratings attached to a prospect.
type WorkoutProspectMetrics struct {
	Ratings *WorkoutRatings `json:"ratings,omitempty"`
}

// WorkoutProspect is a candidate workout definition for a calendar item.
type WorkoutProspect struct {
	Type               string                  `json:"type"`
	Name               string                  `json:"name"`
	Compatibility      *string                 `json:"compatibility,omitempty"`
	Description        *string                 `json:"description,omitempty"`
	Style              *string                 `json:"style,omitempty"`
	Intensity          *WorkoutIntensity       `json:"intensity,omitempty"`
	TrainerSetting     *TrainerSetting         `json:"trainerSetting,omitempty"`
	PlannedDuration    *float64                `json:"plannedDuration,omitempty"`
	DurationType       *string                 `json:"durationType,omitempty"`
	Metrics            *WorkoutProspectMetrics `json:"metrics,omitempty"`
	ContentID          *string                 `json:"contentId,omitempty"`
	WorkoutID          *string                 `json:"workoutId,omitempty"`
	Notes              *string                 `json:"notes,omitempty"`
	FourDPWorkoutGraph GraphTriggers           `json:"fourDPWorkoutGraph,omitempty"`
}

// PlanInfo is training plan metadata attached to a calendar item.
type PlanInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Grouping    *string `json:"grouping,omitempty"`
	Level       *string `json:"level,omitempty"`
	Type        *string `json:"type,omitempty"`
}

// PlanLinkData links a calendar item to a completed or associated activity.
type PlanLinkData struct {
	Name            *string `json:"name,omitempty"`
	Date            *string `json:"date,omitempty"`
	ActivityID      *string `json:"activityId,omitempty"`
	DurationSeconds *int    `json:"durationSeconds,omitempty"`
	Style           *string `json:"style,omitempty"`
	Deleted         *bool   `json:"deleted,omitempty"`
}

// UserPlanItem is one scheduled or planned entry in the training calendar,
// keyed by its opaque agenda id.
type UserPlanItem struct {
	Day             *int              `json:"day,omitempty"`
	PlannedDate     *string           `json:"plannedDate,omitempty"`
	Rank            *int              `json:"rank,omitempty"`
	AgendaID        *string           `json:"agendaId,omitempty"`
	Status          *string           `json:"status,omitempty"`
	Type            *string           `json:"type,omitempty"`
	AppliedTimeZone *string           `json:"appliedTimeZone,omitempty"`
	WahooWorkoutID  json.RawMessage   `json:"wahooWorkoutId,omitempty"` // string or number upstream
	CompletionData  *PlanLinkData     `json:"completionData,omitempty"`
	LinkData        *PlanLinkData     `json:"linkData,omitempty"`
	Prospects       []WorkoutProspect `json:"prospects,omitempty"`
	Plan            *PlanInfo         `json:"plan,omitempty"`
}

// WorkoutEquipment is one piece of equipment a workout calls for.
type WorkoutEquipment struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Thumbnail   *string `json:"thumbnail,omitempty"`
}

// WorkoutDescription is one titled description section of a workout.
type WorkoutDescription struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// WorkoutMetrics are the training metrics of a workout definition.
type WorkoutMetrics struct {
	IntensityFactor *float64        `json:"intensityFactor,omitempty"`
	TSS             *int            `json:"tss,omitempty"`
	Ratings         *WorkoutRatings `json:"ratings,omitempty"`
}

// WorkoutDetails is the expanded definition of a single workout.
type WorkoutDetails struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	Sport            *string              `json:"sport,omitempty"`
	ShortDescription *string              `json:"shortDescription,omitempty"`
	Details          *string              `json:"details,omitempty"`
	Level            *string              `json:"level,omitempty"`
	DurationSeconds  *int                 `json:"durationSeconds,omitempty"`
	Equipment        []WorkoutEquipment   `json:"equipment,omitempty"`
	Descriptions     []WorkoutDescription `json:"descriptions,omitempty"`
	Metrics          *WorkoutMetrics      `json:"metrics,omitempty"`
	GraphTriggers    GraphTriggers        `json:"graphTriggers,omitempty"`
}

// LibraryMetrics are the optional training metrics of a catalog entry.
type LibraryMetrics struct {
	TSS             *int            `json:"tss,omitempty"`
	IntensityFactor *float64        `json:"intensityFactor,omitempty"`
	Ratings         *WorkoutRatings `json:"ratings,omitempty"`
}

// LibraryContent is one catalog entry (video or workout). Channel is the
// human-readable channel name after translation by the client.
type LibraryContent struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	MediaType    string               `json:"mediaType"`
	Channel      *string              `json:"channel,omitempty"`
	WorkoutType  *string              `json:"workoutType,omitempty"`
	Category     *string              `json:"category,omitempty"`
	Level        *string              `json:"level,omitempty"`
	Duration     *int                 `json:"duration,omitempty"` // seconds
	WorkoutID    *string              `json:"workoutId,omitempty"`
	VideoID      *string              `json:"videoId,omitempty"`
	BannerImage  *string              `json:"bannerImage,omitempty"`
	PosterImage  *string              `json:"posterImage,omitempty"`
	DefaultImage *string              `json:"defaultImage,omitempty"`
	Intensity    *string              `json:"intensity,omitempty"`
	Tags         []string             `json:"tags,omitempty"`
	Descriptions []WorkoutDescription `json:"descriptions,omitempty"`
	Metrics      *LibraryMetrics      `json:"metrics,omitempty"`
}

// SportInfo is a sport entry of the library response.
type SportInfo struct {
	ID          string  `json:"id"`
	WorkoutType string  `json:"workoutType"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ChannelInfo is a channel entry of the library response.
type ChannelInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// FitnessTestResults are the 4DP results embedded in a test activity.
type FitnessTestResults struct {
	Power5s                   PowerTestValue `json:"power5s"`
	Power1m                   PowerTestValue `json:"power1m"`
	Power5m                   PowerTestValue `json:"power5m"`
	Power20m                  PowerTestValue `json:"power20m"`
	LactateThresholdHeartRate float64        `json:"lactateThresholdHeartRate"`
	RiderType                 RiderTypeInfo  `json:"riderType"`
}

// FitnessTestResult is a summary of one completed fitness test activity.
type FitnessTestResult struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	CompletedDate   *string             `json:"completedDate,omitempty"`
	DurationSeconds *int                `json:"durationSeconds,omitempty"`
	DistanceKm      *float64            `json:"distanceKm,omitempty"`
	TSS             *int                `json:"tss,omitempty"`
	IntensityFactor *float64            `json:"intensityFactor,omitempty"`
	TestResults     *FitnessTestResults `json:"testResults,omitempty"`
	WorkoutID       *string             `json:"workoutId,omitempty"`
	ContentID       *string             `json:"contentId,omitempty"`
	Analysis        *string             `json:"analysis,omitempty"`
}

// PowerBest is one discrete point of the power curve bests.
type PowerBest struct {
	Duration int `json:"duration"`
	Value    int `json:"value"`
}

// FitnessTestDetails is the full data of a single fitness test activity,
// including second-by-second time series.
type FitnessTestDetails struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	CompletedDate   *string             `json:"completedDate,omitempty"`
	DurationSeconds *int                `json:"durationSeconds,omitempty"`
	DistanceKm      *float64            `json:"distanceKm,omitempty"`
	TSS             *int                `json:"tss,omitempty"`
	IntensityFactor *float64            `json:"intensityFactor,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	TestResults     *FitnessTestResults `json:"testResults,omitempty"`
	Profile         *RiderProfile       `json:"profile,omitempty"`
	Power           []int               `json:"power,omitempty"`
	Cadence         []int               `json:"cadence,omitempty"`
	HeartRate       []int               `json:"heartRate,omitempty"`
	PowerBests      []PowerBest         `json:"powerBests,omitempty"`
	Analysis        *string             `json:"analysis,omitempty"`
}

// ---------------------------------------------------------------------------
// GraphQL response wrappers (client internals)
// ---------------------------------------------------------------------------

type loginUserData struct {
	Status  string          `json:"status"`
	Message *string         `json:"message"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
}

type loginResponse struct {
	LoginUser loginUserData `json:"loginUser"`
}

type impersonateResponse struct {
	ImpersonateUser *struct {
		Status  string  `json:"status"`
		Message *string `json:"message"`
		Token   string  `json:"token"`
		User    *struct {
			Profiles *struct {
				RiderProfile *RiderProfile `json:"riderProfile"`
			} `json:"profiles"`
		} `json:"user"`
	} `json:"impersonateUser"`
}

type mostRecentTestData struct {
	Status                    string            `json:"status"`
	Message                   *string           `json:"message"`
	FitnessTestRidden         bool              `json:"fitnessTestRidden"`
	RiderType                 RiderTypeInfo     `json:"riderType"`
	RiderWeakness             RiderWeaknessInfo `json:"riderWeakness"`
	Power5s                   PowerTestValue    `json:"power5s"`
	Power1m                   PowerTestValue    `json:"power1m"`
	Power5m                   PowerTestValue    `json:"power5m"`
	Power20m                  PowerTestValue    `json:"power20m"`
	LactateThresholdHeartRate float64           `json:"lactateThresholdHeartRate"`
	StartTime                 string            `json:"startTime"`
	EndTime                   string            `json:"endTime"`
}

type mostRecentTestResponse struct {
	MostRecentTest mostRecentTestData `json:"mostRecentTest"`
}

type libraryData struct {
	Content  []LibraryContent `json:"content"`
	Sports   []SportInfo      `json:"sports"`
	Channels []ChannelInfo    `json:"channels"`
}

type libraryResponse struct {
	Library libraryData `json:"library"`
}

type agendaStatusData struct {
	Status   string  `json:"status"`
	Message  *string `json:"message"`
	AgendaID string  `json:"agendaId"`
}

type addAgendaResponse struct {
	AddAgenda agendaStatusData `json:"addAgenda"`
}

type moveAgendaResponse struct {
	MoveAgenda agendaStatusData `json:"moveAgenda"`
}

type deleteAgendaResponse struct {
	DeleteAgenda agendaStatusData `json:"deleteAgenda"`
}

type workoutActivitiesData struct {
	Activities []FitnessTestResult `json:"activities"`
	Count      int                 `json:"count"`
}

type workoutActivitiesResponse struct {
	GetWorkoutActivities workoutActivitiesData `json:"getWorkoutActivities"`
}

type activityResponse struct {
	Activity FitnessTestDetails `json:"activity"`
}

type userPlansRangeResponse struct {
	UserPlan []UserPlanItem `json:"userPlan"`
}

type workoutsResponse struct {
	Workouts []WorkoutDetails `json:"workouts"`
}

package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sufferlandria/systm-mcp/internal/systm"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const noProfileMessage = "No rider profile found. Complete a Full Frontal or Half Monty test first."

// Handler handles MCP tool requests and responses: parses input, calls the
// SYSTM client, formats the MCP result.
type Handler struct {
	service systmService
}

// NewHandler builds a handler with the given service.
func NewHandler(service systmService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error()), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// CalendarInput is the input for get_calendar.
type CalendarInput struct {
	StartDate string `json:"start_date" jsonschema:"Start date (YYYY-MM-DD)"`
	EndDate   string `json:"end_date" jsonschema:"End date (YYYY-MM-DD)"`
	TimeZone  string `json:"time_zone,omitempty" jsonschema:"IANA timezone for the calendar (default: UTC)"`
}

// GetCalendarTool returns the MCP tool handler for get_calendar.
func (h *Handler) GetCalendarTool() func(context.Context, *mcp.CallToolRequest, CalendarInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CalendarInput) (*mcp.CallToolResult, any, error) {
		if !validDate(in.StartDate) {
			return errorResult("Invalid start_date: use YYYY-MM-DD"), nil, nil
		}
		if !validDate(in.EndDate) {
			return errorResult("Invalid end_date: use YYYY-MM-DD"), nil, nil
		}

		items, err := h.service.GetCalendar(ctx, in.StartDate, in.EndDate, in.TimeZone)
		if err != nil {
			return errorResult("Error fetching calendar: " + err.Error()), nil, nil
		}
		res, err := jsonResult(items)
		return res, nil, err
	}
}

// ScheduleWorkoutInput is the input for schedule_workout.
type ScheduleWorkoutInput struct {
	ContentID string `json:"content_id" jsonschema:"Workout content id from library results (the id field, not workoutId)"`
	Date      string `json:"date" jsonschema:"Date to schedule the workout (YYYY-MM-DD)"`
	TimeZone  string `json:"time_zone,omitempty" jsonschema:"IANA timezone, e.g. Europe/Lisbon (default: UTC)"`
}

// ScheduleWorkoutTool returns the MCP tool handler for schedule_workout.
func (h *Handler) ScheduleWorkoutTool() func(context.Context, *mcp.CallToolRequest, ScheduleWorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ScheduleWorkoutInput) (*mcp.CallToolResult, any, error) {
		if !validDate(in.Date) {
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		}

		timeZone := in.TimeZone
		if timeZone == "" {
			timeZone = "UTC"
		}
		agendaID, err := h.service.ScheduleWorkout(ctx, in.ContentID, in.Date, timeZone)
		if err != nil {
			return errorResult("Error scheduling workout: " + err.Error()), nil, nil
		}
		res, err := jsonResult(scheduleWorkoutResultOut{
			Success:  true,
			AgendaID: agendaID,
			Date:     in.Date,
			TimeZone: timeZone,
		})
		return res, nil, err
	}
}

// RescheduleWorkoutInput is the input for reschedule_workout.
type RescheduleWorkoutInput struct {
	AgendaID string `json:"agenda_id" jsonschema:"Agenda id from get_calendar or schedule_workout"`
	NewDate  string `json:"new_date" jsonschema:"New date for the workout (YYYY-MM-DD)"`
	TimeZone string `json:"time_zone,omitempty" jsonschema:"IANA timezone (default: UTC)"`
}

// RescheduleWorkoutTool returns the MCP tool handler for reschedule_workout.
func (h *Handler) RescheduleWorkoutTool() func(context.Context, *mcp.CallToolRequest, RescheduleWorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RescheduleWorkoutInput) (*mcp.CallToolResult, any, error) {
		if !validDate(in.NewDate) {
			return errorResult("Invalid new_date: use YYYY-MM-DD"), nil, nil
		}

		timeZone := in.TimeZone
		if timeZone == "" {
			timeZone = "UTC"
		}
		if err := h.service.RescheduleWorkout(ctx, in.AgendaID, in.NewDate, timeZone); err != nil {
			return errorResult("Error rescheduling workout: " + err.Error()), nil, nil
		}
		res, err := jsonResult(rescheduleWorkoutResultOut{
			Success:  true,
			Message:  "Workout rescheduled successfully",
			AgendaID: in.AgendaID,
			NewDate:  in.NewDate,
			TimeZone: timeZone,
		})
		return res, nil, err
	}
}

// RemoveWorkoutInput is the input for remove_workout.
type RemoveWorkoutInput struct {
	AgendaID string `json:"agenda_id" jsonschema:"Agenda id from get_calendar or schedule_workout"`
}

// RemoveWorkoutTool returns the MCP tool handler for remove_workout.
func (h *Handler) RemoveWorkoutTool() func(context.Context, *mcp.CallToolRequest, RemoveWorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RemoveWorkoutInput) (*mcp.CallToolResult, any, error) {
		if err := h.service.RemoveWorkout(ctx, in.AgendaID); err != nil {
			return errorResult("Error removing workout: " + err.Error()), nil, nil
		}
		res, err := jsonResult(removeWorkoutResultOut{
			Success:  true,
			Message:  "Workout removed successfully",
			AgendaID: in.AgendaID,
		})
		return res, nil, err
	}
}

// defaultLibraryLimit caps library results when the caller sets no limit.
const defaultLibraryLimit = 50

// WorkoutsInput is the input for get_workouts.
type WorkoutsInput struct {
	Sport         string `json:"sport,omitempty" jsonschema:"Filter by workout type (Cycling, Running, Strength, Yoga, Swimming)"`
	Search        string `json:"search,omitempty" jsonschema:"Search workouts by name (case-insensitive partial match)"`
	MinDuration   *int   `json:"min_duration,omitempty" jsonschema:"Minimum duration in minutes"`
	MaxDuration   *int   `json:"max_duration,omitempty" jsonschema:"Maximum duration in minutes"`
	MinTSS        *int   `json:"min_tss,omitempty" jsonschema:"Minimum Training Stress Score"`
	MaxTSS        *int   `json:"max_tss,omitempty" jsonschema:"Maximum Training Stress Score"`
	Channel       string `json:"channel,omitempty" jsonschema:"Filter by content channel (e.g. The Sufferfest, ProRides, NoVid)"`
	SortBy        string `json:"sort_by,omitempty" jsonschema:"Sort field: name, duration, tss (default: name)"`
	SortDirection string `json:"sort_direction,omitempty" jsonschema:"Sort order: asc or desc (default: asc)"`
	Limit         *int   `json:"limit,omitempty" jsonschema:"Maximum number of results (default: 50)"`
}

func (in WorkoutsInput) filters() *systm.Filters {
	f := &systm.Filters{
		MinDuration: in.MinDuration,
		MaxDuration: in.MaxDuration,
		MinTSS:      in.MinTSS,
		MaxTSS:      in.MaxTSS,
		Limit:       in.Limit,
	}
	if in.Sport != "" {
		f.Sport = &in.Sport
	}
	if in.Search != "" {
		f.Search = &in.Search
	}
	if in.Channel != "" {
		f.Channel = &in.Channel
	}
	if in.SortBy != "" {
		f.SortBy = &in.SortBy
	}
	if in.SortDirection != "" {
		f.SortDirection = &in.SortDirection
	}
	if f.Limit == nil {
		limit := defaultLibraryLimit
		f.Limit = &limit
	}
	return f
}

// GetWorkoutsTool returns the MCP tool handler for get_workouts.
func (h *Handler) GetWorkoutsTool() func(context.Context, *mcp.CallToolRequest, WorkoutsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutsInput) (*mcp.CallToolResult, any, error) {
		workouts, err := h.service.GetWorkoutLibrary(ctx, in.filters())
		if err != nil {
			return errorResult("Error fetching workout library: " + err.Error()), nil, nil
		}
		res, err := jsonResult(workoutsResultOut{Total: len(workouts), Workouts: workouts})
		return res, nil, err
	}
}

// CyclingWorkoutsInput is the input for get_cycling_workouts.
type CyclingWorkoutsInput struct {
	Search        string `json:"search,omitempty" jsonschema:"Search workouts by name"`
	MinDuration   *int   `json:"min_duration,omitempty" jsonschema:"Minimum duration in minutes"`
	MaxDuration   *int   `json:"max_duration,omitempty" jsonschema:"Maximum duration in minutes"`
	MinTSS        *int   `json:"min_tss,omitempty" jsonschema:"Minimum TSS"`
	MaxTSS        *int   `json:"max_tss,omitempty" jsonschema:"Maximum TSS"`
	Channel       string `json:"channel,omitempty" jsonschema:"Filter by content channel"`
	Category      string `json:"category,omitempty" jsonschema:"Workout category (Endurance, Speed, Climbing, Racing, ...)"`
	FourDPFocus   string `json:"four_dp_focus,omitempty" jsonschema:"Primary 4DP energy system with rating >= 4: NM, AC, MAP or FTP"`
	Intensity     string `json:"intensity,omitempty" jsonschema:"Intensity level: High, Medium or Low"`
	SortBy        string `json:"sort_by,omitempty" jsonschema:"Sort field: name, duration, tss"`
	SortDirection string `json:"sort_direction,omitempty" jsonschema:"Sort order: asc or desc"`
	Limit         *int   `json:"limit,omitempty" jsonschema:"Maximum number of results (default: 50)"`
}

func (in CyclingWorkoutsInput) filters() *systm.Filters {
	f := WorkoutsInput{
		Search:        in.Search,
		MinDuration:   in.MinDuration,
		MaxDuration:   in.MaxDuration,
		MinTSS:        in.MinTSS,
		MaxTSS:        in.MaxTSS,
		Channel:       in.Channel,
		SortBy:        in.SortBy,
		SortDirection: in.SortDirection,
		Limit:         in.Limit,
	}.filters()
	if in.Category != "" {
		f.Category = &in.Category
	}
	if in.FourDPFocus != "" {
		f.FourDPFocus = &in.FourDPFocus
	}
	if in.Intensity != "" {
		f.Intensity = &in.Intensity
	}
	return f
}

// GetCyclingWorkoutsTool returns the MCP tool handler for get_cycling_workouts.
func (h *Handler) GetCyclingWorkoutsTool() func(context.Context, *mcp.CallToolRequest, CyclingWorkoutsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CyclingWorkoutsInput) (*mcp.CallToolResult, any, error) {
		workouts, err := h.service.GetCyclingWorkouts(ctx, in.filters())
		if err != nil {
			return errorResult("Error fetching cycling workouts: " + err.Error()), nil, nil
		}
		res, err := jsonResult(workoutsResultOut{Total: len(workouts), Workouts: workouts})
		return res, nil, err
	}
}

// WorkoutDetailsInput is the input for get_workout_details.
type WorkoutDetailsInput struct {
	WorkoutID string `json:"workout_id" jsonschema:"Workout id from calendar or library (accepts both id and workoutId)"`
}

// GetWorkoutDetailsTool returns the MCP tool handler for get_workout_details.
func (h *Handler) GetWorkoutDetailsTool() func(context.Context, *mcp.CallToolRequest, WorkoutDetailsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutDetailsInput) (*mcp.CallToolResult, any, error) {
		details, err := h.service.GetWorkoutDetails(ctx, in.WorkoutID)
		if err != nil {
			return errorResult("Error fetching workout details: " + err.Error()), nil, nil
		}
		res, err := jsonResult(details)
		return res, nil, err
	}
}

// GetRiderProfileTool returns the MCP tool handler for get_rider_profile.
func (h *Handler) GetRiderProfileTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		enhanced, err := h.service.GetLatestTestProfile(ctx)
		if err != nil {
			return errorResult("Error fetching rider profile: " + err.Error()), nil, nil
		}
		if enhanced == nil {
			return errorResult(noProfileMessage), nil, nil
		}

		current, err := h.service.GetCurrentProfile(ctx)
		if err != nil {
			return errorResult("Error fetching current profile: " + err.Error()), nil, nil
		}

		// Watts come from the current profile (the values workouts actually
		// target) when available; scores always from the latest test.
		watts := enhanced.RiderProfile
		if current != nil {
			watts = *current
		}

		lthr := enhanced.LactateThresholdHeartRate
		if current != nil && current.LTHR != nil && *current.LTHR > 0 {
			lthr = *current.LTHR
		}

		res, err := jsonResult(riderProfileOut{
			FourDP: fourDPProfileOut{
				NM:  fourDPValueOut{Watts: watts.NM, Score: enhanced.Power5s.GraphValue},
				AC:  fourDPValueOut{Watts: watts.AC, Score: enhanced.Power1m.GraphValue},
				MAP: fourDPValueOut{Watts: watts.MAP, Score: enhanced.Power5m.GraphValue},
				FTP: fourDPValueOut{Watts: watts.FTP, Score: enhanced.Power20m.GraphValue},
			},
			RiderType: riderTypeOut{
				Name:        enhanced.RiderType.Name,
				Description: enhanced.RiderType.Description,
			},
			Strengths: strengthWeaknessOut{
				Name:        enhanced.RiderWeakness.StrengthName,
				Description: enhanced.RiderWeakness.StrengthDescription,
				Summary:     enhanced.RiderWeakness.StrengthSummary,
			},
			Weaknesses: strengthWeaknessOut{
				Name:        enhanced.RiderWeakness.Name,
				Description: enhanced.RiderWeakness.WeaknessDescription,
				Summary:     enhanced.RiderWeakness.WeaknessSummary,
			},
			LTHR:           &lthr,
			HeartRateZones: systm.HeartRateZones(lthr),
			LastTestDate:   formatDate(&enhanced.StartTime),
		})
		return res, nil, err
	}
}

// FitnessTestHistoryInput is the input for get_fitness_test_history.
type FitnessTestHistoryInput struct {
	Page     *int `json:"page,omitempty" jsonschema:"Page number, 1-indexed (default: 1)"`
	PageSize *int `json:"page_size,omitempty" jsonschema:"Results per page (default: 15)"`
}

// GetFitnessTestHistoryTool returns the MCP tool handler for get_fitness_test_history.
func (h *Handler) GetFitnessTestHistoryTool() func(context.Context, *mcp.CallToolRequest, FitnessTestHistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in FitnessTestHistoryInput) (*mcp.CallToolResult, any, error) {
		page := 1
		if in.Page != nil {
			page = *in.Page
		}
		pageSize := 15
		if in.PageSize != nil {
			pageSize = *in.PageSize
		}

		activities, total, err := h.service.GetFitnessTestHistory(ctx, page, pageSize)
		if err != nil {
			return errorResult("Error fetching fitness test history: " + err.Error()), nil, nil
		}

		tests := make([]fitnessTestSummaryOut, 0, len(activities))
		for _, activity := range activities {
			summary := fitnessTestSummaryOut{
				ID:              activity.ID,
				Name:            activity.Name,
				Date:            formatDate(activity.CompletedDate),
				Duration:        formatDuration(activity.DurationSeconds),
				Distance:        formatDistance(activity.DistanceKm),
				TSS:             activity.TSS,
				IntensityFactor: activity.IntensityFactor,
			}
			if activity.TestResults != nil {
				summary.FourDP = fourDPFromTestResults(activity.TestResults)
				lthr := activity.TestResults.LactateThresholdHeartRate
				summary.LTHR = &lthr
				riderType := activity.TestResults.RiderType.Name
				summary.RiderType = &riderType
			}
			tests = append(tests, summary)
		}

		res, err := jsonResult(fitnessTestHistoryOut{Tests: tests, Total: total})
		return res, nil, err
	}
}

// FitnessTestDetailsInput is the input for get_fitness_test_details.
type FitnessTestDetailsInput struct {
	ActivityID string `json:"activity_id" jsonschema:"Activity id from get_fitness_test_history"`
}

// GetFitnessTestDetailsTool returns the MCP tool handler for get_fitness_test_details.
func (h *Handler) GetFitnessTestDetailsTool() func(context.Context, *mcp.CallToolRequest, FitnessTestDetailsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in FitnessTestDetailsInput) (*mcp.CallToolResult, any, error) {
		details, err := h.service.GetFitnessTestDetails(ctx, in.ActivityID)
		if err != nil {
			return errorResult("Error fetching fitness test details: " + err.Error()), nil, nil
		}

		out := fitnessTestDetailsOut{
			Name:            details.Name,
			Date:            formatDate(details.CompletedDate),
			Duration:        formatDuration(details.DurationSeconds),
			Distance:        formatDistance(details.DistanceKm),
			TSS:             details.TSS,
			IntensityFactor: details.IntensityFactor,
			Notes:           details.Notes,
			FourDP:          fourDPFromTestResults(details.TestResults),
			PowerCurve:      []powerCurvePointOut{},
			ActivityData: activityDataOut{
				Power:     details.Power,
				Cadence:   details.Cadence,
				HeartRate: details.HeartRate,
			},
		}
		if details.TestResults != nil {
			lthr := details.TestResults.LactateThresholdHeartRate
			out.LTHR = &lthr
			riderType := details.TestResults.RiderType.Name
			out.RiderType = &riderType
		}
		for _, best := range details.PowerBests {
			out.PowerCurve = append(out.PowerCurve, powerCurvePointOut{
				Duration: best.Duration,
				Value:    best.Value,
			})
		}
		// the analysis payload is supplementary: if it is not valid JSON it
		// degrades to absent instead of failing the call
		if details.Analysis != nil {
			if json.Valid([]byte(*details.Analysis)) {
				out.Analysis = json.RawMessage(*details.Analysis)
			}
		}

		res, err := jsonResult(out)
		return res, nil, err
	}
}

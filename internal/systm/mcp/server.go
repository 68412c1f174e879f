package mcp

import (
	"github.com/sufferlandria/systm-mcp/internal/systm"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the SYSTM tools: calendar read and
// scheduling, workout library browsing, workout details, rider profile and
// fitness test history/details. The server is transport-agnostic; main runs
// it over stdio or mounts it at /mcp (internal/server).
func NewServer(client *systm.Client, version string) *mcp.Server {
	h := NewHandler(client)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "systm-mcp",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_calendar",
		Description: "Returns scheduled training calendar entries between two dates. Args: start_date, end_date (YYYY-MM-DD); optional: time_zone (IANA name, default UTC). Each entry carries its agenda_id (needed for rescheduling or removal), status, plan info and workout prospects.",
	}, h.GetCalendarTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "schedule_workout",
		Description: "Schedules a workout on the training calendar. Args: content_id (the id field from get_workouts/get_cycling_workouts results, not workoutId), date (YYYY-MM-DD); optional: time_zone (default UTC). Returns the new agenda_id.",
	}, h.ScheduleWorkoutTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "reschedule_workout",
		Description: "Moves an already scheduled workout to a new date. Args: agenda_id (from get_calendar or schedule_workout), new_date (YYYY-MM-DD); optional: time_zone (default UTC).",
	}, h.RescheduleWorkoutTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "remove_workout",
		Description: "Removes a scheduled workout from the training calendar. Arg: agenda_id (from get_calendar or schedule_workout).",
	}, h.RemoveWorkoutTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workouts",
		Description: "Searches the workout library across all sports. Optional filters: sport (Cycling, Running, Strength, Yoga, Swimming), search (name substring), min_duration/max_duration (minutes), min_tss/max_tss, channel (e.g. The Sufferfest, ProRides, NoVid), sort_by (name, duration, tss), sort_direction (asc, desc), limit (default 50).",
	}, h.GetWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_cycling_workouts",
		Description: "Searches cycling workouts with cycling-specific filters on top of the common library filters: category (Endurance, Speed, Climbing, Racing, ...), intensity (High, Medium, Low) and four_dp_focus (NM, AC, MAP or FTP) which keeps only workouts rating that energy system 4 or higher. Use when picking a ride that targets a specific energy system.",
	}, h.GetCyclingWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_details",
		Description: "Returns the full definition of a single workout: description sections, equipment, metrics (TSS, intensity factor, 4DP ratings) and the intensity graph. Arg: workout_id (accepts both the workoutId from calendar prospects and the id from library results).",
	}, h.GetWorkoutDetailsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_rider_profile",
		Description: "Returns the rider's 4DP power profile (NM, AC, MAP, FTP watts and test scores), rider type, strengths/weaknesses, LTHR and derived heart rate training zones, based on the most recent fitness test. No arguments.",
	}, h.GetRiderProfileTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_fitness_test_history",
		Description: "Returns completed Full Frontal and Half Monty fitness test activities, newest first. Optional: page (default 1), page_size (default 15). Each entry carries the activity id for get_fitness_test_details.",
	}, h.GetFitnessTestHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_fitness_test_details",
		Description: "Returns the full data of one fitness test activity: 4DP results, LTHR, rider type, power curve bests, second-by-second power/cadence/heart-rate series and the test analysis. Arg: activity_id (from get_fitness_test_history).",
	}, h.GetFitnessTestDetailsTool())

	return s
}

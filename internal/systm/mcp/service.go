package mcp

import (
	"context"

	"github.com/sufferlandria/systm-mcp/internal/systm"
)

// systmService is the slice of the SYSTM client the tools need (for
// dependency injection and testing).
type systmService interface {
	GetCalendar(ctx context.Context, startDate, endDate, timeZone string) ([]systm.UserPlanItem, error)
	ScheduleWorkout(ctx context.Context, contentID, date, timeZone string) (string, error)
	RescheduleWorkout(ctx context.Context, agendaID, newDate, timeZone string) error
	RemoveWorkout(ctx context.Context, agendaID string) error
	GetWorkoutLibrary(ctx context.Context, filters *systm.Filters) ([]systm.LibraryContent, error)
	GetCyclingWorkouts(ctx context.Context, filters *systm.Filters) ([]systm.LibraryContent, error)
	GetWorkoutDetails(ctx context.Context, workoutID string) (*systm.WorkoutDetails, error)
	GetCurrentProfile(ctx context.Context) (*systm.RiderProfile, error)
	GetLatestTestProfile(ctx context.Context) (*systm.EnhancedRiderProfile, error)
	GetFitnessTestHistory(ctx context.Context, page, pageSize int) ([]systm.FitnessTestResult, int, error)
	GetFitnessTestDetails(ctx context.Context, activityID string) (*systm.FitnessTestDetails, error)
}

var _ systmService = (*systm.Client)(nil)

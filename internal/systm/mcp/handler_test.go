package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sufferlandria/systm-mcp/internal/systm"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mockSystmService implements systmService for tests.
type mockSystmService struct {
	calendar    []systm.UserPlanItem
	calendarErr error

	scheduledAgendaID string
	scheduleErr       error
	rescheduleErr     error
	removeErr         error

	library     []systm.LibraryContent
	libraryErr  error
	seenFilters *systm.Filters

	details    *systm.WorkoutDetails
	detailsErr error

	currentProfile    *systm.RiderProfile
	currentProfileErr error
	testProfile       *systm.EnhancedRiderProfile
	testProfileErr    error

	history      []systm.FitnessTestResult
	historyTotal int
	historyErr   error
	seenPage     int
	seenPageSize int

	testDetails    *systm.FitnessTestDetails
	testDetailsErr error
}

func (m *mockSystmService) GetCalendar(context.Context, string, string, string) ([]systm.UserPlanItem, error) {
	return m.calendar, m.calendarErr
}

func (m *mockSystmService) ScheduleWorkout(context.Context, string, string, string) (string, error) {
	return m.scheduledAgendaID, m.scheduleErr
}

func (m *mockSystmService) RescheduleWorkout(context.Context, string, string, string) error {
	return m.rescheduleErr
}

func (m *mockSystmService) RemoveWorkout(context.Context, string) error {
	return m.removeErr
}

func (m *mockSystmService) GetWorkoutLibrary(_ context.Context, filters *systm.Filters) ([]systm.LibraryContent, error) {
	m.seenFilters = filters
	return m.library, m.libraryErr
}

func (m *mockSystmService) GetCyclingWorkouts(_ context.Context, filters *systm.Filters) ([]systm.LibraryContent, error) {
	m.seenFilters = filters
	return m.library, m.libraryErr
}

func (m *mockSystmService) GetWorkoutDetails(context.Context, string) (*systm.WorkoutDetails, error) {
	return m.details, m.detailsErr
}

func (m *mockSystmService) GetCurrentProfile(context.Context) (*systm.RiderProfile, error) {
	return m.currentProfile, m.currentProfileErr
}

func (m *mockSystmService) GetLatestTestProfile(context.Context) (*systm.EnhancedRiderProfile, error) {
	return m.testProfile, m.testProfileErr
}

func (m *mockSystmService) GetFitnessTestHistory(_ context.Context, page, pageSize int) ([]systm.FitnessTestResult, int, error) {
	m.seenPage = page
	m.seenPageSize = pageSize
	return m.history, m.historyTotal, m.historyErr
}

func (m *mockSystmService) GetFitnessTestDetails(context.Context, string) (*systm.FitnessTestDetails, error) {
	return m.testDetails, m.testDetailsErr
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is not text")
	}
	return tc.Text
}

func TestHandler_GetCalendarTool(t *testing.T) {
	t.Run("invalid_start_date", func(t *testing.T) {
		h := NewHandler(&mockSystmService{})
		fn := h.GetCalendarTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, CalendarInput{
			StartDate: "next tuesday",
			EndDate:   "2026-01-15",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if got := resultText(t, res); got != "Invalid start_date: use YYYY-MM-DD" {
			t.Fatalf("content text = %q", got)
		}
	})

	t.Run("returns_entries", func(t *testing.T) {
		agendaID := "ag-1"
		svc := &mockSystmService{calendar: []systm.UserPlanItem{{AgendaID: &agendaID}}}
		h := NewHandler(svc)
		fn := h.GetCalendarTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, CalendarInput{
			StartDate: "2026-01-01",
			EndDate:   "2026-01-15",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}
		if got := resultText(t, res); !strings.Contains(got, `"ag-1"`) {
			t.Fatalf("agenda id missing from output: %s", got)
		}
	})

	t.Run("service_error", func(t *testing.T) {
		svc := &mockSystmService{calendarErr: errors.New("api gone")}
		h := NewHandler(svc)
		fn := h.GetCalendarTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, CalendarInput{
			StartDate: "2026-01-01",
			EndDate:   "2026-01-15",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if got := resultText(t, res); got != "Error fetching calendar: api gone" {
			t.Fatalf("content text = %q", got)
		}
	})
}

func TestHandler_ScheduleWorkoutTool(t *testing.T) {
	t.Run("defaults_timezone_to_utc", func(t *testing.T) {
		svc := &mockSystmService{scheduledAgendaID: "ag-new"}
		h := NewHandler(svc)
		fn := h.ScheduleWorkoutTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, ScheduleWorkoutInput{
			ContentID: "content-1",
			Date:      "2026-02-01",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}

		var out map[string]any
		if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
			t.Fatalf("output is not json: %v", err)
		}
		if out["agenda_id"] != "ag-new" || out["time_zone"] != "UTC" || out["success"] != true {
			t.Fatalf("unexpected output: %v", out)
		}
	})

	t.Run("invalid_date", func(t *testing.T) {
		h := NewHandler(&mockSystmService{})
		fn := h.ScheduleWorkoutTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, ScheduleWorkoutInput{
			ContentID: "content-1",
			Date:      "02/01/2026",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
	})
}

func TestHandler_GetWorkoutsTool_filters(t *testing.T) {
	svc := &mockSystmService{}
	h := NewHandler(svc)
	fn := h.GetWorkoutsTool()

	minDuration := 30
	res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, WorkoutsInput{
		Sport:       "Cycling",
		Search:      "hammer",
		MinDuration: &minDuration,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %s", resultText(t, res))
	}

	f := svc.seenFilters
	if f == nil {
		t.Fatalf("filters not passed to the service")
	}
	if f.Sport == nil || *f.Sport != "Cycling" {
		t.Fatalf("sport filter not set")
	}
	if f.Search == nil || *f.Search != "hammer" {
		t.Fatalf("search filter not set")
	}
	if f.MinDuration == nil || *f.MinDuration != 30 {
		t.Fatalf("min duration filter not set")
	}
	// empty optional strings must stay nil, not become empty-string filters
	if f.Channel != nil || f.SortBy != nil {
		t.Fatalf("unset filters leaked: %+v", f)
	}
	// unset limit gets the default
	if f.Limit == nil || *f.Limit != defaultLibraryLimit {
		t.Fatalf("default limit not applied")
	}
}

func TestHandler_GetCyclingWorkoutsTool_focus(t *testing.T) {
	svc := &mockSystmService{}
	h := NewHandler(svc)
	fn := h.GetCyclingWorkoutsTool()

	res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, CyclingWorkoutsInput{
		FourDPFocus: "MAP",
		Intensity:   "High",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %s", resultText(t, res))
	}

	f := svc.seenFilters
	if f == nil || f.FourDPFocus == nil || *f.FourDPFocus != "MAP" {
		t.Fatalf("four dp focus not passed through")
	}
	if f.Intensity == nil || *f.Intensity != "High" {
		t.Fatalf("intensity not passed through")
	}
}

func TestHandler_GetRiderProfileTool(t *testing.T) {
	t.Run("no_profile", func(t *testing.T) {
		h := NewHandler(&mockSystmService{})
		fn := h.GetRiderProfileTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if got := resultText(t, res); got != noProfileMessage {
			t.Fatalf("content text = %q", got)
		}
	})

	t.Run("merges_current_and_test_profile", func(t *testing.T) {
		currentLTHR := 170.0
		testLTHR := 165.0
		svc := &mockSystmService{
			currentProfile: &systm.RiderProfile{
				NM: 710, AC: 410, MAP: 310, FTP: 260, LTHR: &currentLTHR,
			},
			testProfile: &systm.EnhancedRiderProfile{
				RiderProfile:              systm.RiderProfile{NM: 700, AC: 400, MAP: 300, FTP: 250},
				Power5s:                   systm.PowerTestValue{Value: 700, GraphValue: 71.0},
				Power20m:                  systm.PowerTestValue{Value: 250, GraphValue: 52.5},
				LactateThresholdHeartRate: testLTHR,
				RiderType:                 systm.RiderTypeInfo{Name: "Attacker"},
				StartTime:                 "2026-01-10T10:00:00Z",
			},
		}
		h := NewHandler(svc)
		fn := h.GetRiderProfileTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}

		var out struct {
			FourDP struct {
				FTP struct {
					Watts int     `json:"watts"`
					Score float64 `json:"score"`
				} `json:"ftp"`
			} `json:"four_dp"`
			LTHR           float64           `json:"lthr"`
			HeartRateZones []json.RawMessage `json:"heart_rate_zones"`
			LastTestDate   string            `json:"last_test_date"`
		}
		if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
			t.Fatalf("output is not json: %v", err)
		}
		// watts from the current profile, score from the latest test
		if out.FourDP.FTP.Watts != 260 {
			t.Fatalf("ftp watts = %d, want current profile value 260", out.FourDP.FTP.Watts)
		}
		if out.FourDP.FTP.Score != 52.5 {
			t.Fatalf("ftp score = %v, want test value 52.5", out.FourDP.FTP.Score)
		}
		// current profile lthr wins over the test one
		if out.LTHR != 170.0 {
			t.Fatalf("lthr = %v, want 170", out.LTHR)
		}
		if len(out.HeartRateZones) != 5 {
			t.Fatalf("expected 5 heart rate zones, got %d", len(out.HeartRateZones))
		}
		if out.LastTestDate != "January 10, 2026" {
			t.Fatalf("last test date = %q", out.LastTestDate)
		}
	})
}

func TestHandler_GetFitnessTestHistoryTool(t *testing.T) {
	duration := 3600
	svc := &mockSystmService{
		history: []systm.FitnessTestResult{{
			ID:              "act-1",
			Name:            "Full Frontal",
			DurationSeconds: &duration,
			TestResults: &systm.FitnessTestResults{
				Power20m:                  systm.PowerTestValue{Value: 250, GraphValue: 52.5},
				LactateThresholdHeartRate: 165,
				RiderType:                 systm.RiderTypeInfo{Name: "Attacker"},
			},
		}},
		historyTotal: 7,
	}
	h := NewHandler(svc)
	fn := h.GetFitnessTestHistoryTool()

	res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, FitnessTestHistoryInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %s", resultText(t, res))
	}
	if svc.seenPage != 1 || svc.seenPageSize != 15 {
		t.Fatalf("pagination defaults not applied: page %d size %d", svc.seenPage, svc.seenPageSize)
	}

	var out struct {
		Tests []struct {
			ID        string `json:"id"`
			Duration  string `json:"duration"`
			RiderType string `json:"rider_type"`
		} `json:"tests"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if out.Total != 7 || len(out.Tests) != 1 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Tests[0].Duration != "1h 0m" {
		t.Fatalf("duration = %q", out.Tests[0].Duration)
	}
	if out.Tests[0].RiderType != "Attacker" {
		t.Fatalf("rider type = %q", out.Tests[0].RiderType)
	}
}

func TestHandler_GetFitnessTestDetailsTool_analysis(t *testing.T) {
	validAnalysis := `{"timeInZones":[10,20,30]}`
	brokenAnalysis := `{"timeInZones":`

	run := func(t *testing.T, analysis string) map[string]any {
		svc := &mockSystmService{
			testDetails: &systm.FitnessTestDetails{
				ID:         "act-1",
				Name:       "Full Frontal",
				Analysis:   &analysis,
				PowerBests: []systm.PowerBest{{Duration: 5, Value: 700}},
			},
		}
		h := NewHandler(svc)
		fn := h.GetFitnessTestDetailsTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, FitnessTestDetailsInput{ActivityID: "act-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
			t.Fatalf("output is not json: %v", err)
		}
		return out
	}

	t.Run("valid_analysis_included", func(t *testing.T) {
		out := run(t, validAnalysis)
		if _, ok := out["analysis"]; !ok {
			t.Fatalf("analysis missing from output")
		}
	})

	t.Run("broken_analysis_degrades_to_absent", func(t *testing.T) {
		out := run(t, brokenAnalysis)
		if _, ok := out["analysis"]; ok {
			t.Fatalf("broken analysis must be dropped, not fail the call")
		}
	})
}

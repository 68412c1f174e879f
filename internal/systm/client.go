package systm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/sufferlandria/systm-mcp/internal/config"
	"github.com/sufferlandria/systm-mcp/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// Workout ids of the two fitness test workouts, used to filter the activity
// history down to actual tests.
const (
	FullFrontalWorkoutID = "dRcyg09t6K"
	HalfMontyWorkoutID   = "0SmbqUIZZo"
)

// calendarPageLimit is passed upstream as queryParams.limit; the calendar
// endpoint exposes no real pagination contract, so we ask for everything.
const calendarPageLimit = 1000

// Client talks to the SYSTM GraphQL API. One authenticated client is shared
// by all tool invocations for the lifetime of the server process; the only
// mutable state is the session token and the lazily cached rider profile,
// both guarded by mu.
type Client struct {
	cfg        config.ClientConfig
	httpClient *http.Client

	mu           sync.Mutex
	token        string
	riderProfile *RiderProfile
}

// NewClient builds a client with the given configuration and HTTP client.
func NewClient(cfg config.ClientConfig, httpClient *http.Client) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// Close releases the underlying HTTP connections. The session token is not
// explicitly revoked upstream; it simply dies with the process.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) appInformation() map[string]any {
	info := map[string]any{
		"platform": c.cfg.AppPlatform,
		"version":  c.cfg.AppVersion,
	}
	if c.cfg.InstallID != "" {
		info["installId"] = c.cfg.InstallID
	}
	return info
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// call issues one GraphQL POST and returns the raw data object. The error
// taxonomy is deliberate and load-bearing for callers:
//   - no token while requireAuth: ErrNotAuthenticated
//   - request timed out: *APIError with Timeout set
//   - other network failure: *APIError, StatusCode 0
//   - non-200 response: *APIError carrying status code and raw body
//   - body not a JSON object: *APIError (parse)
//   - non-empty errors array: *APIError with GraphQL set, first message only
func (c *Client) call(
	ctx context.Context,
	query string,
	operationName string,
	variables map[string]any,
	requireAuth bool,
) (_ json.RawMessage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "systm.call."+operationName)
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, operationName)
		}
	}()

	reqBody, err := json.Marshal(graphQLRequest{
		Query:         query,
		Variables:     variables,
		OperationName: operationName,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-Version", c.cfg.AppVersion)
	if c.cfg.InstallID != "" {
		req.Header.Set("X-Install-Id", c.cfg.InstallID)
	}
	if requireAuth {
		token := c.currentToken()
		if token == "" {
			return nil, ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Tracef("systm api call: %s", operationName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &APIError{Message: "api request timed out", Timeout: true}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &APIError{Message: "api request timed out", Timeout: true}
		}
		return nil, &APIError{Message: fmt.Sprintf("http error while calling api: %s", err)}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("read api response: %s", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Message:    fmt.Sprintf("api request failed: %s", string(respBytes)),
			StatusCode: resp.StatusCode,
		}
	}

	trimmed := bytes.TrimSpace(respBytes)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &APIError{Message: "api response was not a JSON object"}
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, &APIError{Message: "api response was not valid JSON"}
	}

	if len(envelope.Errors) > 0 {
		return nil, &APIError{
			Message: "graphql error: " + envelope.Errors[0].Message,
			GraphQL: true,
		}
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return json.RawMessage("{}"), nil
	}
	return envelope.Data, nil
}

// Authenticate exchanges the credentials for a session token. The token is
// held by the client; the rider profile is NOT prefetched here, it is fetched
// on demand so it always reflects the latest server-side state.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	variables := map[string]any{
		"username":       username,
		"password":       password,
		"appInformation": c.appInformation(),
	}

	data, err := c.call(ctx, loginMutation, opLoginUser, variables, false)
	if err != nil {
		return &AuthenticationError{Message: err.Error(), Err: err}
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return &AuthenticationError{Message: fmt.Sprintf("unexpected login response: %s", err), Err: err}
	}

	if !strings.EqualFold(resp.LoginUser.Status, "success") {
		msg := "unknown error"
		if resp.LoginUser.Message != nil && *resp.LoginUser.Message != "" {
			msg = *resp.LoginUser.Message
		}
		return &AuthenticationError{Message: msg}
	}

	c.mu.Lock()
	c.token = resp.LoginUser.Token
	c.mu.Unlock()

	log.Debugf("authenticated with systm api as %s", username)
	return nil
}

// GetCalendar returns the planned workouts between startDate and endDate
// (YYYY-MM-DD), in upstream order.
func (c *Client) GetCalendar(ctx context.Context, startDate, endDate, timeZone string) ([]UserPlanItem, error) {
	if timeZone == "" {
		timeZone = "UTC"
	}
	variables := map[string]any{
		"startDate":   startDate,
		"endDate":     endDate,
		"queryParams": map[string]any{"limit": calendarPageLimit},
		"timezone":    timeZone,
	}

	data, err := c.call(ctx, userPlansRangeQuery, opGetUserPlansRange, variables, true)
	if err != nil {
		return nil, err
	}

	var resp userPlansRangeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal user plans response: %w", err)
	}
	return resp.UserPlan, nil
}

// ScheduleWorkout adds a library workout (by content id) to the calendar and
// returns the agenda id of the new entry.
func (c *Client) ScheduleWorkout(ctx context.Context, contentID, date, timeZone string) (string, error) {
	if timeZone == "" {
		timeZone = "UTC"
	}
	variables := map[string]any{
		"contentId": contentID,
		"date":      date,
		"timeZone":  timeZone,
	}

	data, err := c.call(ctx, addAgendaMutation, opAddAgenda, variables, true)
	if err != nil {
		return "", err
	}

	var resp addAgendaResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("unmarshal add agenda response: %w", err)
	}

	if !strings.EqualFold(resp.AddAgenda.Status, "success") {
		msg := "unknown error"
		if resp.AddAgenda.Message != nil && *resp.AddAgenda.Message != "" {
			msg = *resp.AddAgenda.Message
		}
		return "", &APIError{Message: "failed to schedule workout: " + msg}
	}

	return resp.AddAgenda.AgendaID, nil
}

// RescheduleWorkout moves an existing calendar entry to a new date. The
// agenda id is preserved; only the date changes.
func (c *Client) RescheduleWorkout(ctx context.Context, agendaID, newDate, timeZone string) error {
	if timeZone == "" {
		timeZone = "UTC"
	}
	variables := map[string]any{
		"agendaId": agendaID,
		"date":     newDate,
		"timeZone": timeZone,
	}

	data, err := c.call(ctx, moveAgendaMutation, opMoveAgenda, variables, true)
	if err != nil {
		return err
	}

	var resp moveAgendaResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("unmarshal move agenda response: %w", err)
	}

	// this mutation returns no message field, only the status
	if !strings.EqualFold(resp.MoveAgenda.Status, "success") {
		return &APIError{Message: "failed to reschedule workout"}
	}
	return nil
}

// RemoveWorkout deletes a calendar entry.
func (c *Client) RemoveWorkout(ctx context.Context, agendaID string) error {
	variables := map[string]any{
		"agendaId": agendaID,
	}

	data, err := c.call(ctx, deleteAgendaMutation, opDeleteAgenda, variables, true)
	if err != nil {
		return err
	}

	var resp deleteAgendaResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("unmarshal delete agenda response: %w", err)
	}

	if !strings.EqualFold(resp.DeleteAgenda.Status, "success") {
		return &APIError{Message: "failed to remove workout"}
	}
	return nil
}

// GetWorkoutLibrary fetches the whole catalog, translates channel ids to
// names, and applies the filters client-side. The catalog endpoint accepts
// no filter parameters, so all selectivity happens here, and results are
// never cached.
func (c *Client) GetWorkoutLibrary(ctx context.Context, filters *Filters) ([]LibraryContent, error) {
	variables := map[string]any{
		"locale":         c.cfg.Locale,
		"appInformation": c.appInformation(),
	}

	data, err := c.call(ctx, libraryQuery, opLibrary, variables, true)
	if err != nil {
		return nil, err
	}

	var resp libraryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal library response: %w", err)
	}

	content := resp.Library.Content
	for i := range content {
		if content[i].Channel != nil {
			translated := TranslateChannel(*content[i].Channel)
			content[i].Channel = &translated
		}
	}

	return applyFilters(content, filters), nil
}

// GetCyclingWorkouts is GetWorkoutLibrary with the sport pinned to Cycling,
// plus the optional 4DP focus post-filter (rating >= 4 for the chosen
// energy system).
func (c *Client) GetCyclingWorkouts(ctx context.Context, filters *Filters) ([]LibraryContent, error) {
	cycling := "Cycling"
	cyclingFilters := Filters{Sport: &cycling}
	if filters != nil {
		cyclingFilters = *filters
		cyclingFilters.Sport = &cycling
	}

	content, err := c.GetWorkoutLibrary(ctx, &cyclingFilters)
	if err != nil {
		return nil, err
	}

	if filters != nil && filters.FourDPFocus != nil {
		content = filterFourDPFocus(content, *filters.FourDPFocus)
	}
	return content, nil
}

// GetWorkoutDetails looks up a workout by id. Callers legitimately hold
// either a workout id or a library content id from earlier calls, so a miss
// on the workout id falls back to resolving the content id through the
// library before giving up.
func (c *Client) GetWorkoutDetails(ctx context.Context, workoutID string) (*WorkoutDetails, error) {
	details, err := c.workoutDetailsByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if details != nil {
		return details, nil
	}

	content, err := c.GetWorkoutLibrary(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, item := range content {
		if item.ID == workoutID && item.WorkoutID != nil {
			mapped, err := c.workoutDetailsByID(ctx, *item.WorkoutID)
			if err != nil {
				return nil, err
			}
			if mapped != nil {
				return mapped, nil
			}
			break
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrWorkoutNotFound, workoutID)
}

func (c *Client) workoutDetailsByID(ctx context.Context, workoutID string) (*WorkoutDetails, error) {
	variables := map[string]any{
		"ids": []any{workoutID},
	}

	data, err := c.call(ctx, workoutsQuery, opGetWorkoutCollection, variables, true)
	if err != nil {
		return nil, err
	}

	var resp workoutsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal workouts response: %w", err)
	}
	if len(resp.Workouts) == 0 {
		return nil, nil
	}
	return &resp.Workouts[0], nil
}

// GetCurrentProfile returns the rider 4DP profile, cached for the session
// after the first fetch. The fetch rides on the Impersonate session-refresh
// exchange, which is not a pure read: the upstream may rotate the session
// token, and a returned token replaces the held one. Returns (nil, nil) when
// the upstream has no profile for the account.
func (c *Client) GetCurrentProfile(ctx context.Context) (*RiderProfile, error) {
	c.mu.Lock()
	cached := c.riderProfile
	token := c.token
	c.mu.Unlock()

	if cached != nil {
		return cached, nil
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	variables := map[string]any{
		"appInformation": c.appInformation(),
		"sessionToken":   token,
	}
	data, err := c.call(ctx, impersonateMutation, opImpersonate, variables, false)
	if err != nil {
		return nil, err
	}

	var resp impersonateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal impersonate response: %w", err)
	}
	if resp.ImpersonateUser == nil {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if resp.ImpersonateUser.Token != "" {
		c.token = resp.ImpersonateUser.Token
		log.Debug("session token rotated by impersonate exchange")
	}

	user := resp.ImpersonateUser.User
	if user != nil && user.Profiles != nil && user.Profiles.RiderProfile != nil {
		c.riderProfile = user.Profiles.RiderProfile
	}
	return c.riderProfile, nil
}

// GetLatestTestProfile returns the enhanced profile from the most recent
// fitness test, including derived heart rate zones, or (nil, nil) when no
// test has been ridden.
func (c *Client) GetLatestTestProfile(ctx context.Context) (*EnhancedRiderProfile, error) {
	data, err := c.call(ctx, mostRecentTestQuery, opMostRecentTest, nil, true)
	if err != nil {
		return nil, err
	}

	var resp mostRecentTestResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal most recent test response: %w", err)
	}

	test := resp.MostRecentTest
	if !test.FitnessTestRidden {
		return nil, nil
	}

	lthr := test.LactateThresholdHeartRate
	return &EnhancedRiderProfile{
		RiderProfile: RiderProfile{
			NM:   test.Power5s.Value,
			AC:   test.Power1m.Value,
			MAP:  test.Power5m.Value,
			FTP:  test.Power20m.Value,
			LTHR: &lthr,
		},
		Power5s:                   test.Power5s,
		Power1m:                   test.Power1m,
		Power5m:                   test.Power5m,
		Power20m:                  test.Power20m,
		LactateThresholdHeartRate: test.LactateThresholdHeartRate,
		HeartRateZones:            HeartRateZones(test.LactateThresholdHeartRate),
		RiderType:                 test.RiderType,
		RiderWeakness:             test.RiderWeakness,
		FitnessTestRidden:         test.FitnessTestRidden,
		StartTime:                 test.StartTime,
		EndTime:                   test.EndTime,
	}, nil
}

// GetFitnessTestHistory returns a page of completed Full Frontal / Half
// Monty test activities plus the total count. Pagination parameters go
// upstream verbatim.
func (c *Client) GetFitnessTestHistory(ctx context.Context, page, pageSize int) ([]FitnessTestResult, int, error) {
	variables := map[string]any{
		"workoutIds": []any{FullFrontalWorkoutID, HalfMontyWorkoutID},
		"pageInformation": map[string]any{
			"page":     page,
			"pageSize": pageSize,
		},
	}

	data, err := c.call(ctx, workoutActivitiesQuery, opGetWorkoutActivities, variables, true)
	if err != nil {
		return nil, 0, err
	}

	var resp workoutActivitiesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, 0, fmt.Errorf("unmarshal workout activities response: %w", err)
	}
	return resp.GetWorkoutActivities.Activities, resp.GetWorkoutActivities.Count, nil
}

// GetFitnessTestDetails returns the full data of one test activity,
// including power/cadence/heart-rate time series and the analysis payload.
func (c *Client) GetFitnessTestDetails(ctx context.Context, activityID string) (*FitnessTestDetails, error) {
	variables := map[string]any{
		"activityId": activityID,
	}

	data, err := c.call(ctx, activityQuery, opGetActivity, variables, true)
	if err != nil {
		return nil, err
	}

	var resp activityResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal activity response: %w", err)
	}
	return &resp.Activity, nil
}

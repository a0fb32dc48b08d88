package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Custard69/BurnoutZero/internal/tokens"
	"github.com/Custard69/BurnoutZero/internal/types"
)

const (
	calendarProvider = "google_calendar"

	// DefaultCalendarBaseURL is the Google Calendar v3 API root.
	DefaultCalendarBaseURL = "https://www.googleapis.com/calendar/v3"

	// signalWindow is the trailing lookback for both passive signals.
	signalWindow = 7 * 24 * time.Hour
)

// EventSink receives successfully fetched calendar events for mirroring into
// the per-user event log. Mirroring is best-effort display cache maintenance,
// not a scoring dependency.
type EventSink interface {
	MirrorCalendarEvents(ctx context.Context, userID string, events []types.CalendarEvent) error
}

// CalendarAdapter fetches calendar events from the Google Calendar API and
// reduces them to the meeting-count signal.
type CalendarAdapter struct {
	baseURL string
	tokens  tokens.Provider
	sink    EventSink
	client  *http.Client
}

// NewCalendarAdapter creates a calendar adapter. sink may be nil to disable
// event mirroring.
func NewCalendarAdapter(baseURL string, provider tokens.Provider, sink EventSink) *CalendarAdapter {
	if baseURL == "" {
		baseURL = DefaultCalendarBaseURL
	}
	return &CalendarAdapter{
		baseURL: baseURL,
		tokens:  provider,
		sink:    sink,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// MeetingCount returns the number of calendar events in the trailing seven
// days. On any failure (no linked account, unrefreshable credential, network
// or API error) it returns zero so the scoring pipeline stays available.
func (a *CalendarAdapter) MeetingCount(ctx context.Context, userID string) float64 {
	events, err := a.FetchEvents(ctx, userID)
	if err != nil {
		slog.Info("Calendar signal unavailable, defaulting meeting count to 0",
			"user_id", userID, "error", err)
		return 0
	}

	if a.sink != nil && len(events) > 0 {
		if err := a.sink.MirrorCalendarEvents(ctx, userID, events); err != nil {
			slog.Warn("Failed to mirror calendar events", "user_id", userID, "error", err)
		}
	}

	return float64(len(events))
}

// calendarEventList is the wire shape of the events list response.
type calendarEventList struct {
	Items []struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
		Start   struct {
			DateTime string `json:"dateTime"`
			Date     string `json:"date"`
		} `json:"start"`
		End struct {
			DateTime string `json:"dateTime"`
			Date     string `json:"date"`
		} `json:"end"`
	} `json:"items"`
}

// FetchEvents lists the user's primary-calendar events in [now-7d, now].
func (a *CalendarAdapter) FetchEvents(ctx context.Context, userID string) ([]types.CalendarEvent, error) {
	token, err := a.tokens.AccessToken(ctx, userID, calendarProvider)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	params := url.Values{
		"timeMin":      {now.Add(-signalWindow).Format(time.RFC3339)},
		"timeMax":      {now.Format(time.RFC3339)},
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
	}
	endpoint := fmt.Sprintf("%s/calendars/primary/events?%s", a.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("calendar API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var list calendarEventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode calendar events: %w", err)
	}

	events := make([]types.CalendarEvent, 0, len(list.Items))
	for _, item := range list.Items {
		events = append(events, types.CalendarEvent{
			UserID:  userID,
			EventID: item.ID,
			Summary: item.Summary,
			Start:   parseEventTime(item.Start.DateTime, item.Start.Date),
			End:     parseEventTime(item.End.DateTime, item.End.Date),
		})
	}
	return events, nil
}

// parseEventTime handles both timed (dateTime) and all-day (date) events.
func parseEventTime(dateTime, date string) time.Time {
	if dateTime != "" {
		if t, err := time.Parse(time.RFC3339, dateTime); err == nil {
			return t
		}
	}
	if date != "" {
		if t, err := time.Parse("2006-01-02", date); err == nil {
			return t
		}
	}
	return time.Time{}
}

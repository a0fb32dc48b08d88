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
)

const (
	rescueTimeProvider = "rescuetime"

	// DefaultRescueTimeBaseURL is the RescueTime Analytic Data API root.
	DefaultRescueTimeBaseURL = "https://www.rescuetime.com/anapi"
)

// RescueTimeAdapter fetches tracked productive time from the RescueTime
// Analytic Data API. The credential is a per-user API key held by the token
// provider.
type RescueTimeAdapter struct {
	baseURL string
	tokens  tokens.Provider
	client  *http.Client
}

// NewRescueTimeAdapter creates a screen-time adapter.
func NewRescueTimeAdapter(baseURL string, provider tokens.Provider) *RescueTimeAdapter {
	if baseURL == "" {
		baseURL = DefaultRescueTimeBaseURL
	}
	return &RescueTimeAdapter{
		baseURL: baseURL,
		tokens:  provider,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ScreenTimeHours returns hours of tracked time over the trailing seven days,
// zero on any failure so the scoring pipeline stays available.
func (a *RescueTimeAdapter) ScreenTimeHours(ctx context.Context, userID string) float64 {
	hours, err := a.fetchHours(ctx, userID)
	if err != nil {
		slog.Info("Screen-time signal unavailable, defaulting to 0",
			"user_id", userID, "error", err)
		return 0
	}
	return hours
}

// analyticData is the wire shape of the analytic data response. Rows are
// positional arrays mixing dates and numbers; with perspective=interval the
// time-spent column (seconds) is at index 1.
type analyticData struct {
	Rows [][]interface{} `json:"rows"`
}

const timeSpentColumn = 1

func (a *RescueTimeAdapter) fetchHours(ctx context.Context, userID string) (float64, error) {
	key, err := a.tokens.AccessToken(ctx, userID, rescueTimeProvider)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	params := url.Values{
		"key":             {key},
		"format":          {"json"},
		"perspective":     {"interval"},
		"resolution_time": {"day"},
		"restrict_begin":  {now.AddDate(0, 0, -7).Format("2006-01-02")},
		"restrict_end":    {now.Format("2006-01-02")},
	}
	endpoint := fmt.Sprintf("%s/data?%s", a.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rescuetime request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rescuetime data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("rescuetime API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var data analyticData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode rescuetime data: %w", err)
	}

	totalSeconds := 0.0
	for _, row := range data.Rows {
		if len(row) <= timeSpentColumn {
			continue
		}
		if v, ok := row[timeSpentColumn].(float64); ok {
			totalSeconds += v
		}
	}

	return totalSeconds / 3600.0, nil
}

package features

import (
	"context"
	"strings"

	"github.com/Custard69/BurnoutZero/internal/errors"
	"github.com/Custard69/BurnoutZero/internal/types"
)

// HistorySource returns a user's most recent check-ins, newest first. The
// assembler only ever asks for the last seven.
type HistorySource interface {
	RecentCheckins(ctx context.Context, userID string, limit int64) ([]types.CheckinRecord, error)
}

// MeetingSource reports the number of calendar events in the trailing seven
// days. Implementations must return zero on any upstream failure.
type MeetingSource interface {
	MeetingCount(ctx context.Context, userID string) float64
}

// ScreenTimeSource reports hours of tracked productive time in the trailing
// seven days, zero on any upstream failure.
type ScreenTimeSource interface {
	ScreenTimeHours(ctx context.Context, userID string) float64
}

// Assembler builds the fixed-order feature vector from the current
// submission, the user's rolling history and the passive external signals.
type Assembler struct {
	history  HistorySource
	meetings MeetingSource
	screen   ScreenTimeSource
}

// NewAssembler creates an assembler over the given sources.
func NewAssembler(history HistorySource, meetings MeetingSource, screen ScreenTimeSource) *Assembler {
	return &Assembler{
		history:  history,
		meetings: meetings,
		screen:   screen,
	}
}

// Assemble produces a fully populated feature vector for the request.
//
// Current-day scalars come straight from the request. Rolling means come from
// the last seven stored check-ins (excluding this submission), falling back to
// today's values when no history exists. The two passive signals come from
// the external fetchers unless the request overrides them. had_meeting_today
// is self-reported when the request supplies it, otherwise derived from the
// calendar signal (at least one event in the window).
func (a *Assembler) Assemble(ctx context.Context, req types.CheckinRequest) (Vector, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, errors.NewValidationError("user_id is required")
	}

	v := Vector{
		FeatMood:      float64(req.Mood),
		FeatStress:    float64(req.Stress),
		FeatSleep:     float64(req.Sleep),
		FeatWorkHours: req.WorkHours,
	}

	// An overridden count also stands in for the calendar signal when the
	// meeting flag has to be derived below.
	var meetingCount float64
	if req.MeetingCountLast7d != nil {
		meetingCount = *req.MeetingCountLast7d
	} else {
		meetingCount = a.meetings.MeetingCount(ctx, req.UserID)
	}
	v[FeatMeetingCountLast7d] = meetingCount

	v[FeatHadMeetingToday] = 0
	if req.HadMeetingToday != nil {
		if *req.HadMeetingToday {
			v[FeatHadMeetingToday] = 1
		}
	} else if meetingCount >= 1 {
		v[FeatHadMeetingToday] = 1
	}

	if req.ScreenTimeLast7d != nil {
		v[FeatScreenTimeLast7d] = *req.ScreenTimeLast7d
	} else {
		v[FeatScreenTimeLast7d] = a.screen.ScreenTimeHours(ctx, req.UserID)
	}

	means, err := a.rollingMeans(ctx, req)
	if err != nil {
		return nil, err
	}
	v[FeatMeanMoodLast7d] = means.Mood
	v[FeatMeanStressLast7d] = means.Stress
	v[FeatMeanSleepLast7d] = means.Sleep
	v[FeatMeanWorkHoursLast7d] = means.WorkHours

	return v, nil
}

func (a *Assembler) rollingMeans(ctx context.Context, req types.CheckinRequest) (Rolling, error) {
	today := Rolling{
		Mood:      float64(req.Mood),
		Stress:    float64(req.Stress),
		Sleep:     float64(req.Sleep),
		WorkHours: req.WorkHours,
	}

	// A full set of overrides skips the history read entirely.
	if req.MeanMoodLast7d != nil && req.MeanStressLast7d != nil &&
		req.MeanSleepLast7d != nil && req.MeanWorkHoursLast7d != nil {
		return Rolling{
			Mood:      *req.MeanMoodLast7d,
			Stress:    *req.MeanStressLast7d,
			Sleep:     *req.MeanSleepLast7d,
			WorkHours: *req.MeanWorkHoursLast7d,
		}, nil
	}

	history, err := a.history.RecentCheckins(ctx, req.UserID, maxHistory)
	if err != nil {
		return Rolling{}, err
	}
	means := RollingMeans(history, today)

	if req.MeanMoodLast7d != nil {
		means.Mood = *req.MeanMoodLast7d
	}
	if req.MeanStressLast7d != nil {
		means.Stress = *req.MeanStressLast7d
	}
	if req.MeanSleepLast7d != nil {
		means.Sleep = *req.MeanSleepLast7d
	}
	if req.MeanWorkHoursLast7d != nil {
		means.WorkHours = *req.MeanWorkHoursLast7d
	}
	return means, nil
}

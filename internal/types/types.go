package types

import "time"

// CheckinRequest is the payload accepted by the ingestion and scoring
// endpoints. UserID is the only required field; absent numeric fields are
// treated as zero and absent booleans as false. Pointer fields distinguish
// "not supplied" from an explicit zero so the pipeline can decide whether to
// derive the value itself.
type CheckinRequest struct {
	UserID    string  `json:"user_id" binding:"required"`
	Mood      int     `json:"mood"`
	Stress    int     `json:"stress"`
	Sleep     int     `json:"sleep"`
	WorkHours float64 `json:"work_hours_today"`

	// Self-reported meeting flag. When nil the flag is derived from the
	// calendar signal instead.
	HadMeetingToday *bool `json:"had_meeting_today,omitempty"`

	// Passive and rolling overrides. When supplied these take the place of
	// the external fetchers / history aggregates.
	MeetingCountLast7d  *float64 `json:"meeting_count_last_7d,omitempty"`
	ScreenTimeLast7d    *float64 `json:"screen_time_last_7d,omitempty"`
	MeanMoodLast7d      *float64 `json:"mean_mood_last_7d,omitempty"`
	MeanStressLast7d    *float64 `json:"mean_stress_last_7d,omitempty"`
	MeanSleepLast7d     *float64 `json:"mean_sleep_last_7d,omitempty"`
	MeanWorkHoursLast7d *float64 `json:"mean_work_hours_last_7d,omitempty"`
}

// PredictRequest mirrors the scoring endpoint's wire shape: an identity plus
// a loose feature map. Features absent from the map are filled in from
// history and the external fetchers, then default to zero.
type PredictRequest struct {
	UserID   string             `json:"user_id" binding:"required"`
	Features map[string]float64 `json:"features"`
}

// CheckinRecord is the persisted document: the check-in fields, the assembled
// feature vector, the class distribution and the reduced risk score. Records
// are append-only; the timestamp is assigned server-side at write time.
type CheckinRecord struct {
	ID              string             `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	Mood            int                `bson:"mood" json:"mood"`
	Stress          int                `bson:"stress" json:"stress"`
	Sleep           int                `bson:"sleep" json:"sleep"`
	WorkHours       float64            `bson:"work_hours" json:"work_hours"`
	HadMeetingToday bool               `bson:"had_meeting_today" json:"had_meeting_today"`
	Features        map[string]float64 `bson:"features" json:"features"`
	ClassProbs      []float64          `bson:"class_probs" json:"predicted_class_probs"`
	RiskScore       float64            `bson:"risk_score" json:"burnout_probability"`
	Timestamp       time.Time          `bson:"timestamp" json:"timestamp"`
}

// CalendarEvent is one mirrored calendar entry kept per user for later
// display. The mirror is an auxiliary cache, not a scoring dependency.
type CalendarEvent struct {
	ID      string    `bson:"_id,omitempty" json:"id"`
	UserID  string    `bson:"user_id" json:"user_id"`
	EventID string    `bson:"event_id" json:"event_id"`
	Summary string    `bson:"summary" json:"summary"`
	Start   time.Time `bson:"start" json:"start"`
	End     time.Time `bson:"end" json:"end"`
}

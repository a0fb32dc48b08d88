package features

// Feature names, in the exact order the classifier was trained with. The
// scaler and classifier artifacts carry their own copy of this list and the
// loader rejects any artifact whose order disagrees.
const (
	FeatMood                = "mood"
	FeatStress              = "stress"
	FeatSleep               = "sleep"
	FeatWorkHours           = "work_hours"
	FeatHadMeetingToday     = "had_meeting_today"
	FeatMeetingCountLast7d  = "meeting_count_last_7d"
	FeatScreenTimeLast7d    = "screen_time_last_7d"
	FeatMeanMoodLast7d      = "mean_mood_last_7d"
	FeatMeanStressLast7d    = "mean_stress_last_7d"
	FeatMeanSleepLast7d     = "mean_sleep_last_7d"
	FeatMeanWorkHoursLast7d = "mean_work_hours_last_7d"
)

// Order is the canonical feature order.
var Order = []string{
	FeatMood,
	FeatStress,
	FeatSleep,
	FeatWorkHours,
	FeatHadMeetingToday,
	FeatMeetingCountLast7d,
	FeatScreenTimeLast7d,
	FeatMeanMoodLast7d,
	FeatMeanStressLast7d,
	FeatMeanSleepLast7d,
	FeatMeanWorkHoursLast7d,
}

// Vector is a named feature mapping. Keys missing from the map read as zero.
type Vector map[string]float64

// Values returns the vector flattened into the canonical feature order.
func (v Vector) Values() []float64 {
	out := make([]float64, len(Order))
	for i, name := range Order {
		out[i] = v[name]
	}
	return out
}

package features

import "github.com/Custard69/BurnoutZero/internal/types"

// Rolling holds the four 7-day rolling means.
type Rolling struct {
	Mood      float64
	Stress    float64
	Sleep     float64
	WorkHours float64
}

// maxHistory bounds how many past check-ins feed the rolling means.
const maxHistory = 7

// RollingMeans computes the rolling means over the user's most recent
// check-ins, bounded to the last seven records. The in-flight submission must
// not be part of history. With no history at all, each mean falls back to
// today's own value for that field rather than zero, so a first-time user's
// score is not biased toward an artificial extreme.
func RollingMeans(history []types.CheckinRecord, today Rolling) Rolling {
	if len(history) == 0 {
		return today
	}
	if len(history) > maxHistory {
		history = history[:maxHistory]
	}

	var agg Rolling
	for _, rec := range history {
		agg.Mood += float64(rec.Mood)
		agg.Stress += float64(rec.Stress)
		agg.Sleep += float64(rec.Sleep)
		agg.WorkHours += rec.WorkHours
	}

	n := float64(len(history))
	agg.Mood /= n
	agg.Stress /= n
	agg.Sleep /= n
	agg.WorkHours /= n
	return agg
}

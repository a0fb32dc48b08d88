package pipeline

import (
	"context"
	"log/slog"

	"github.com/Custard69/BurnoutZero/internal/features"
	"github.com/Custard69/BurnoutZero/internal/model"
	"github.com/Custard69/BurnoutZero/internal/types"
)

// CheckinStore is the persistence surface the pipeline needs.
type CheckinStore interface {
	features.HistorySource
	InsertCheckin(ctx context.Context, rec *types.CheckinRecord) error
}

// Pipeline runs one check-in end to end: assemble the feature vector, score
// it, persist the record. External-signal failures degrade to defaults inside
// the assembler; scoring and persistence failures abort the request with
// nothing written.
type Pipeline struct {
	store     CheckinStore
	assembler *features.Assembler
	scorer    *model.Scorer
}

// New creates a scoring pipeline.
func New(store CheckinStore, assembler *features.Assembler, scorer *model.Scorer) *Pipeline {
	return &Pipeline{
		store:     store,
		assembler: assembler,
		scorer:    scorer,
	}
}

// Process scores and persists one check-in, returning the stored record.
func (p *Pipeline) Process(ctx context.Context, req types.CheckinRequest) (*types.CheckinRecord, error) {
	vector, err := p.assembler.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}

	probs, risk, err := p.scorer.Score(vector)
	if err != nil {
		return nil, err
	}

	rec := &types.CheckinRecord{
		UserID:          req.UserID,
		Mood:            req.Mood,
		Stress:          req.Stress,
		Sleep:           req.Sleep,
		WorkHours:       req.WorkHours,
		HadMeetingToday: vector[features.FeatHadMeetingToday] >= 1,
		Features:        vector,
		ClassProbs:      probs[:],
		RiskScore:       risk,
	}

	if err := p.store.InsertCheckin(ctx, rec); err != nil {
		return nil, err
	}

	slog.Info("Check-in scored",
		"user_id", req.UserID,
		"risk_score", risk,
		"p_low", probs[0],
		"p_medium", probs[1],
		"p_high", probs[2],
	)

	return rec, nil
}

// ProcessPredict handles the scoring endpoint's loose feature-map shape by
// translating it into a check-in request and running the same pipeline.
// Features absent from the map are derived from history and the external
// fetchers like any other check-in.
func (p *Pipeline) ProcessPredict(ctx context.Context, req types.PredictRequest) (*types.CheckinRecord, error) {
	return p.Process(ctx, predictToCheckin(req))
}

func predictToCheckin(req types.PredictRequest) types.CheckinRequest {
	out := types.CheckinRequest{UserID: req.UserID}
	f := req.Features
	if f == nil {
		return out
	}

	out.Mood = int(f[features.FeatMood])
	out.Stress = int(f[features.FeatStress])
	out.Sleep = int(f[features.FeatSleep])
	out.WorkHours = f[features.FeatWorkHours]

	if v, ok := f[features.FeatHadMeetingToday]; ok {
		had := v >= 1
		out.HadMeetingToday = &had
	}
	if v, ok := f[features.FeatMeetingCountLast7d]; ok {
		out.MeetingCountLast7d = &v
	}
	if v, ok := f[features.FeatScreenTimeLast7d]; ok {
		out.ScreenTimeLast7d = &v
	}
	if v, ok := f[features.FeatMeanMoodLast7d]; ok {
		out.MeanMoodLast7d = &v
	}
	if v, ok := f[features.FeatMeanStressLast7d]; ok {
		out.MeanStressLast7d = &v
	}
	if v, ok := f[features.FeatMeanSleepLast7d]; ok {
		out.MeanSleepLast7d = &v
	}
	if v, ok := f[features.FeatMeanWorkHoursLast7d]; ok {
		out.MeanWorkHoursLast7d = &v
	}
	return out
}

// Package dashboard builds the read-only dashboard view from the stored
// analysis snapshot.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"slices"

	"carbonwise/internal"
)

const (
	EmptyPrompt = "Upload bills or log activities, then run an analysis to see your dashboard."
	PromptLink  = "/upload"
)

type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*internal.AnalysisSnapshot, error)
}

type View struct {
	Empty      bool   `json:"empty"`
	Prompt     string `json:"prompt,omitempty"`
	PromptLink string `json:"promptLink,omitempty"`

	Period          Period                    `json:"period"`
	Level           string                    `json:"level,omitempty"`
	StreakDays      int                       `json:"streakDays,omitempty"`
	EcoScore        float64                   `json:"ecoScore,omitempty"`
	Total           float64                   `json:"total"`
	Target          float64                   `json:"target"`
	UnderTarget     bool                      `json:"underTarget"`
	TargetProgress  float64                   `json:"targetProgress"`
	DisplayProgress float64                   `json:"displayProgress"`
	Delta           float64                   `json:"delta"`
	Categories      []internal.CarbonCategory `json:"categories,omitempty"`
	WeeklyData      []internal.WeeklyPoint    `json:"weeklyData,omitempty"`
	Suggestions     []internal.Suggestion     `json:"suggestions,omitempty"`
	Goals           []internal.Goal           `json:"goals,omitempty"`
	Achievements    []Achievement             `json:"achievements,omitempty"`
	Recent          []RecentActivity          `json:"recentActivities,omitempty"`

	SnapshotTimestamp string `json:"snapshotTimestamp,omitempty"`
	FileCount         int    `json:"fileCount"`
	ActivityCount     int    `json:"activityCount"`
}

type Presenter struct {
	store SnapshotLoader
}

func NewPresenter(store SnapshotLoader) *Presenter {
	return &Presenter{store: store}
}

func (p *Presenter) Load(ctx context.Context, period Period) (View, error) {
	ds, ok := datasets[period]
	if !ok {
		return View{}, fmt.Errorf("unknown period %q", period)
	}

	snap, err := p.store.LoadSnapshot(ctx)
	if err != nil {
		return View{}, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return View{Empty: true, Prompt: EmptyPrompt, PromptLink: PromptLink, Period: period}, nil
	}

	total := 0.0
	for _, c := range ds.categories {
		total += c.Value
	}
	total = math.Round(total*10) / 10
	progress := total / ds.target * 100

	return View{
		Period:            period,
		Level:             demoLevel,
		StreakDays:        demoStreakDays,
		EcoScore:          demoEcoScore,
		Total:             total,
		Target:            ds.target,
		UnderTarget:       total <= ds.target,
		TargetProgress:    progress,
		DisplayProgress:   math.Min(progress, 100),
		Delta:             math.Round((total-ds.target)*10) / 10,
		Categories:        slices.Clone(ds.categories),
		WeeklyData:        slices.Clone(weeklySeries),
		Suggestions:       slices.Clone(demoSuggestions),
		Goals:             slices.Clone(demoGoals),
		Achievements:      slices.Clone(demoAchievements),
		Recent:            slices.Clone(demoRecent),
		SnapshotTimestamp: snap.Timestamp,
		FileCount:         len(snap.Files),
		ActivityCount:     len(snap.Activities),
	}, nil
}

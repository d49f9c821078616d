package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type UploadStatus string

const (
	StatusUploading  UploadStatus = "uploading"
	StatusProcessing UploadStatus = "processing"
	StatusCompleted  UploadStatus = "completed"
	StatusError      UploadStatus = "error"
)

func (s UploadStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// CanTransition reports whether a file may move from s to next.
// Staying in the same status is allowed so progress ticks can be applied.
func (s UploadStatus) CanTransition(next UploadStatus) bool {
	if s == next {
		return !s.Terminal()
	}
	switch s {
	case StatusUploading:
		return next == StatusProcessing || next == StatusError
	case StatusProcessing:
		return next == StatusCompleted || next == StatusError
	default:
		return false
	}
}

type Category string

const (
	CategoryTransport Category = "transport"
	CategoryEnergy    Category = "energy"
	CategoryFood      Category = "food"
	CategoryShopping  Category = "shopping"
)

var Categories = []Category{CategoryTransport, CategoryEnergy, CategoryFood, CategoryShopping}

func ParseCategory(v string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type FileRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

type ExtractedData struct {
	Type            Category `json:"type"`
	Amount          float64  `json:"amount"`
	Period          string   `json:"period"`
	CarbonEmissions float64  `json:"carbonEmissions"`
}

type UploadedFile struct {
	ID            string         `json:"id"`
	File          FileRef        `json:"file"`
	Status        UploadStatus   `json:"status"`
	Progress      int            `json:"progress"`
	ExtractedData *ExtractedData `json:"extractedData,omitempty"`
	Error         string         `json:"error,omitempty"`
}

type ManualActivity struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Unit        string `json:"unit"`
}

// Valid reports whether the activity is kept when a snapshot is taken.
func (a ManualActivity) Valid() bool {
	return a.Type != "" && a.Value != ""
}

type AnalysisSnapshot struct {
	Files      []UploadedFile   `json:"files"`
	Activities []ManualActivity `json:"activities"`
	Timestamp  string           `json:"timestamp"`
}

var ErrInvalidSnapshot = errors.New("invalid snapshot")

func (s AnalysisSnapshot) Validate() error {
	for _, f := range s.Files {
		if strings.TrimSpace(f.ID) == "" {
			return fmt.Errorf("%w: file without id", ErrInvalidSnapshot)
		}
		if f.Status != StatusCompleted {
			return fmt.Errorf("%w: file %s has status %q", ErrInvalidSnapshot, f.ID, f.Status)
		}
		if f.ExtractedData == nil {
			return fmt.Errorf("%w: file %s has no extracted data", ErrInvalidSnapshot, f.ID)
		}
		if f.ExtractedData.Type != CategoryEnergy && f.ExtractedData.Type != CategoryTransport {
			return fmt.Errorf("%w: file %s has category %q", ErrInvalidSnapshot, f.ID, f.ExtractedData.Type)
		}
	}
	for i, a := range s.Activities {
		if !a.Valid() {
			return fmt.Errorf("%w: activity %d is incomplete", ErrInvalidSnapshot, i)
		}
		if _, ok := ParseCategory(a.Type); !ok {
			return fmt.Errorf("%w: activity %d has type %q", ErrInvalidSnapshot, i, a.Type)
		}
	}
	if _, err := time.Parse(time.RFC3339, s.Timestamp); err != nil {
		return fmt.Errorf("%w: timestamp %q", ErrInvalidSnapshot, s.Timestamp)
	}
	return nil
}

func (s AnalysisSnapshot) CreatedAt() time.Time {
	t, _ := time.Parse(time.RFC3339, s.Timestamp)
	return t
}

type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
)

type CarbonCategory struct {
	Name       string         `json:"name"`
	Value      float64        `json:"value"`
	Percentage float64        `json:"percentage"`
	Trend      TrendDirection `json:"trend"`
	TrendValue float64        `json:"trendValue"`
}

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPending   GoalStatus = "pending"
)

type Goal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Target      float64    `json:"target"`
	Current     float64    `json:"current"`
	Unit        string     `json:"unit"`
	Deadline    string     `json:"deadline"`
	Status      GoalStatus `json:"status"`
	Badge       string     `json:"badge,omitempty"`
}

func (g Goal) Percent() float64 {
	if g.Target == 0 {
		return 0
	}
	return g.Current / g.Target * 100
}

type SuggestionKind string

const (
	SuggestionTip         SuggestionKind = "tip"
	SuggestionAlert       SuggestionKind = "alert"
	SuggestionAchievement SuggestionKind = "achievement"
)

type Suggestion struct {
	Type             SuggestionKind `json:"type"`
	Category         string         `json:"category,omitempty"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Recommendation   string         `json:"recommendation"`
	PotentialSavings float64        `json:"potentialSavings,omitempty"`
}

type WeeklyPoint struct {
	Week      string  `json:"week"`
	Emissions float64 `json:"emissions"`
	Target    float64 `json:"target"`
}

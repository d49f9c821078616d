package upload

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"carbonwise/internal"
)

// Extractor produces the data attached to a file once processing is done.
type Extractor interface {
	Extract(ctx context.Context, file internal.FileRef) (internal.ExtractedData, error)
}

type ExtractorFunc func(ctx context.Context, file internal.FileRef) (internal.ExtractedData, error)

func (f ExtractorFunc) Extract(ctx context.Context, file internal.FileRef) (internal.ExtractedData, error) {
	return f(ctx, file)
}

// MockExtractor never reads file content. It guesses the category from the
// name and draws the numbers at random.
type MockExtractor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockExtractor(seed int64) *MockExtractor {
	return &MockExtractor{rng: rand.New(rand.NewSource(seed))}
}

func (m *MockExtractor) Extract(_ context.Context, file internal.FileRef) (internal.ExtractedData, error) {
	m.mu.Lock()
	amount := m.rng.Intn(500) + 100
	emissions := m.rng.Intn(50) + 10
	m.mu.Unlock()

	return internal.ExtractedData{
		Type:            CategoryForName(file.Name),
		Amount:          float64(amount),
		Period:          "monthly",
		CarbonEmissions: float64(emissions),
	}, nil
}

func CategoryForName(name string) internal.Category {
	if strings.Contains(name, "electricity") {
		return internal.CategoryEnergy
	}
	return internal.CategoryTransport
}

// FixedExtractor returns the same record for every file, keeping the
// name-based category.
type FixedExtractor struct {
	Amount          float64
	Period          string
	CarbonEmissions float64
}

func (f FixedExtractor) Extract(_ context.Context, file internal.FileRef) (internal.ExtractedData, error) {
	return internal.ExtractedData{
		Type:            CategoryForName(file.Name),
		Amount:          f.Amount,
		Period:          f.Period,
		CarbonEmissions: f.CarbonEmissions,
	}, nil
}

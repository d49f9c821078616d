package estimate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateKnownModes(t *testing.T) {
	distances := []float64{0, 1, 7.5, 42, 1000}
	for _, info := range Modes() {
		for _, d := range distances {
			assert.InDelta(t, d*info.Factor, Estimate(d, info.Mode), 1e-9, "mode=%s d=%v", info.Mode, d)
		}
	}
	assert.InDelta(t, 2.0, Estimate(10, ModeCar), 1e-9)
	assert.InDelta(t, 0.4, Estimate(10, ModeTrain), 1e-9)
}

func TestEstimateUnknownMode(t *testing.T) {
	assert.Zero(t, Estimate(100, "rocket"))
	assert.Zero(t, Estimate(100, ""))
}

func TestEstimateNegativeDistance(t *testing.T) {
	assert.Zero(t, Estimate(-5, ModeCar))
}

func TestEstimateText(t *testing.T) {
	assert.Zero(t, EstimateText("", "car"))
	assert.Zero(t, EstimateText("abc", "car"))
	assert.Zero(t, EstimateText("12", ""))
	assert.InDelta(t, 0.6, EstimateText("12", "bus"), 1e-9)
	assert.InDelta(t, 2.5, EstimateText("12,5", "CAR"), 1e-9)
	assert.Zero(t, EstimateText("-5", "car"))
	assert.InDelta(t, 200, EstimateText("1e3", "car"), 1e-9)
	assert.Zero(t, EstimateText("10 to 20", "car"))
}

func TestModesIsACopy(t *testing.T) {
	m := Modes()
	m[0].Factor = math.Inf(1)
	f, _ := Factor(ModeCar)
	assert.Equal(t, 0.2, f)
}

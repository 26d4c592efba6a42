package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workforce-planning-api/internal/simulation"
)

func TestPromotionProbabilityBucketFloor(t *testing.T) {
	curve := simulation.Curve{0: 0.0, 6: 0.1, 12: 0.3}

	// Стаж 8 попадает в бакет CAT6, без интерполяции
	require.InDelta(t, 0.1, simulation.PromotionProbability(curve, 8, 1), 1e-9)
	require.InDelta(t, 0.0, simulation.PromotionProbability(curve, 5, 1), 1e-9)
	require.InDelta(t, 0.3, simulation.PromotionProbability(curve, 12, 1), 1e-9)
	// Выше последнего бакета используется последний определённый
	require.InDelta(t, 0.3, simulation.PromotionProbability(curve, 40, 1), 1e-9)
}

func TestPromotionProbabilitySparseCurve(t *testing.T) {
	curve := simulation.Curve{12: 0.25}

	// Ниже первого определённого бакета вероятности нет
	require.Zero(t, simulation.PromotionProbability(curve, 8, 1))
	require.InDelta(t, 0.25, simulation.PromotionProbability(curve, 14, 1), 1e-9)
}

func TestPromotionProbabilityClamp(t *testing.T) {
	curve := simulation.Curve{0: 0.9}

	require.Equal(t, 1.0, simulation.PromotionProbability(curve, 0, 2.0))
	require.Equal(t, 0.0, simulation.PromotionProbability(curve, 0, 0))
	require.InDelta(t, 0.45, simulation.PromotionProbability(curve, 3, 0.5), 1e-9)

	// Любой неотрицательный множитель держит вероятность в [0, 1]
	for _, mult := range []float64{0, 0.01, 1, 1.5, 10, 1000} {
		p := simulation.PromotionProbability(curve, 7, mult)
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
	}
}

func TestPromotionProbabilityEmptyCurve(t *testing.T) {
	require.Zero(t, simulation.PromotionProbability(nil, 12, 1))
	require.Zero(t, simulation.PromotionProbability(simulation.Curve{}, 12, 1))
	require.Zero(t, simulation.PromotionProbability(simulation.Curve{0: 0.5}, -1, 1))
}

func TestEligibleMonth(t *testing.T) {
	cfg := simulation.LevelConfig{EligibleMonths: []int{1, 4, 7, 10}}

	require.True(t, simulation.EligibleMonth(cfg, 1))
	require.True(t, simulation.EligibleMonth(cfg, 7))
	require.False(t, simulation.EligibleMonth(cfg, 2))
	require.False(t, simulation.EligibleMonth(simulation.LevelConfig{}, 1))
}

func TestTerminalLevel(t *testing.T) {
	require.True(t, simulation.Terminal(simulation.LevelConfig{}))
	require.False(t, simulation.Terminal(simulation.LevelConfig{NextLevel: "senior"}))
}

package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/config"
)

func soakConfig(swaps int) config.Match3Config {
	cfg := config.DefaultMatch3Config()
	cfg.Board.Rows = 6
	cfg.Board.Columns = 6
	cfg.Board.TotalColors = 4
	cfg.Simulation.Swaps = swaps
	cfg.Simulation.Interval = 10 * time.Millisecond
	return cfg
}

func TestRunSoak(t *testing.T) {
	report, err := runSoak(context.Background(), soakOptions{Config: soakConfig(150), Seed: 3})
	require.NoError(t, err)

	s := report.Stats
	assert.Equal(t, 150, s.Requested)
	assert.Equal(t, 150, s.Ticks)
	assert.Equal(t, s.Ticks, s.Accepted+s.RejectedTotal()+s.Skipped)
	assert.Positive(t, s.Accepted)
	assert.Zero(t, s.Unstable)
	assert.False(t, s.Stopped)
	assert.Empty(t, report.Violations)
	assert.Equal(t, 6, report.Board.Rows)
	assert.GreaterOrEqual(t, report.Elapsed, 150*10*time.Millisecond)
}

func TestRunSoakDeterministic(t *testing.T) {
	a, err := runSoak(context.Background(), soakOptions{Config: soakConfig(80), Seed: 11})
	require.NoError(t, err)
	b, err := runSoak(context.Background(), soakOptions{Config: soakConfig(80), Seed: 11})
	require.NoError(t, err)

	if diff := cmp.Diff(a.Stats, b.Stats); diff != "" {
		t.Errorf("stats differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, a.Final, b.Final)
}

func TestRunSoakCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runSoak(ctx, soakOptions{Config: soakConfig(500), Seed: 1})
	require.NoError(t, err)
	assert.True(t, report.Stats.Stopped)
	assert.Less(t, report.Stats.Ticks, 500)
}

func TestRunSoakLayout(t *testing.T) {
	cfg := soakConfig(30)
	cfg.Layout.File = "opening"

	report, err := runSoak(context.Background(), soakOptions{Config: cfg, Seed: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, report.Board.Rows)
	assert.Equal(t, 5, report.Board.Columns)
	assert.Empty(t, report.Violations)

	cfg.Layout.File = "does-not-exist.yaml"
	_, err = runSoak(context.Background(), soakOptions{Config: cfg, Seed: 2})
	assert.Error(t, err)
}

func TestRunSoakZeroSwaps(t *testing.T) {
	report, err := runSoak(context.Background(), soakOptions{Config: soakConfig(0), Seed: 5})
	require.NoError(t, err)
	assert.Zero(t, report.Stats.Ticks)
	assert.Zero(t, report.Elapsed)
}

package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/JonMunkholm/consumo/internal/config"
	"github.com/JonMunkholm/consumo/internal/logging"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{MaxConcurrent: 2, MaxWaitTime: 100 * time.Millisecond},
		Matching: config.MatchingConfig{
			Threshold:           85,
			SalesItemColumn:     "item name",
			SalesQuantityColumn: "units sold",
		},
	}
}

func scenarioInputs() Inputs {
	return Inputs{
		Recipes: recipeTable(
			recipeRow("***", "Roll A", "", ""),
			recipeRow("", "rice", "kg", "0.1"),
			recipeRow("", "nori", "unit", "1"),
		),
		Promotions: Table{
			Name:   "promotions",
			Header: []string{"Promocion", "Item"},
			Rows:   [][]string{{"Combo", "Roll A"}},
		},
		Sales: Table{
			Name:   "sales",
			Header: []string{"item name", "units sold"},
			Rows: [][]string{
				{"Combo", "3"},
				{"roll a", "2"},
				{"Roll A", "abc"},
			},
		},
	}
}

func TestService_Run(t *testing.T) {
	svc := NewService(testConfig())

	res, err := svc.Run(context.Background(), scenarioInputs(), 80)
	require.NoError(t, err)

	require.NotEmpty(t, res.RunID)
	require.Equal(t, 80, res.Threshold)
	require.Equal(t, 1, res.Items)
	require.Equal(t, 1, res.Promotions)
	require.Equal(t, [][]string{
		{"rice", "0.5", "kg"},
		{"nori", "5", "unit"},
	}, ReportTable(res.Rows).Rows)
	require.Equal(t, RunStats{Records: 3, AppliedPromotion: 1, AppliedDirect: 1, InvalidQuantity: 1}, res.Stats)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, 4, res.Warnings[0].Line)
	require.Zero(t, svc.LimiterStatus().Active, "slot released")
}

func TestService_RunIDsAreUnique(t *testing.T) {
	svc := NewService(testConfig())

	a, err := svc.Run(context.Background(), scenarioInputs(), 80)
	require.NoError(t, err)
	b, err := svc.Run(context.Background(), scenarioInputs(), 80)
	require.NoError(t, err)
	require.NotEqual(t, a.RunID, b.RunID)
}

func TestService_FatalErrorsStopBeforeAggregation(t *testing.T) {
	calls := 0
	counting := ResolverFunc(func(q string, c []string, th int) (string, bool) {
		calls++
		return "", false
	})
	svc := NewService(testConfig(), WithResolver(counting))

	tests := []struct {
		name    string
		mutate  func(*Inputs)
		wantErr error
		wantMsg string
	}{
		{
			name:    "recipes without markers",
			mutate:  func(in *Inputs) { in.Recipes = recipeTable(recipeRow("", "rice", "kg", "1")) },
			wantErr: ErrNoSections,
			wantMsg: "build recipe catalog",
		},
		{
			name:    "narrow recipe sheet",
			mutate:  func(in *Inputs) { in.Recipes = Table{Name: "recipes", Header: []string{"a"}} },
			wantErr: ErrTableTooNarrow,
			wantMsg: "build recipe catalog",
		},
		{
			name:    "empty promotions",
			mutate:  func(in *Inputs) { in.Promotions = Table{Name: "promotions"} },
			wantErr: ErrEmptyTable,
			wantMsg: "build promotions",
		},
		{
			name:    "missing sales column",
			mutate:  func(in *Inputs) { in.Sales.Header = []string{"Nombre", "units sold"} },
			wantErr: ErrMissingColumn,
			wantMsg: "parse sales ledger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioInputs()
			tt.mutate(&in)

			res, err := svc.Run(context.Background(), in, 80)
			require.Nil(t, res)
			require.ErrorIs(t, err, tt.wantErr)
			require.Contains(t, err.Error(), tt.wantMsg)
		})
	}
	require.Zero(t, calls, "no name was resolved")
}

func TestService_InvalidThreshold(t *testing.T) {
	svc := NewService(testConfig())

	for _, th := range []int{-1, 101} {
		_, err := svc.Run(context.Background(), scenarioInputs(), th)
		require.ErrorIs(t, err, ErrInvalidThreshold)
	}
}

func TestService_ConfiguredColumns(t *testing.T) {
	cfg := testConfig()
	cfg.Matching.SalesItemColumn = "Nombre"
	cfg.Matching.SalesQuantityColumn = "Unidades vendidas"
	svc := NewService(cfg)

	in := scenarioInputs()
	in.Sales.Header = []string{"Nombre", "Unidades vendidas"}

	res, err := svc.Run(context.Background(), in, 80)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
}

func TestService_DefaultsWhenUnconfigured(t *testing.T) {
	svc := NewService(&config.Config{})
	require.Equal(t, DefaultLedgerColumns, svc.columns)
	require.Equal(t, DefaultMaxConcurrentRuns, svc.LimiterStatus().MaxConcurrent)
}

func TestService_BusyWhenAllSlotsTaken(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxConcurrent = 1
	cfg.Upload.MaxWaitTime = 20 * time.Millisecond
	svc := NewService(cfg)

	require.NoError(t, svc.limiter.Acquire(context.Background()))
	defer svc.limiter.Release()

	_, err := svc.Run(context.Background(), scenarioInputs(), 80)
	require.True(t, errors.Is(err, ErrTooManyRuns))
}

func TestService_RunLogsCarryRunFields(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "info", "json"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	res, err := NewService(testConfig()).Run(context.Background(), scenarioInputs(), 80)
	require.NoError(t, err)

	var completed map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["msg"] == "consumption run completed" {
			completed = entry
		}
	}
	require.NotNil(t, completed)
	require.Equal(t, res.RunID, completed["run_id"])
	require.EqualValues(t, 80, completed["threshold"])
}

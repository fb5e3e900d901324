package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/consumo/internal/config"
	"github.com/JonMunkholm/consumo/internal/logging"
	"github.com/google/uuid"
)

// Service runs consumption reports. It holds no per-run state; every call
// to Run builds its own catalogs and totals.
type Service struct {
	resolver  Resolver
	columns   LedgerColumns
	threshold int
	limiter   *RunLimiter
}

// Option customizes a Service.
type Option func(*Service)

// WithResolver replaces the default fuzzy resolver.
func WithResolver(r Resolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		resolver: NewFuzzyResolver(),
		columns: LedgerColumns{
			Item:     cfg.Matching.SalesItemColumn,
			Quantity: cfg.Matching.SalesQuantityColumn,
		},
		threshold: cfg.Matching.Threshold,
		limiter:   NewRunLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
	}
	if s.columns.Item == "" {
		s.columns.Item = DefaultLedgerColumns.Item
	}
	if s.columns.Quantity == "" {
		s.columns.Quantity = DefaultLedgerColumns.Quantity
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultThreshold returns the configured similarity threshold.
func (s *Service) DefaultThreshold() int {
	return s.threshold
}

// Run computes the consumption report for one set of worksheets.
//
// Structural problems in any worksheet fail the run before aggregation
// starts; no partial catalog is ever used. Per-record problems are
// reported in the result's warnings and stats.
func (s *Service) Run(ctx context.Context, in Inputs, threshold int) (*RunResult, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("%w: %d (must be 0-100)", ErrInvalidThreshold, threshold)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithFields(ctx, "threshold", threshold)

	logger.Info("consumption run started",
		"recipe_rows", len(in.Recipes.Rows),
		"promotion_rows", len(in.Promotions.Rows),
		"sales_rows", len(in.Sales.Rows),
	)

	catalog, err := BuildCatalog(in.Recipes)
	if err != nil {
		return nil, fmt.Errorf("build recipe catalog: %w", err)
	}
	promos, err := BuildPromotions(in.Promotions)
	if err != nil {
		return nil, fmt.Errorf("build promotions: %w", err)
	}
	ledger, err := ParseSales(in.Sales, s.columns)
	if err != nil {
		return nil, fmt.Errorf("parse sales ledger: %w", err)
	}

	for _, w := range catalog.Warnings {
		logger.Warn("recipe catalog", "kind", w.Kind, "line", w.Line, "item", w.Item)
	}

	agg := NewAggregator(s.resolver, threshold)
	out := agg.Aggregate(ctx, ledger, promos, catalog.Ingredients)

	result := &RunResult{
		RunID:           runID,
		Threshold:       threshold,
		Rows:            Assemble(out.Totals, catalog.Units),
		Stats:           out.Stats,
		Warnings:        out.Warnings,
		CatalogWarnings: catalog.Warnings,
		Items:           catalog.Ingredients.Len(),
		Promotions:      promos.Len(),
		Duration:        time.Since(start),
	}

	logger.Info("consumption run completed",
		"items", result.Items,
		"promotions", result.Promotions,
		"records", out.Stats.Records,
		"applied_promotion", out.Stats.AppliedPromotion,
		"applied_direct", out.Stats.AppliedDirect,
		"invalid_quantity", out.Stats.InvalidQuantity,
		"unmatched", out.Stats.Unmatched,
		"unmatched_components", out.Stats.UnmatchedComponents,
		"ingredients", len(result.Rows),
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// LimiterStatus returns the current run slot usage.
func (s *Service) LimiterStatus() RunLimiterStatus {
	return s.limiter.Status()
}

// WaitForRuns blocks until all in-flight runs finish or ctx is done.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

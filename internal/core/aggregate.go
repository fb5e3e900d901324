package core

// aggregate.go walks the sales ledger once and turns units sold into
// ingredient consumption.
//
// Each record is resolved first against promotion names; a promotion hit
// expands into its component items, each resolved against the recipe
// catalog. Records that are not promotions are resolved against the recipe
// catalog directly. Every resolved recipe adds per-unit quantity x units
// sold to each of its ingredients.
//
// Promotion components resolve against recipe catalog keys only, never
// against other promotions' component lists.

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/consumo/internal/logging"
	"github.com/shopspring/decimal"
)

// Totals accumulates consumed quantity per ingredient.
// Ingredients keep the order they were first added.
type Totals struct {
	order []string
	sums  map[string]decimal.Decimal
}

// Add adds qty to an ingredient's running total.
func (t *Totals) Add(ingredient string, qty decimal.Decimal) {
	if t.sums == nil {
		t.sums = make(map[string]decimal.Decimal)
	}
	cur, ok := t.sums[ingredient]
	if !ok {
		t.order = append(t.order, ingredient)
	}
	t.sums[ingredient] = cur.Add(qty)
}

// Get returns the total for an ingredient (zero if never added).
func (t Totals) Get(ingredient string) decimal.Decimal {
	return t.sums[ingredient]
}

// Ingredients returns the ingredient names in first-added order.
func (t Totals) Ingredients() []string {
	return t.order
}

// Len returns the number of ingredients with a total.
func (t Totals) Len() int {
	return len(t.order)
}

// Merge adds every total in other into t. Partial totals from separate
// passes over disjoint record ranges merge to the single-pass result.
func (t *Totals) Merge(other Totals) {
	for _, ing := range other.order {
		t.Add(ing, other.sums[ing])
	}
}

// AggregateResult is the output of one pass over the sales ledger.
type AggregateResult struct {
	Totals   Totals
	Stats    RunStats
	Warnings []RecordWarning
}

// Aggregator computes ingredient consumption from a sales ledger.
type Aggregator struct {
	Resolver  Resolver
	Threshold int
}

// NewAggregator creates an aggregator with the given resolver and
// similarity threshold (0-100).
func NewAggregator(r Resolver, threshold int) *Aggregator {
	return &Aggregator{Resolver: r, Threshold: threshold}
}

// resolution caches how one distinct item name resolved.
type resolution struct {
	promotion string
	isPromo   bool
	recipe    string
	isRecipe  bool
}

// Aggregate processes every sales record in ledger order. Records with a
// non-numeric quantity are skipped with a warning; records that match
// neither a promotion nor a recipe contribute nothing and are counted.
// Neither condition stops the pass.
func (a *Aggregator) Aggregate(ctx context.Context, sales SalesLedger, promos *PromotionCatalog, catalog *IngredientCatalog) AggregateResult {
	logger := logging.FromContext(ctx)

	var res AggregateResult
	items := make(map[string]resolution)
	resolved := make(map[string]resolution)

	for _, rec := range sales {
		res.Stats.Records++

		sold, err := ParseUnitsSold(rec.Quantity)
		if err != nil {
			res.Stats.InvalidQuantity++
			res.Warnings = append(res.Warnings, RecordWarning{
				Kind:    WarnInvalidQuantity,
				Line:    rec.Line,
				Item:    rec.Item,
				Value:   rec.Quantity,
				Message: "units sold is not numeric; record skipped",
			})
			logger.Warn("skipping sales record with non-numeric quantity",
				"line", rec.Line,
				"item", rec.Item,
				"value", rec.Quantity,
			)
			continue
		}

		r, seen := items[rec.Item]
		if !seen {
			r.promotion, r.isPromo = a.Resolver.Resolve(rec.Item, promos.Names(), a.Threshold)
			if !r.isPromo {
				r.recipe, r.isRecipe = a.Resolver.Resolve(rec.Item, catalog.Keys(), a.Threshold)
			}
			items[rec.Item] = r
		}

		switch {
		case r.isPromo:
			res.Stats.AppliedPromotion++
			components := promos.Items(r.promotion)
			if len(components) == 0 {
				res.Stats.EmptyPromotions++
				res.Warnings = append(res.Warnings, RecordWarning{
					Kind:    WarnEmptyPromotion,
					Line:    rec.Line,
					Item:    rec.Item,
					Value:   r.promotion,
					Message: fmt.Sprintf("promotion %q lists no items; record contributes nothing", r.promotion),
				})
				logger.Warn("promotion has no components",
					"line", rec.Line,
					"promotion", r.promotion,
				)
				continue
			}
			for _, component := range components {
				c, seen := resolved[component]
				if !seen {
					c.recipe, c.isRecipe = a.Resolver.Resolve(component, catalog.Keys(), a.Threshold)
					resolved[component] = c
				}
				if !c.isRecipe {
					res.Stats.UnmatchedComponents++
					res.Warnings = append(res.Warnings, RecordWarning{
						Kind:    WarnComponentNoMatch,
						Line:    rec.Line,
						Item:    component,
						Value:   r.promotion,
						Message: fmt.Sprintf("promotion %q component has no recipe match", r.promotion),
					})
					logger.Debug("promotion component unmatched",
						"line", rec.Line,
						"promotion", r.promotion,
						"component", component,
					)
					continue
				}
				a.accumulate(&res.Totals, catalog, c.recipe, sold)
			}

		case r.isRecipe:
			res.Stats.AppliedDirect++
			a.accumulate(&res.Totals, catalog, r.recipe, sold)

		default:
			res.Stats.Unmatched++
			res.Warnings = append(res.Warnings, RecordWarning{
				Kind:    WarnNoMatch,
				Line:    rec.Line,
				Item:    rec.Item,
				Value:   rec.Quantity,
				Message: "no promotion or recipe matches this item; record contributes nothing",
			})
			logger.Debug("sales record unmatched",
				"line", rec.Line,
				"item", rec.Item,
				"threshold", a.Threshold,
			)
		}
	}

	return res
}

func (a *Aggregator) accumulate(totals *Totals, catalog *IngredientCatalog, key string, sold decimal.Decimal) {
	recipe, ok := catalog.Recipe(key)
	if !ok {
		return
	}
	for _, ing := range recipe.Ingredients {
		totals.Add(ing.Name, ing.Quantity.Mul(sold))
	}
}

// Package core computes ingredient consumption from recipe, promotion and
// sales worksheets.
//
// The package holds all domain logic independent of any UI, file format or
// transport layer. Callers load worksheets into [Table] values (see the
// sheet package) and hand them to [Service.Run].
//
// # Pipeline
//
// One run is a single pass:
//
//  1. [BuildCatalog] parses the sectioned recipe worksheet into per-unit
//     ingredient quantities and an ingredient-to-unit map.
//  2. [BuildPromotions] maps promotion names to their component items.
//  3. [ParseSales] reads the item and units-sold columns.
//  4. [Aggregator.Aggregate] resolves each sold item, first against the
//     promotions and then against the recipes, using a [Resolver] with a
//     similarity threshold, and accumulates quantity x units sold.
//  5. [Assemble] joins the totals with their units into report rows.
//
// Quantities are decimals end to end; totals never pass through float64.
//
// # Error Handling
//
// Structural problems fail the run before aggregation with a wrapped
// sentinel error. Bad quantities and unmatched names are reported as
// [RecordWarning] values and counted in [RunStats].
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each category has a code for support reference:
//
//   - CAT001-CAT003: Recipe worksheet structure
//   - SAL001: Sales columns
//   - PRM001: Promotions worksheet
//   - FILE001-FILE006: Uploaded files
//   - RUN001-RUN003: Run parameters and capacity
package core

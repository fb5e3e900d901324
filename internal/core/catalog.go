package core

// catalog.go parses the sectioned recipe worksheet.
//
// The worksheet has no header per recipe. Instead a marker row opens each
// menu item and the rows under it list that item's ingredients:
//
//	col A   col B          col C   ...   col G
//	***     Roll A
//	        rice           kg            0.1
//	        nori           unit          1
//	***     Roll B
//	        ...
//
// Column positions are fixed; the constants below name them.

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SectionMarker in the marker column opens a new recipe section.
const SectionMarker = "***"

// Positional recipe columns (0-based).
const (
	markerCol   = 0
	nameCol     = 1
	unitCol     = 2
	quantityCol = 6
)

// MinRecipeFields is how many positional fields the recipe table must reach.
const MinRecipeFields = quantityCol + 1

// IngredientCatalog maps menu item names to their recipes.
// Keys keep the order their section first appeared in the worksheet; that
// order is the candidate order used for name resolution.
type IngredientCatalog struct {
	keys    []string
	recipes map[string]Recipe
}

// Keys returns the menu item names in worksheet order.
// The returned slice must not be modified.
func (c *IngredientCatalog) Keys() []string {
	return c.keys
}

// Recipe returns the recipe for a catalog key.
func (c *IngredientCatalog) Recipe(key string) (Recipe, bool) {
	r, ok := c.recipes[key]
	return r, ok
}

// Len returns the number of menu items in the catalog.
func (c *IngredientCatalog) Len() int {
	return len(c.keys)
}

// UnspecifiedUnit is reported for ingredients the unit catalog does not know.
const UnspecifiedUnit = "unspecified unit"

// UnitCatalog maps ingredient names to their unit of measure.
type UnitCatalog map[string]string

// Unit returns the unit for an ingredient, or UnspecifiedUnit.
func (u UnitCatalog) Unit(ingredient string) string {
	if unit, ok := u[ingredient]; ok {
		return unit
	}
	return UnspecifiedUnit
}

// Catalog is the parsed recipe worksheet.
type Catalog struct {
	Ingredients *IngredientCatalog
	Units       UnitCatalog
	Warnings    []RecordWarning
}

// section is a recipe being collected while scanning rows.
type section struct {
	line        int
	recipe      Recipe
	ingredients map[string]int // ingredient name -> index in recipe.Ingredients
}

func (s *section) add(name string, qty decimal.Decimal) {
	if i, ok := s.ingredients[name]; ok {
		s.recipe.Ingredients[i].Quantity = s.recipe.Ingredients[i].Quantity.Add(qty)
		return
	}
	s.ingredients[name] = len(s.recipe.Ingredients)
	s.recipe.Ingredients = append(s.recipe.Ingredients, Ingredient{Name: name, Quantity: qty})
}

// BuildCatalog parses the recipe worksheet into an ingredient catalog and
// a unit catalog.
//
// A row whose first field contains SectionMarker opens a section named by
// its second field. While a section is open, rows with a textual second
// field are ingredient lines whose per-unit quantity is the seventh field;
// lines with a missing or non-numeric quantity are skipped. Rows above the
// first marker are ignored. Independently of sections, every row with both
// a name and a unit contributes to the unit catalog.
//
// Sections without ingredient lines are left out of the catalog. A later
// section with the same name replaces the earlier one.
func BuildCatalog(t Table) (*Catalog, error) {
	if t.Width() < MinRecipeFields {
		return nil, fmt.Errorf("%w: need %d columns, widest row has %d",
			ErrTableTooNarrow, MinRecipeFields, t.Width())
	}

	units := make(UnitCatalog)
	var sections []*section
	var current *section

	for i, row := range t.Rows {
		name := cell(row, nameCol)

		if unit := cell(row, unitCol); name != "" && unit != "" {
			units[name] = unit
		}

		if marker := cell(row, markerCol); IsTextual(marker) && strings.Contains(marker, SectionMarker) {
			if name == "" {
				return nil, &RowError{Table: t.Name, Line: t.Line(i), Err: ErrUnnamedSection}
			}
			current = &section{
				line:        t.Line(i),
				recipe:      Recipe{Name: name},
				ingredients: make(map[string]int),
			}
			sections = append(sections, current)
			continue
		}

		if current == nil || !IsTextual(name) {
			continue
		}

		qty, err := ParseQuantity(cell(row, quantityCol))
		if err != nil {
			continue
		}
		current.add(name, qty)
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("%s: %w (marker %q in column A)", t.Name, ErrNoSections, SectionMarker)
	}

	catalog := &Catalog{
		Ingredients: &IngredientCatalog{recipes: make(map[string]Recipe, len(sections))},
		Units:       units,
	}
	ic := catalog.Ingredients

	for _, s := range sections {
		name := s.recipe.Name
		if len(s.recipe.Ingredients) == 0 {
			catalog.Warnings = append(catalog.Warnings, RecordWarning{
				Kind:    WarnEmptySection,
				Line:    s.line,
				Item:    name,
				Message: "section has no ingredient lines with a quantity; item left out of the catalog",
			})
			continue
		}
		if _, exists := ic.recipes[name]; exists {
			catalog.Warnings = append(catalog.Warnings, RecordWarning{
				Kind:    WarnDuplicateSection,
				Line:    s.line,
				Item:    name,
				Message: "section name repeated; later section replaces the earlier one",
			})
		} else {
			ic.keys = append(ic.keys, name)
		}
		ic.recipes[name] = s.recipe
	}

	return catalog, nil
}

package core

import "fmt"

// PromotionCatalog maps promotion names to the menu items they bundle.
// Names keep the order they first appeared in the worksheet.
type PromotionCatalog struct {
	names []string
	items map[string][]string
}

// Names returns the promotion names in worksheet order.
// The returned slice must not be modified.
func (p *PromotionCatalog) Names() []string {
	return p.names
}

// Items returns the component item names of a promotion, in row order.
func (p *PromotionCatalog) Items(name string) []string {
	return p.items[name]
}

// Len returns the number of promotions.
func (p *PromotionCatalog) Len() int {
	return len(p.names)
}

// BuildPromotions parses the promotions worksheet. The first field of each
// row is the promotion name and every other non-empty field is a component
// item name. A repeated promotion name replaces the earlier row's items.
// Names are taken verbatim; no fuzzy matching happens here.
func BuildPromotions(t Table) (*PromotionCatalog, error) {
	if t.Empty() {
		return nil, fmt.Errorf("%s: %w", t.Name, ErrEmptyTable)
	}

	p := &PromotionCatalog{items: make(map[string][]string, len(t.Rows))}

	for _, row := range t.Rows {
		name := cell(row, 0)
		if name == "" {
			continue
		}

		var items []string
		for col := 1; col < len(row); col++ {
			if item := cell(row, col); item != "" {
				items = append(items, item)
			}
		}

		if _, exists := p.items[name]; !exists {
			p.names = append(p.names, name)
		}
		p.items[name] = items
	}

	return p, nil
}

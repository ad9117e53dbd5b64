package hardware

import "net/url"

// ShoppingItem is one line of a generated shopping list.
type ShoppingItem struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	Quantity      int               `json:"quantity"`
	ShoppingLinks map[string]string `json:"shopping_links"`
	Notes         string            `json:"notes,omitempty"`
}

// ShoppingList resolves the given component IDs into purchasable items with
// marketplace search links. Duplicate IDs collapse into a higher quantity;
// unknown IDs are skipped.
func (c *Catalog) ShoppingList(componentIDs []string) []ShoppingItem {
	items := make([]ShoppingItem, 0, len(componentIDs))
	index := map[string]int{}

	for _, id := range componentIDs {
		comp, ok := c.Resolve(id)
		if !ok {
			continue
		}
		if i, seen := index[id]; seen {
			items[i].Quantity++
			continue
		}
		query := url.QueryEscape(comp.Name + " " + comp.Type)
		index[id] = len(items)
		items = append(items, ShoppingItem{
			ID:       comp.ID,
			Name:     comp.Name,
			Type:     comp.Type,
			Quantity: 1,
			ShoppingLinks: map[string]string{
				"amazon":     "https://www.amazon.com/s?k=" + query,
				"aliexpress": "https://www.aliexpress.com/wholesale?SearchText=" + query,
			},
			Notes: comp.Notes,
		})
	}
	return items
}

package docdelve

import "cmp"

// ItemPath locates an item across the whole database: a chest
// identifier plus the ChestPath within it (GLOSSARY "ItemPath").
// Cross-chest search results are ranked by this, not bare ChestPath,
// since a tie-break must also be able to order items from different
// chests.
type ItemPath struct {
	ChestIdentifier string
	Path            ChestPath
}

// compareItemPath orders first by the embedded ChestPath using
// compareChestPath (ancestor chains compared element-wise by name
// ascending/element_type ascending, the shorter chain first when one is
// a prefix of the other, then the item's own element), then by chest
// identifier to give a deterministic total order across chests sharing
// an identical path shape.
func compareItemPath(a, b ItemPath) int {
	if c := compareChestPath(a.Path, b.Path); c != 0 {
		return c
	}
	return cmp.Compare(a.ChestIdentifier, b.ChestIdentifier)
}

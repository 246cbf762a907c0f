package docdelve

// IndexedChestItem is one entry of a flattened content tree (spec §4.2
// "Content tree → Indexed content"). ParentPath holds the ids of every
// ancestor from root to parent, root-to-item order; DescendantRange is
// the half-open `[first, end)` range of ids covering every descendant,
// which lets search narrow "within item X" with a single interval
// insertion instead of a tree walk.
type IndexedChestItem struct {
	Item            ChestItem
	ParentPath      []int
	DescendantRange [2]int
	DirectChildIDs  []int
}

// name returns the string search/ranking compares against: Name for
// Module/Group/Object, Title for Page.
func (entry *IndexedChestItem) name() string {
	return entry.Item.itemName()
}

// IndexedChestContents is the flattened, parent-linked form of a
// ChestContents tree (spec §4.2). Items is addressed by a contiguous
// integer id assigned in depth-first pre-order; RootIDs holds the ids
// of the tree's top-level items in order.
type IndexedChestContents struct {
	ChestInfo
	Items   []IndexedChestItem
	RootIDs []int
}

// ToIndexed flattens contents into its indexed form. The walk is
// depth-first, pre-order: an item is assigned its id before its
// children are visited, so every item's subtree occupies a contiguous
// block of ids immediately following it — the invariant spec §3
// requires ("child ids of an item form a contiguous, half-open integer
// range").
func ToIndexed(contents *ChestContents) *IndexedChestContents {
	indexed := &IndexedChestContents{ChestInfo: contents.ChestInfo}
	nextID := 0
	indexed.RootIDs = flattenItems(contents.Items, nil, &indexed.Items, &nextID)
	return indexed
}

func flattenItems(items []*ChestItem, parentPath []int, out *[]IndexedChestItem, nextID *int) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		id := *nextID
		*nextID++
		*out = append(*out, IndexedChestItem{})

		childPath := append(append([]int(nil), parentPath...), id)
		descendantStart := *nextID
		directChildIDs := flattenItems(item.Children, childPath, out, nextID)
		descendantEnd := *nextID

		payload := *item
		payload.Children = nil
		(*out)[id] = IndexedChestItem{
			Item:            payload,
			ParentPath:      parentPath,
			DescendantRange: [2]int{descendantStart, descendantEnd},
			DirectChildIDs:  directChildIDs,
		}
		ids = append(ids, id)
	}
	return ids
}

// PathForID reconstructs the full ChestPath of item id by walking its
// ParentPath and appending the item's own element.
func (ic *IndexedChestContents) PathForID(id int) ChestPath {
	entry := ic.Items[id]
	path := make(ChestPath, 0, len(entry.ParentPath)+1)
	for _, ancestorID := range entry.ParentPath {
		path = append(path, itemPathElement(&ic.Items[ancestorID].Item))
	}
	path = append(path, itemPathElement(&entry.Item))
	return path
}

// IDsForPath resolves every item id matching path exactly. At each
// path element, every item in the current candidate pool whose own
// element matches is kept, and the next pool is the union of all of
// those items' direct children — so duplicate same-name/same-type
// items anywhere along the path are all carried forward instead of
// committing to the first one found (spec §9 open question: duplicate
// items at a path are assumed to exist and must both be preserved).
func (ic *IndexedChestContents) IDsForPath(path ChestPath) []int {
	candidates := ic.RootIDs
	var matching []int
	for _, element := range path {
		var nextCandidates []int
		matching = nil
		for _, id := range candidates {
			if itemPathElement(&ic.Items[id].Item).Equal(element) {
				matching = append(matching, id)
				nextCandidates = append(nextCandidates, ic.Items[id].DirectChildIDs...)
			}
		}
		candidates = nextCandidates
	}
	return matching
}

// IDForPath resolves path to a single item id, the first of possibly
// several matches (see IDsForPath). Returns ok=false if no item
// matches.
func (ic *IndexedChestContents) IDForPath(path ChestPath) (int, bool) {
	ids := ic.IDsForPath(path)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// WalkChestItems visits every item in id order, depth-first pre-order,
// calling visit with each item's id and its flattened entry. This is
// the supplemented walking primitive original_source/ generators use
// to enumerate a tree without re-deriving the recursive descent
// themselves (e.g. to rewrite every item's URL in one pass).
func (ic *IndexedChestContents) WalkChestItems(visit func(id int, entry *IndexedChestItem)) {
	for id := range ic.Items {
		visit(id, &ic.Items[id])
	}
}

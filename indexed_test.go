package docdelve

import "testing"

func sampleIndexedTree() *IndexedChestContents {
	root := NewModule("widgets", "widgets", "widgets/index.html")
	child := NewObject("Widget", "widgets::Widget", "struct Widget", "widgets/widget.html", ObjectStruct)
	grandchild := NewObject("render", "widgets::Widget::render", "fn render()", "widgets/widget.html#render", ObjectMethod)
	child.AddChild(grandchild)
	root.AddChild(child)

	other := NewModule("utils", "utils", "utils/index.html")

	contents := NewChestContents(ChestInfo{})
	contents.Items = []*ChestItem{root, other}
	return ToIndexed(contents)
}

func TestToIndexedContiguousRanges(t *testing.T) {
	ic := sampleIndexedTree()
	if len(ic.Items) != 4 {
		t.Fatalf("len(Items) = %d, want 4", len(ic.Items))
	}
	// root (widgets) is id 0, its subtree covers [1, 3): Widget (1), render (2).
	root := ic.Items[0]
	if root.DescendantRange != [2]int{1, 3} {
		t.Errorf("root.DescendantRange = %v, want [1 3]", root.DescendantRange)
	}
	// utils is id 3, a leaf with an empty descendant range.
	utils := ic.Items[3]
	if utils.DescendantRange[0] != utils.DescendantRange[1] {
		t.Errorf("utils.DescendantRange = %v, want an empty range", utils.DescendantRange)
	}
}

func TestIDForPathAndPathForID(t *testing.T) {
	ic := sampleIndexedTree()
	path := ChestPath{
		{Type: ElementModule, Name: "widgets"},
		{Type: ElementObject, Name: "Widget"},
		{Type: ElementObject, Name: "render"},
	}
	id, ok := ic.IDForPath(path)
	if !ok {
		t.Fatalf("IDForPath(%v) not found", path)
	}
	if got := ic.PathForID(id); !got.Equal(path) {
		t.Errorf("PathForID(%d) = %v, want %v", id, got, path)
	}

	if _, ok := ic.IDForPath(ChestPath{{Type: ElementModule, Name: "nope"}}); ok {
		t.Errorf("expected IDForPath to report not-found for a nonexistent path")
	}
}

func TestIDsForPathCollectsEveryDuplicateMatch(t *testing.T) {
	// Two distinct root modules both named "widgets" (spec §9 open
	// question: duplicate same-name/type items at a path are assumed to
	// exist and must both be preserved, not collapsed to the first).
	first := NewModule("widgets", "widgets", "widgets/index.html")
	first.AddChild(NewObject("Old", "widgets::Old", "struct Old", "widgets/old.html", ObjectStruct))
	second := NewModule("widgets", "widgets", "widgets2/index.html")
	second.AddChild(NewObject("New", "widgets::New", "struct New", "widgets2/new.html", ObjectStruct))

	contents := NewChestContents(ChestInfo{})
	contents.Items = []*ChestItem{first, second}
	ic := ToIndexed(contents)

	path := ChestPath{{Type: ElementModule, Name: "widgets"}}
	ids := ic.IDsForPath(path)
	if len(ids) != 2 {
		t.Fatalf("IDsForPath(widgets) = %v, want 2 matching modules", ids)
	}

	names := map[string]bool{}
	for _, id := range ids {
		for _, childID := range ic.Items[id].DirectChildIDs {
			names[ic.Items[childID].name()] = true
		}
	}
	if !names["Old"] || !names["New"] {
		t.Errorf("children visible from IDsForPath(widgets) = %v, want both Old and New", names)
	}
}

func TestWalkChestItemsVisitsEveryID(t *testing.T) {
	ic := sampleIndexedTree()
	seen := map[int]bool{}
	ic.WalkChestItems(func(id int, entry *IndexedChestItem) {
		seen[id] = true
	})
	if len(seen) != len(ic.Items) {
		t.Errorf("WalkChestItems visited %d ids, want %d", len(seen), len(ic.Items))
	}
}

package docdelve

import "testing"

func searchTestTree() *IndexedChestContents {
	widgets := NewModule("widgets", "widgets", "widgets/index.html")
	button := NewObject("Button", "widgets::Button", "struct Button", "widgets/button.html", ObjectStruct)
	render := NewObject("render", "widgets::Button::render", "fn render()", "widgets/button.html#render", ObjectMethod)
	button.AddChild(render)
	widgets.AddChild(button)

	utils := NewModule("utils", "utils", "utils/index.html")
	format := NewObject("format", "utils::format", "fn format()", "utils/index.html#format", ObjectFunction)
	utils.AddChild(format)

	contents := NewChestContents(ChestInfo{})
	contents.Items = []*ChestItem{widgets, utils}
	return ToIndexed(contents)
}

func TestSegmentQuery(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"Button.render", []string{"Button", "render"}},
		{"widgets:Button", []string{"widgets", "Button"}},
		{"Button", []string{"Button"}},
		{"", nil},
	}
	for _, c := range cases {
		got := segmentQuery(c.query)
		if len(got) != len(c.want) {
			t.Errorf("segmentQuery(%q) = %v, want %v", c.query, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("segmentQuery(%q)[%d] = %q, want %q", c.query, i, got[i], c.want[i])
			}
		}
	}
}

func TestSearchFindsExactName(t *testing.T) {
	ic := searchTestTree()
	results := ic.Search("Button", nil, 10)
	if len(results) == 0 {
		t.Fatalf("Search(Button) returned no results")
	}
	found := false
	for _, r := range results {
		if r.Path.String() == "widgets/Button" {
			found = true
		}
	}
	if !found {
		t.Errorf("Search(Button) results %v did not include widgets/Button", results)
	}
}

func TestSearchSegmentedQueryNarrows(t *testing.T) {
	ic := searchTestTree()
	results := ic.Search("Button.render", nil, 10)
	if len(results) != 1 {
		t.Fatalf("Search(Button.render) = %v, want exactly 1 result", results)
	}
	want := "widgets/Button/render"
	if got := results[0].Path.String(); got != want {
		t.Errorf("Search(Button.render) = %q, want %q", got, want)
	}
}

func TestSearchRootedAtPathOnlyMatchesDescendants(t *testing.T) {
	ic := searchTestTree()
	utilsPath := ChestPath{{Type: ElementModule, Name: "utils"}}
	results := ic.Search("render", utilsPath, 10)
	if len(results) != 0 {
		t.Errorf("Search(render) rooted at utils = %v, want no results (render lives under widgets)", results)
	}
}

func TestSearchRootedAtDuplicateNamedStartSearchesBothSubtrees(t *testing.T) {
	first := NewModule("widgets", "widgets", "widgets/index.html")
	first.AddChild(NewObject("Gadget", "widgets::Gadget", "struct Gadget", "widgets/gadget.html", ObjectStruct))
	second := NewModule("widgets", "widgets", "widgets2/index.html")
	second.AddChild(NewObject("Gizmo", "widgets::Gizmo", "struct Gizmo", "widgets2/gizmo.html", ObjectStruct))

	contents := NewChestContents(ChestInfo{})
	contents.Items = []*ChestItem{first, second}
	ic := ToIndexed(contents)

	start := ChestPath{{Type: ElementModule, Name: "widgets"}}

	gadget := ic.Search("Gadget", start, 10)
	if len(gadget) == 0 || gadget[0].Path.String() != "widgets/Gadget" {
		t.Errorf("Search(Gadget) rooted at duplicate-named widgets = %v, want widgets/Gadget", gadget)
	}

	gizmo := ic.Search("Gizmo", start, 10)
	if len(gizmo) == 0 || gizmo[0].Path.String() != "widgets/Gizmo" {
		t.Errorf("Search(Gizmo) rooted at duplicate-named widgets = %v, want widgets/Gizmo (from the second module also named widgets)", gizmo)
	}
}

func TestSearchResultCountTruncates(t *testing.T) {
	ic := searchTestTree()
	results := ic.Search("o", nil, 1)
	if len(results) > 1 {
		t.Errorf("Search with resultCount=1 returned %d results", len(results))
	}
}

func TestSearchEqualScoreTiesBrokenByModuleName(t *testing.T) {
	moduleB := NewModule("B", "B", "b/index.html")
	moduleB.AddChild(NewObject("Foo", "B::Foo", "struct Foo", "b/foo.html", ObjectStruct))
	moduleA := NewModule("A", "A", "a/index.html")
	moduleA.AddChild(NewObject("Foo", "A::Foo", "struct Foo", "a/foo.html", ObjectStruct))

	contents := NewChestContents(ChestInfo{})
	contents.Items = []*ChestItem{moduleB, moduleA}
	ic := ToIndexed(contents)

	results := ic.Search("Foo", nil, 10)
	if len(results) != 2 {
		t.Fatalf("Search(Foo) = %v, want exactly 2 results", results)
	}
	if results[0].Score != results[1].Score {
		t.Fatalf("Search(Foo) scores = %d, %d, want equal scores for identical matches", results[0].Score, results[1].Score)
	}
	if got, want := results[0].Path.String(), "A/Foo"; got != want {
		t.Errorf("Search(Foo)[0] = %q, want %q (module A sorts before B on a tie)", got, want)
	}
	if got, want := results[1].Path.String(), "B/Foo"; got != want {
		t.Errorf("Search(Foo)[1] = %q, want %q", got, want)
	}
}

func TestPageForPath(t *testing.T) {
	ic := searchTestTree()
	path, ok := ic.PageForPath("/widgets/button.html#render", nil)
	if !ok {
		t.Fatalf("PageForPath did not resolve an existing URL")
	}
	want := "widgets/Button"
	if got := path.String(); got != want {
		t.Errorf("PageForPath = %q, want %q", got, want)
	}

	if _, ok := ic.PageForPath("missing.html", nil); ok {
		t.Errorf("PageForPath resolved a URL that does not exist")
	}
}

// TestPageForPathSameDepthTieBreaksToLargestPath confirms that when two
// candidates share a URL at equal depth, the lexicographically largest
// path wins (not the smallest), matching the original's reverse sort.
func TestPageForPathSameDepthTieBreaksToLargestPath(t *testing.T) {
	moduleA := NewModule("A", "A", "shared.html")
	moduleZ := NewModule("Z", "Z", "shared.html")

	contents := NewChestContents(ChestInfo{})
	contents.Items = []*ChestItem{moduleA, moduleZ}
	ic := ToIndexed(contents)

	path, ok := ic.PageForPath("shared.html", nil)
	if !ok {
		t.Fatalf("PageForPath did not resolve an existing URL")
	}
	if got, want := path.String(), "Z"; got != want {
		t.Errorf("PageForPath = %q, want %q (the lexicographically largest of the tied candidates)", got, want)
	}
}

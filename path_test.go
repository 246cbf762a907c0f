package docdelve

import "testing"

func TestValidatePathElementName(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"Widget", false},
		{"", true},
		{"a/b", true},
		{"a\\b", true},
		{"a<b", true},
		{"a:b", true},
		{"a\x01b", true},
	}
	for _, c := range cases {
		err := ValidatePathElementName(c.name)
		if (err != nil) != c.wantErr {
			t.Errorf("ValidatePathElementName(%q) err=%v, want wantErr=%v", c.name, err, c.wantErr)
		}
	}
}

func TestSplitJoinVirtualPath(t *testing.T) {
	cases := []struct {
		path string
		want []string
	}{
		{"", nil},
		{"/", nil},
		{"a", []string{"a"}},
		{"/a/b/", []string{"a", "b"}},
		{"a/b/c", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		got := splitVirtualPath(c.path)
		if len(got) != len(c.want) {
			t.Fatalf("splitVirtualPath(%q) = %v, want %v", c.path, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("splitVirtualPath(%q)[%d] = %q, want %q", c.path, i, got[i], c.want[i])
			}
		}
		if joined := joinVirtualPath(got); len(c.want) > 0 && joined == "" {
			t.Errorf("joinVirtualPath(%v) = %q, unexpected empty", got, joined)
		}
	}
}

func TestChestPathIsPrefixOf(t *testing.T) {
	a := ChestPath{{Type: ElementModule, Name: "foo"}}
	b := ChestPath{{Type: ElementModule, Name: "foo"}, {Type: ElementObject, Name: "Bar"}}
	if !a.IsPrefixOf(b) {
		t.Errorf("expected %v to be a prefix of %v", a, b)
	}
	if b.IsPrefixOf(a) {
		t.Errorf("did not expect %v to be a prefix of %v", b, a)
	}
	if !a.IsPrefixOf(a) {
		t.Errorf("expected a path to be a prefix of itself")
	}
}

func TestCompareChestPath(t *testing.T) {
	short := ChestPath{{Type: ElementModule, Name: "a"}}
	long := ChestPath{{Type: ElementModule, Name: "a"}, {Type: ElementObject, Name: "b"}}
	if compareChestPath(short, long) >= 0 {
		t.Errorf("expected shorter path to sort first")
	}

	nameA := ChestPath{{Type: ElementModule, Name: "a"}}
	nameB := ChestPath{{Type: ElementModule, Name: "b"}}
	if compareChestPath(nameA, nameB) >= 0 {
		t.Errorf("expected %q to sort before %q", "a", "b")
	}

	moduleA := ChestPath{{Type: ElementModule, Name: "a"}}
	objectA := ChestPath{{Type: ElementObject, Name: "a"}}
	if compareChestPath(moduleA, objectA) >= 0 {
		t.Errorf("expected Module to sort before Object at the same name")
	}
}

// TestCompareChestPathComparesAncestorsBeforeSelf exercises a case
// where comparing ancestor chains before ever looking at the item's
// own element gives a different answer than comparing the two full
// paths element-wise would: a root item named "B" has no ancestors at
// all, so it must sort before a deeper item "A/Zeta" whose ancestor
// "A" happens to sort before "B" lexicographically.
func TestCompareChestPathComparesAncestorsBeforeSelf(t *testing.T) {
	deep := ChestPath{{Type: ElementModule, Name: "A"}, {Type: ElementObject, Name: "Zeta"}}
	root := ChestPath{{Type: ElementModule, Name: "B"}}
	if compareChestPath(deep, root) <= 0 {
		t.Errorf("expected the root item %v (zero ancestors) to sort before the deeper item %v", root, deep)
	}
}

func TestChestPathString(t *testing.T) {
	p := ChestPath{{Type: ElementModule, Name: "foo"}, {Type: ElementObject, Name: "Bar"}}
	if got, want := p.String(), "foo/Bar"; got != want {
		t.Errorf("ChestPath.String() = %q, want %q", got, want)
	}
}

package docdelve

import (
	"cmp"
	"strings"
)

// ElementType identifies what kind of chest item a PathElement names.
type ElementType int

const (
	ElementModule ElementType = iota
	ElementGroup
	ElementPage
	ElementObject
)

func (t ElementType) String() string {
	switch t {
	case ElementModule:
		return "Module"
	case ElementGroup:
		return "Group"
	case ElementPage:
		return "Page"
	case ElementObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// elementTypeOrder is the ordering used to break ties in ChestPath
// comparisons when two elements share a name (spec §4.3 ranking:
// "name ascending, then element_type ascending").
func elementTypeOrder(t ElementType) int {
	switch t {
	case ElementModule:
		return 0
	case ElementGroup:
		return 1
	case ElementPage:
		return 2
	case ElementObject:
		return 3
	default:
		return 4
	}
}

// PathElement is one typed name segment of a ChestPath. Two elements are
// equal iff both fields match (spec §3).
type PathElement struct {
	Type ElementType `json:"element_type"`
	Name string      `json:"name"`
}

func (e PathElement) Equal(other PathElement) bool {
	return e.Type == other.Type && e.Name == other.Name
}

// comparePathElement orders elements by name ascending, then element type
// ascending, matching the ranking tie-break in spec §4.3.
func comparePathElement(a, b PathElement) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(elementTypeOrder(a.Type), elementTypeOrder(b.Type))
}

// ChestPath is an ordered sequence of typed name elements locating an item
// inside a single chest.
type ChestPath []PathElement

func (p ChestPath) Equal(other ChestPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (p ChestPath) String() string {
	var b strings.Builder
	for i, e := range p {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(e.Name)
	}
	return b.String()
}

// IsPrefixOf reports whether p is a (possibly equal) leading prefix of
// other, element-wise.
func (p ChestPath) IsPrefixOf(other ChestPath) bool {
	if len(p) > len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// compareChestPath orders two paths by walking their ancestor chains
// (every element but the last) position by position; whichever
// ancestor chain runs out first sorts first, regardless of how much
// deeper the other one goes. Only once both ancestor chains are
// exhausted together does the item's own trailing element break the
// tie. This matches spec §4.3's ranking tie-break as implemented by
// the original's compare_item_paths, which compares parent_path
// (ancestors only) before ever looking at either item's own element.
func compareChestPath(a, b ChestPath) int {
	aAncestors, bAncestors := a, b
	if len(aAncestors) > 0 {
		aAncestors = aAncestors[:len(aAncestors)-1]
	}
	if len(bAncestors) > 0 {
		bAncestors = bAncestors[:len(bAncestors)-1]
	}

	n := min(len(aAncestors), len(bAncestors))
	for i := 0; i < n; i++ {
		if c := comparePathElement(aAncestors[i], bAncestors[i]); c != 0 {
			return c
		}
	}
	if len(aAncestors) != len(bAncestors) {
		return cmp.Compare(len(aAncestors), len(bAncestors))
	}

	var aSelf, bSelf PathElement
	if len(a) > 0 {
		aSelf = a[len(a)-1]
	}
	if len(b) > 0 {
		bSelf = b[len(b)-1]
	}
	return comparePathElement(aSelf, bSelf)
}

// invalidNamePunctuation is the reserved punctuation spec §3 rules out of
// a path component; ASCII control characters are rejected separately in
// ValidatePathElementName.
const invalidNamePunctuation = "/\\<>\":|?*"

// ValidatePathElementName reports whether name is a legal path component:
// non-empty, free of ASCII control characters, and free of any of
// / \ < > " : | ? *.
func ValidatePathElementName(name string) error {
	if name == "" {
		return newErr(KindInvalidName, name, nil)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return newErr(KindInvalidName, name, nil)
		}
		if strings.ContainsRune(invalidNamePunctuation, r) {
			return newErr(KindInvalidName, name, nil)
		}
	}
	return nil
}

// splitVirtualPath normalizes a virtual chest path: leading/trailing '/'
// are tolerated and stripped, and the path is split on '/'. An interior
// "//" yields an empty component, which ValidatePathElementName rejects.
// An entirely empty path (after stripping) yields a nil, zero-length
// slice representing the root.
func splitVirtualPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// joinVirtualPath is the inverse of splitVirtualPath.
func joinVirtualPath(components []string) string {
	return strings.Join(components, "/")
}

// ValidateVirtualPath reports whether every component of path is a legal
// name per ValidatePathElementName. An empty (root) path is always valid.
func ValidateVirtualPath(path string) error {
	for _, component := range splitVirtualPath(path) {
		if err := ValidatePathElementName(component); err != nil {
			return err
		}
	}
	return nil
}

package docdelve

import (
	"encoding/json"
	"fmt"
)

// ManifestEntryName is the reserved root-level archive member carrying
// the chest's semantic tree (spec §3, §6).
const ManifestEntryName = "_chest_contents.json"

// EncodeManifest serializes contents to the JSON form stored at
// ManifestEntryName, the docdelve analog of the teacher's
// EncodeManifest (which serializes to deterministic binary Protobuf
// because git-pages shares its schema with other language bindings;
// spec §6 mandates JSON here instead).
func EncodeManifest(contents *ChestContents) ([]byte, error) {
	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}

// DecodeManifest parses the JSON form back into a ChestContents. A
// malformed manifest is reported as KindInvalidManifest so a database
// load loop can distinguish it from an I/O failure and skip the chest
// (spec §7: "During database load, per-chest errors are swallowed").
func DecodeManifest(data []byte) (*ChestContents, error) {
	var contents ChestContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, newErr(KindInvalidManifest, "", err)
	}
	return &contents, nil
}

// IsContentsEmpty reports whether contents has no root items at all,
// the docdelve analog of the teacher's IsManifestEmpty (which checks for
// a lone root directory marker in a path-keyed map; here the tree has no
// implicit root entry, so emptiness is simply "no items").
func IsContentsEmpty(contents *ChestContents) bool {
	return len(contents.Items) == 0
}

// CompareContents reports whether left and right describe the same tree:
// same header fields and a structurally equal Items slice. This is the
// "round-trip" equality spec §8 requires of write_to_chest/read_from_chest.
func CompareContents(left, right *ChestContents) bool {
	if !infoEqual(left.ChestInfo, right.ChestInfo) {
		return false
	}
	return itemsEqual(left.Items, right.Items)
}

func themeAdjustmentEqual(a, b *ThemeAdjustment) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.FileReplacements) != len(b.FileReplacements) {
		return false
	}
	for i := range a.FileReplacements {
		if a.FileReplacements[i] != b.FileReplacements[i] {
			return false
		}
	}
	return true
}

func infoEqual(a, b ChestInfo) bool {
	return a.Name == b.Name &&
		a.Identifier == b.Identifier &&
		a.CategoryTag == b.CategoryTag &&
		a.ExtensionModule == b.ExtensionModule &&
		a.Version == b.Version &&
		a.StartURL == b.StartURL &&
		themeAdjustmentEqual(a.LightMode, b.LightMode) &&
		themeAdjustmentEqual(a.DarkMode, b.DarkMode)
}

func pageItemsEqual(a, b []PageItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Title != b[i].Title || a[i].URL != b[i].URL {
			return false
		}
		if !pageItemsEqual(a[i].Contents, b[i].Contents) {
			return false
		}
	}
	return true
}

func basesEqual(a, b []ChestPath) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func itemEqual(a, b *ChestItem) bool {
	if a.Kind != b.Kind || a.Name != b.Name || a.FullName != b.FullName ||
		a.URL != b.URL || a.Title != b.Title || a.Declaration != b.Declaration ||
		a.ObjectType != b.ObjectType {
		return false
	}
	if !pageItemsEqual(a.PageItems, b.PageItems) {
		return false
	}
	if !basesEqual(a.Bases, b.Bases) {
		return false
	}
	return itemsEqual(a.Children, b.Children)
}

func itemsEqual(a, b []*ChestItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !itemEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// DebugJSON renders contents as indented JSON for diagnostics, the
// docdelve analog of the teacher's ManifestDebugJSON.
func DebugJSON(contents *ChestContents) string {
	data, err := EncodeManifest(contents)
	if err != nil {
		return fmt.Sprintf("<invalid manifest: %s>", err)
	}
	return string(data)
}

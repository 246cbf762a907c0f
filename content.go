package docdelve

import "encoding/json"

// ObjectType enumerates the kinds of declaration an Object item can
// represent (spec §3).
type ObjectType int

const (
	ObjectClass ObjectType = iota
	ObjectStruct
	ObjectUnion
	ObjectGeneric
	ObjectEnum
	ObjectValue
	ObjectVariant
	ObjectTrait
	ObjectTraitImplementation
	ObjectInterface
	ObjectFunction
	ObjectMethod
	ObjectVariable
	ObjectMember
	ObjectField
	ObjectConstant
	ObjectProperty
	ObjectTypedef
	ObjectNamespace
)

var objectTypeNames = [...]string{
	"Class", "Struct", "Union", "Object", "Enum", "Value", "Variant",
	"Trait", "TraitImplementation", "Interface", "Function", "Method",
	"Variable", "Member", "Field", "Constant", "Property", "Typedef",
	"Namespace",
}

func (t ObjectType) String() string {
	if int(t) >= 0 && int(t) < len(objectTypeNames) {
		return objectTypeNames[t]
	}
	return "Unknown"
}

func (t ObjectType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ObjectType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, name := range objectTypeNames {
		if name == s {
			*t = ObjectType(i)
			return nil
		}
	}
	return newErr(KindInvalidManifest, "object_type", nil)
}

// ChestItemKind discriminates the tagged union that ChestItem carries.
type ChestItemKind int

const (
	ItemModule ChestItemKind = iota
	ItemGroup
	ItemPage
	ItemObject
)

// ChestItem is exactly one of Module, Group, Page, or Object (spec §3).
// Only the fields relevant to Kind are populated; this mirrors the
// teacher's tagged-Entry shape in src/manifest.go (Type + a payload)
// rather than an interface-per-kind, which would make JSON round-tripping
// and the flattening walk in indexed.go considerably more verbose.
type ChestItem struct {
	Kind ChestItemKind `json:"kind"`

	// Name: Module, Group, Object; FullName: Module, Object
	Name     string `json:"name,omitempty"`
	FullName string `json:"full_name,omitempty"`

	// Module, Group, Page, Object
	URL string `json:"url,omitempty"`

	// Page
	Title     string     `json:"title,omitempty"`
	PageItems []PageItem `json:"page_items,omitempty"`

	// Object
	Declaration string     `json:"declaration,omitempty"`
	ObjectType  ObjectType `json:"object_type,omitempty"`
	Bases       []ChestPath `json:"bases,omitempty"`

	// Module, Group, Object
	Children []*ChestItem `json:"children,omitempty"`
}

func NewModule(name, fullName, url string) *ChestItem {
	return &ChestItem{Kind: ItemModule, Name: name, FullName: fullName, URL: url}
}

func NewGroup(name, url string) *ChestItem {
	return &ChestItem{Kind: ItemGroup, Name: name, URL: url}
}

func NewPage(title, url string) *ChestItem {
	return &ChestItem{Kind: ItemPage, Title: title, URL: url}
}

func NewObject(name, fullName, declaration, url string, objectType ObjectType) *ChestItem {
	return &ChestItem{
		Kind:        ItemObject,
		Name:        name,
		FullName:    fullName,
		Declaration: declaration,
		URL:         url,
		ObjectType:  objectType,
	}
}

// AddChild appends a child item, preserving order (spec §3: "ordered
// child items").
func (item *ChestItem) AddChild(child *ChestItem) {
	item.Children = append(item.Children, child)
}

// itemName returns the name used for fuzzy matching and ranking: Name for
// Module/Object, Name for Group (groups are unnamed in the narrow sense
// but still carry Name in this representation), Title for Page.
func (item *ChestItem) itemName() string {
	if item.Kind == ItemPage {
		return item.Title
	}
	return item.Name
}

// PageItemKind discriminates PageItem's tagged union (spec §3).
type PageItemKind int

const (
	PageItemLink PageItemKind = iota
	PageItemCategory
)

// PageItem is either a Link {title, url} or a Category {title, url?,
// contents}.
type PageItem struct {
	Kind     PageItemKind `json:"kind"`
	Title    string       `json:"title"`
	URL      string       `json:"url,omitempty"`
	Contents []PageItem   `json:"contents,omitempty"`
}

func NewLink(title, url string) PageItem {
	return PageItem{Kind: PageItemLink, Title: title, URL: url}
}

func NewCategory(title, url string) PageItem {
	return PageItem{Kind: PageItemCategory, Title: title, URL: url}
}

// ThemeAdjustment is a list of path-rewrite rules applied on read to
// substitute light- or dark-mode asset paths (spec §4.4, GLOSSARY).
type ThemeAdjustment struct {
	FileReplacements []FileReplacement `json:"file_replacements"`
}

// FileReplacement is one rule consumed by TransformPath: Pattern/
// Replacement map directly onto transform_path's pattern/replacement
// arguments (spec §4.1).
type FileReplacement struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

// ChestInfo carries the header fields of a chest manifest (spec §6).
type ChestInfo struct {
	Name             string                      `json:"name"`
	Identifier       string                      `json:"identifier"`
	CategoryTag      string                      `json:"category_tag"`
	ExtensionModule  string                      `json:"extension_module,omitempty"`
	Version          string                      `json:"version"`
	StartURL         string                      `json:"start_url"`
	LightMode        *ThemeAdjustment            `json:"light_mode,omitempty"`
	DarkMode         *ThemeAdjustment            `json:"dark_mode,omitempty"`
}

// ChestContents is a chest's semantic tree: a header plus an ordered list
// of root items (spec §6: ChestContents = ChestInfo ⨁ { items }).
type ChestContents struct {
	ChestInfo
	Items []*ChestItem `json:"items"`
}

// NewChestContents builds an empty content tree with the given header
// fields populated; Items starts empty, ready for a generator to append
// to via AddChild-style mutation on synthesized root items.
func NewChestContents(info ChestInfo) *ChestContents {
	return &ChestContents{ChestInfo: info, Items: nil}
}

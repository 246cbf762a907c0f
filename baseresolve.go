package docdelve

// ResolveBases runs the post-build base-class resolution pass described
// in spec §"Base-class resolution": generators emit Object.Bases as
// symbolic single-element paths (just a name, not yet located in the
// tree); once the tree is fully built, each symbolic base is resolved to
// the full ChestPath of the first matching object found in depth-first
// order rooted at the content root, and the resolved path is written
// back into the tree. This mirrors the teacher's single full-tree
// walking pass in src/collect.go (QML namespace reconstruction runs
// once over the whole collected set before anything is saved), adapted
// here to rewrite Bases in place rather than build a namespace tree.
//
// A symbolic base with no match anywhere in the tree is left as-is:
// the core does not consider this an error, since a generator may
// legitimately reference a base from another chest or installation
// that simply isn't present in this one.
func ResolveBases(contents *ChestContents) {
	index := make(map[string]ChestPath)
	indexObjectNames(contents.Items, nil, index)
	resolveItemBases(contents.Items, index)
}

// indexObjectNames walks items depth-first, pre-order, recording the
// full path of the first object encountered under each distinct name.
// "First match in depth-first order wins" per spec.
func indexObjectNames(items []*ChestItem, prefix ChestPath, index map[string]ChestPath) {
	for _, item := range items {
		element := itemPathElement(item)
		path := append(append(ChestPath{}, prefix...), element)
		if item.Kind == ItemObject {
			if _, seen := index[item.Name]; !seen {
				index[item.Name] = path
			}
		}
		indexObjectNames(item.Children, path, index)
	}
}

// resolveItemBases walks items, rewriting each Object's single-element
// symbolic Bases entries to their resolved full path per index.
func resolveItemBases(items []*ChestItem, index map[string]ChestPath) {
	for _, item := range items {
		if item.Kind == ItemObject && len(item.Bases) > 0 {
			resolved := make([]ChestPath, len(item.Bases))
			for i, base := range item.Bases {
				if len(base) == 1 {
					if full, ok := index[base[0].Name]; ok {
						resolved[i] = full
						continue
					}
				}
				resolved[i] = base
			}
			item.Bases = resolved
		}
		resolveItemBases(item.Children, index)
	}
}

// itemPathElement returns the PathElement a ChestItem contributes to its
// enclosing ChestPath: its ElementType per Kind, and its Name (Title for
// pages, which have no Name field).
func itemPathElement(item *ChestItem) PathElement {
	switch item.Kind {
	case ItemModule:
		return PathElement{Type: ElementModule, Name: item.Name}
	case ItemGroup:
		return PathElement{Type: ElementGroup, Name: item.Name}
	case ItemPage:
		return PathElement{Type: ElementPage, Name: item.Title}
	default:
		return PathElement{Type: ElementObject, Name: item.Name}
	}
}

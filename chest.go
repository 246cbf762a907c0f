package docdelve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
)

// chestNodeKind discriminates the two shapes a tree node can take.
type chestNodeKind int

const (
	nodeDirectory chestNodeKind = iota
	nodeFile
)

// chestNode is one entry of the virtual directory tree (spec §3
// "Virtual directory tree"). A directory's children are kept in a
// treemap.Map (string -> *chestNode) rather than a plain Go map,
// because spec §4.1 requires ListDir to return entries "by name
// ascending" and states "a sorted associative map is the intended
// internal form" — the same ordered-map idiom the teacher pulls in
// transitively via go-git and that the rest of the pack reaches for
// whenever an ordered key space is needed.
//
// A file node is either in-memory (data holds the payload directly) or
// archive-backed (archive/archiveName name the backing handle and the
// member path to fetch from it; data stays nil, and the handle caches
// the decompressed payload after the first read).
type chestNode struct {
	kind     chestNodeKind
	children *treemap.Map

	data          []byte
	archiveBacked bool
	archive       *archiveHandle
	archiveName   string
}

func newDirectoryNode() *chestNode {
	return &chestNode{kind: nodeDirectory, children: treemap.NewWithStringComparator()}
}

// DirEntry is one row of a ListDir result.
type DirEntry struct {
	Name  string
	IsDir bool
}

// Chest is a lazy-loaded, overlay-capable archive presenting a virtual
// hierarchical filesystem, the core data structure of spec §4.1. A
// *Chest created with New has no backing archive; one opened with Open
// lazily streams file payloads from it on first Read.
type Chest struct {
	mu   sync.RWMutex
	root *chestNode

	path          string
	archive       *archiveHandle
	maxMemberSize int64
}

// New returns an empty chest with no backing file, the spec's `new()`.
func New(maxMemberSize int64) *Chest {
	return &Chest{root: newDirectoryNode(), maxMemberSize: maxMemberSize}
}

// Open reads an archive's directory index and reconstructs the
// skeleton of the virtual tree: every non-directory entry becomes an
// archive-backed file marker at the same virtual path; payloads are
// not read (spec §4.1 `open(path)`). Directory-marker entries (names
// ending in `/`) are ignored, per spec §3.
func Open(path string, maxMemberSize int64) (*Chest, error) {
	handle := newArchiveHandle(path)
	names, err := handle.names()
	if err != nil {
		return nil, err
	}

	chest := &Chest{
		root:          newDirectoryNode(),
		path:          path,
		archive:       handle,
		maxMemberSize: maxMemberSize,
	}
	for _, name := range names {
		if strings.HasSuffix(name, "/") {
			continue
		}
		components := splitVirtualPath(name)
		if len(components) == 0 {
			continue
		}
		dir, err := chest.resolveDirectory(components[:len(components)-1], true)
		if err != nil {
			return nil, newErr(KindCorruptArchive, name, err)
		}
		file := &chestNode{kind: nodeFile, archiveBacked: true, archive: handle, archiveName: name}
		dir.children.Put(components[len(components)-1], file)
	}
	return chest, nil
}

// resolveDirectory walks components from chest.root, creating
// intermediate directories along the way if create is true. It returns
// an error if an intermediate component names an existing file.
func (c *Chest) resolveDirectory(components []string, create bool) (*chestNode, error) {
	dir := c.root
	for _, component := range components {
		value, found := dir.children.Get(component)
		if !found {
			if !create {
				return nil, newErr(KindNotFound, component, nil)
			}
			child := newDirectoryNode()
			dir.children.Put(component, child)
			dir = child
			continue
		}
		child := value.(*chestNode)
		if child.kind != nodeDirectory {
			return nil, newErr(KindTypeConflict, component, nil)
		}
		dir = child
	}
	return dir, nil
}

// lookup walks path from the root and returns the final node, its
// parent directory, and its leaf component name.
func (c *Chest) lookup(path string) (node *chestNode, parent *chestNode, leaf string, err error) {
	components := splitVirtualPath(path)
	if len(components) == 0 {
		return c.root, nil, "", nil
	}
	dir, err := c.resolveDirectory(components[:len(components)-1], false)
	if err != nil {
		return nil, nil, "", err
	}
	leaf = components[len(components)-1]
	value, found := dir.children.Get(leaf)
	if !found {
		return nil, dir, leaf, newErr(KindNotFound, path, nil)
	}
	return value.(*chestNode), dir, leaf, nil
}

// Contains reports whether path names any entry, file or directory.
func (c *Chest) Contains(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, _, _, err := c.lookup(path)
	return err == nil
}

// Read returns the payload of the file at path, fetching it from the
// backing archive on first access if the file is archive-backed (spec
// §4.1 `read(path)`).
func (c *Chest) Read(path string) ([]byte, error) {
	c.mu.RLock()
	node, _, _, err := c.lookup(path)
	c.mu.RUnlock()
	if err != nil {
		return nil, newErr(KindNotFound, path, nil)
	}
	if node.kind != nodeFile {
		return nil, newErr(KindTypeConflict, path, fmt.Errorf("is a directory"))
	}
	if !node.archiveBacked {
		return node.data, nil
	}
	if node.archive == nil {
		return nil, newErr(KindMissingBackingArchive, path, nil)
	}
	data, found, err := node.archive.read(node.archiveName, c.maxMemberSize)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newErr(KindMissingBackingArchive, path, nil)
	}
	return data, nil
}

// Write stores data as an in-memory file at path, creating intermediate
// directories as needed (spec §4.1 `write(path, bytes)`).
func (c *Chest) Write(path string, data []byte) error {
	components := splitVirtualPath(path)
	if len(components) == 0 {
		return newErr(KindInvalidName, path, nil)
	}
	for _, component := range components {
		if err := ValidatePathElementName(component); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	dir, err := c.resolveDirectory(components[:len(components)-1], true)
	if err != nil {
		return err
	}
	leaf := components[len(components)-1]
	if existing, found := dir.children.Get(leaf); found {
		if existing.(*chestNode).kind == nodeDirectory {
			return newErr(KindTypeConflict, path, nil)
		}
	}
	dir.children.Put(leaf, &chestNode{kind: nodeFile, data: append([]byte(nil), data...)})
	return nil
}

// Remove deletes the file or subtree at path (spec §4.1 `remove(path)`).
func (c *Chest) Remove(path string) error {
	components := splitVirtualPath(path)
	if len(components) == 0 {
		return newErr(KindInvalidName, path, nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	dir, err := c.resolveDirectory(components[:len(components)-1], false)
	if err != nil {
		return newErr(KindNotFound, path, nil)
	}
	leaf := components[len(components)-1]
	if _, found := dir.children.Get(leaf); !found {
		return newErr(KindNotFound, path, nil)
	}
	dir.children.Remove(leaf)
	return nil
}

// ListDir returns the immediate children of path, name ascending (spec
// §4.1 `list_dir(path)`).
func (c *Chest) ListDir(path string) ([]DirEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var dir *chestNode
	if splitVirtualPath(path) == nil {
		dir = c.root
	} else {
		node, _, _, err := c.lookup(path)
		if err != nil {
			return nil, err
		}
		if node.kind != nodeDirectory {
			return nil, newErr(KindTypeConflict, path, fmt.Errorf("not a directory"))
		}
		dir = node
	}

	entries := make([]DirEntry, 0, dir.children.Size())
	it := dir.children.Iterator()
	for it.Next() {
		name := it.Key().(string)
		child := it.Value().(*chestNode)
		entries = append(entries, DirEntry{Name: name, IsDir: child.kind == nodeDirectory})
	}
	return entries, nil
}

// FindAll returns the virtual path of every file anywhere in the tree
// whose leaf name equals filename (spec §4.1 `find_all(filename)`).
func (c *Chest) FindAll(filename string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var results []string
	var walk func(dir *chestNode, prefix []string)
	walk = func(dir *chestNode, prefix []string) {
		it := dir.children.Iterator()
		for it.Next() {
			name := it.Key().(string)
			child := it.Value().(*chestNode)
			path := append(append([]string(nil), prefix...), name)
			if child.kind == nodeDirectory {
				walk(child, path)
			} else if name == filename {
				results = append(results, joinVirtualPath(path))
			}
		}
	}
	walk(c.root, nil)
	return results
}

// OnDiskPath returns the path a saved chest remembers, or "" if it has
// never been saved.
func (c *Chest) OnDiskPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Stat reports whether path names a file or a directory, the
// supplemented inspection primitive spec §"Supplemented features"
// calls for alongside ListDir/Read/Write (original_source/ generators
// probe a path's kind before deciding whether to descend or read).
func (c *Chest) Stat(path string) (DirEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if splitVirtualPath(path) == nil {
		return DirEntry{Name: "", IsDir: true}, nil
	}
	node, _, leaf, err := c.lookup(path)
	if err != nil {
		return DirEntry{}, err
	}
	return DirEntry{Name: leaf, IsDir: node.kind == nodeDirectory}, nil
}

// fileTotalSize returns a file node's uncompressed size without forcing
// an archive-backed node to decompress, used to size Chest.Save's
// progress denominator (spec §4.1 `save` "total is the sum of
// uncompressed sizes across in-memory and archive-backed files").
func fileTotalSize(node *chestNode) (int64, error) {
	if !node.archiveBacked {
		return int64(len(node.data)), nil
	}
	if node.archive == nil {
		return 0, nil
	}
	size, found, err := node.archive.size(node.archiveName)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return size, nil
}

// Save serializes the virtual tree to a new archive at path, emitting
// CompressChest(done, total) events as each file's payload is gathered
// (spec §4.1 `save(path, progress)`); the archive itself is written
// after the last event. After a successful save the chest remembers
// path as its on-disk location.
func (c *Chest) Save(path string, progress ProgressFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	type walkEntry struct {
		virtualPath string
		node        *chestNode
	}
	var entries []walkEntry
	var walk func(dir *chestNode, prefix []string)
	walk = func(dir *chestNode, prefix []string) {
		it := dir.children.Iterator()
		for it.Next() {
			name := it.Key().(string)
			child := it.Value().(*chestNode)
			childPath := append(append([]string(nil), prefix...), name)
			if child.kind == nodeDirectory {
				walk(child, childPath)
			} else {
				entries = append(entries, walkEntry{joinVirtualPath(childPath), child})
			}
		}
	}
	walk(c.root, nil)

	var total int64
	for _, entry := range entries {
		size, err := fileTotalSize(entry.node)
		if err != nil {
			return err
		}
		total += size
	}

	var done int64
	members := make([]archiveMember, 0, len(entries))
	for _, entry := range entries {
		data, err := c.readNodeLocked(entry.node, entry.virtualPath)
		if err != nil {
			return err
		}
		members = append(members, archiveMember{name: entry.virtualPath, data: data})
		done += int64(len(data))
		emitProgress(progress, ProgressEvent{Kind: ProgressCompressChest, Done: done, Total: total})
	}

	if err := writeArchive(path, members); err != nil {
		return err
	}
	c.path = path
	return nil
}

// readNodeLocked fetches a file node's payload; callers must hold c.mu.
func (c *Chest) readNodeLocked(node *chestNode, path string) ([]byte, error) {
	if !node.archiveBacked {
		return node.data, nil
	}
	if node.archive == nil {
		return nil, newErr(KindMissingBackingArchive, path, nil)
	}
	data, found, err := node.archive.read(node.archiveName, c.maxMemberSize)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newErr(KindMissingBackingArchive, path, nil)
	}
	return data, nil
}

// Extract materializes the virtual tree under root on disk, emitting
// ExtractChest(done, total) events (spec §4.1 `extract(root, progress)`).
func (c *Chest) Extract(root string, progress ProgressFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	type walkEntry struct {
		virtualPath string
		node        *chestNode
	}
	var entries []walkEntry
	var walk func(dir *chestNode, prefix []string)
	walk = func(dir *chestNode, prefix []string) {
		it := dir.children.Iterator()
		for it.Next() {
			name := it.Key().(string)
			child := it.Value().(*chestNode)
			childPath := append(append([]string(nil), prefix...), name)
			if child.kind == nodeDirectory {
				walk(child, childPath)
			} else {
				entries = append(entries, walkEntry{joinVirtualPath(childPath), child})
			}
		}
	}
	walk(c.root, nil)

	var total int64
	for _, entry := range entries {
		size, err := fileTotalSize(entry.node)
		if err != nil {
			return err
		}
		total += size
	}

	var done int64
	for _, entry := range entries {
		data, err := c.readNodeLocked(entry.node, entry.virtualPath)
		if err != nil {
			return err
		}
		destPath := filepath.Join(root, filepath.FromSlash(entry.virtualPath))
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return newErr(KindIOError, destPath, err)
		}
		if err := os.WriteFile(destPath, data, 0o644); err != nil {
			return newErr(KindIOError, destPath, err)
		}
		done += int64(len(data))
		emitProgress(progress, ProgressEvent{Kind: ProgressExtractChest, Done: done, Total: total})
	}
	return nil
}

// Delete consumes the chest and removes its on-disk file (spec §4.1
// `delete(self)`). It fails if the chest has never been saved.
func (c *Chest) Delete() error {
	c.mu.Lock()
	path := c.path
	c.root = newDirectoryNode()
	c.mu.Unlock()

	if path == "" {
		return newErr(KindNotFound, "", fmt.Errorf("chest has no on-disk path"))
	}
	if err := os.Remove(path); err != nil {
		return newErr(KindIOError, path, err)
	}
	return nil
}

// TransformPath rewrites path according to pattern/replacement (spec
// §4.1 "Path transformation"), returning ok=false when pattern does not
// match path at all.
func TransformPath(path, pattern, replacement string) (string, bool) {
	if strings.TrimPrefix(pattern, "/") == path {
		if strings.HasPrefix(replacement, "/") {
			return replacement[1:], true
		}
		return replacement, true
	}
	if !strings.HasPrefix(pattern, "/") {
		suffix := "/" + pattern
		if strings.HasSuffix(path, suffix) {
			if strings.HasPrefix(replacement, "/") {
				return replacement[1:], true
			}
			prefix := path[:len(path)-len(suffix)]
			return prefix + "/" + replacement, true
		}
	}
	return "", false
}

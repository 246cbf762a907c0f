package docdelve

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/dghubble/trie"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// chestFileSuffix is the on-disk extension for an installed chest
// (spec §6 "Database on-disk layout").
const chestFileSuffix = ".ddchest"

// NewChestIdentifier mints a fresh chest identifier: a UUID rendered
// without dashes (spec §6 ChestInfo.identifier "uuid-simple").
func NewChestIdentifier() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// loadedChest is one entry of ChestDatabase.chests: the opened chest
// store plus its flattened, search-ready form.
type loadedChest struct {
	chest   *Chest
	indexed *IndexedChestContents
}

// tagEntry is the per-tag record the tag index keeps: every installed
// version of a category tag, plus which one currently sorts highest
// (spec §4.4 "Tag index").
type tagEntry struct {
	latestVersion string
	versions      map[string]string // version -> identifier
}

// RankedResult is one entry of a database-level search result: the
// ItemPath it points to (which chest, which path within it) and its
// fuzzy score.
type RankedResult struct {
	Item  ItemPath
	Score int
}

// ChestDatabase manages a directory of installed chests: version
// tracking via a tag index, cross-chest search, and theme-aware reads
// (spec §4.4). Single-writer/many-reader: Install takes the write
// lock; every read method takes the read lock, the same discipline the
// teacher applies to its own backends via os.Root-scoped file handles.
type ChestDatabase struct {
	mu sync.RWMutex

	dir                string
	maxMemberSize      int64
	defaultResultCount int

	chests          map[string]*loadedChest // identifier -> loaded chest
	tags            *trie.RuneTrie          // category_tag -> *tagEntry
	identifierToTag map[string]string

	cache *observedCache[searchCacheKey, searchCacheValue]
}

// OpenDatabase scans dir for *.ddchest files and loads every chest it
// finds (spec §4.4 "Directory"). A chest that fails to open or whose
// manifest fails to parse is skipped with a logged warning rather than
// a returned error, so a single corrupt file can't break startup (spec
// §7 "During database load, per-chest errors are swallowed").
func OpenDatabase(ctx context.Context, config *Config) (*ChestDatabase, error) {
	maxMemberSize := int64(config.Limits.MaxArchiveMemberSize.Bytes())

	cache, err := newSearchCache(config.Limits.SearchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("search cache: %w", err)
	}

	db := &ChestDatabase{
		dir:                config.DataDir,
		maxMemberSize:      maxMemberSize,
		defaultResultCount: int(config.Limits.DefaultResultCount),
		chests:             map[string]*loadedChest{},
		tags:               trie.NewRuneTrie(),
		identifierToTag:    map[string]string{},
		cache:              cache,
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, newErr(KindConfigError, config.DataDir, err)
	}

	paths, err := filepath.Glob(filepath.Join(config.DataDir, "*"+chestFileSuffix))
	if err != nil {
		return nil, newErr(KindConfigError, config.DataDir, err)
	}

	for _, path := range paths {
		if err := db.loadChestFile(path); err != nil {
			logc.Warnf(ctx, "skipping chest %s: %s", path, err)
			chestLoadErrorsCount.Inc()
			continue
		}
		chestsLoadedCount.Inc()
	}

	return db, nil
}

// loadChestFile opens path as a chest, decodes its manifest, indexes
// it, and registers it with the tag index.
func (db *ChestDatabase) loadChestFile(path string) error {
	chest, err := Open(path, db.maxMemberSize)
	if err != nil {
		return err
	}
	data, err := chest.Read(ManifestEntryName)
	if err != nil {
		return err
	}
	contents, err := DecodeManifest(data)
	if err != nil {
		return err
	}
	indexed := ToIndexed(contents)

	db.mu.Lock()
	defer db.mu.Unlock()
	db.chests[contents.Identifier] = &loadedChest{chest: chest, indexed: indexed}
	db.registerTagLocked(contents.ChestInfo)
	return nil
}

// registerTagLocked updates the tag index for a newly loaded or
// installed chest; callers must hold db.mu for writing.
func (db *ChestDatabase) registerTagLocked(info ChestInfo) {
	var entry *tagEntry
	if existing := db.tags.Get(info.CategoryTag); existing != nil {
		entry = existing.(*tagEntry)
	} else {
		entry = &tagEntry{versions: map[string]string{}}
	}
	entry.versions[info.Version] = info.Identifier
	entry.latestVersion = latestVersion(entry.versions)
	db.tags.Put(info.CategoryTag, entry)
	db.identifierToTag[info.Identifier] = info.CategoryTag
}

// versionSortKey splits a version string on any of `.-_` and keeps
// only the numeric components, converted to int (spec §4.4 "Tag
// index": "Non-numeric components are ignored").
func versionSortKey(version string) []int {
	segments := strings.FieldsFunc(version, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})
	keys := make([]int, 0, len(segments))
	for _, segment := range segments {
		if n, err := strconv.Atoi(segment); err == nil {
			keys = append(keys, n)
		}
	}
	return keys
}

func compareVersion(a, b string) int {
	ak, bk := versionSortKey(a), versionSortKey(b)
	n := min(len(ak), len(bk))
	for i := 0; i < n; i++ {
		if c := cmp.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ak), len(bk))
}

// latestVersion returns the key of versions that sorts highest under
// compareVersion.
func latestVersion(versions map[string]string) string {
	var best string
	first := true
	for version := range versions {
		if first || compareVersion(version, best) > 0 {
			best, first = version, false
		}
	}
	return best
}

// Install copies src's on-disk file into the database directory under
// its original filename, reopens it from there, and registers it (spec
// §4.4 "Install"). Fails if src has never been saved or its path has
// no filename.
func (db *ChestDatabase) Install(src *Chest) (string, error) {
	srcPath := src.OnDiskPath()
	if srcPath == "" {
		return "", newErr(KindNotFound, "", fmt.Errorf("chest has no on-disk path"))
	}
	filename := filepath.Base(srcPath)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return "", newErr(KindNotFound, srcPath, fmt.Errorf("chest path has no filename"))
	}

	data, err := readFileAll(srcPath)
	if err != nil {
		return "", newErr(KindIOError, srcPath, err)
	}
	destPath := filepath.Join(db.dir, filename)
	out, err := createFileAtomic(destPath)
	if err != nil {
		return "", newErr(KindIOError, destPath, err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return "", newErr(KindIOError, destPath, err)
	}
	if err := out.Close(); err != nil {
		return "", newErr(KindIOError, destPath, err)
	}

	if err := db.loadChestFile(destPath); err != nil {
		return "", err
	}

	db.mu.RLock()
	defer db.mu.RUnlock()
	for identifier, loaded := range db.chests {
		if loaded.chest.OnDiskPath() == destPath {
			return identifier, nil
		}
	}
	return "", newErr(KindIOError, destPath, fmt.Errorf("installed chest missing from index"))
}

// TagForIdentifier returns the category tag a chest identifier was
// registered under, suffixed with "@version" unless the chest's
// version is its tag's latest.
func (db *ChestDatabase) TagForIdentifier(identifier string) (string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	tag, ok := db.identifierToTag[identifier]
	if !ok {
		return "", false
	}
	loaded, ok := db.chests[identifier]
	if !ok {
		return tag, true
	}
	value := db.tags.Get(tag)
	if entry, ok := value.(*tagEntry); ok && loaded.indexed.Version == entry.latestVersion {
		return tag, true
	}
	return tag + "@" + loaded.indexed.Version, true
}

// IdentifierForTag parses tag as either a bare category tag, which
// resolves to its latest installed version, or "tag@version", which
// resolves to that exact version. Any other shape reports not-found.
func (db *ChestDatabase) IdentifierForTag(tag string) (string, bool) {
	name, version, hasVersion := strings.Cut(tag, "@")
	if strings.Contains(version, "@") {
		return "", false
	}

	db.mu.RLock()
	defer db.mu.RUnlock()
	value := db.tags.Get(name)
	if value == nil {
		return "", false
	}
	entry := value.(*tagEntry)
	if !hasVersion {
		identifier, ok := entry.versions[entry.latestVersion]
		return identifier, ok
	}
	identifier, ok := entry.versions[version]
	return identifier, ok
}

// Versions returns every installed version of tag, mapped to its chest
// identifier (supplemented feature: original_source/ exposes this so a
// front end can offer "switch version" independent of the latest-wins
// default IdentifierForTag gives).
func (db *ChestDatabase) Versions(tag string) (map[string]string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	value := db.tags.Get(tag)
	if value == nil {
		return nil, false
	}
	entry := value.(*tagEntry)
	out := make(map[string]string, len(entry.versions))
	for version, identifier := range entry.versions {
		out[version] = identifier
	}
	return out, true
}

// Identifiers returns the identifier of every chest currently loaded
// (supplemented feature, used by maintenance and diagnostic tooling
// that needs to enumerate the whole database rather than one tag).
func (db *ChestDatabase) Identifiers() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]string, 0, len(db.chests))
	for identifier := range db.chests {
		out = append(out, identifier)
	}
	slices.Sort(out)
	return out
}

// latestIdentifiersLocked returns the identifier of the latest version
// of every distinct category tag, exactly once per tag, so each chest
// is searched a single time by SearchAll's fan-out.
func (db *ChestDatabase) latestIdentifiersLocked() []string {
	var identifiers []string
	db.tags.Walk(func(key string, value any) error {
		entry := value.(*tagEntry)
		if identifier, ok := entry.versions[entry.latestVersion]; ok {
			identifiers = append(identifiers, identifier)
		}
		return nil
	})
	return identifiers
}

func (db *ChestDatabase) resultCountOrDefault(resultCount int) int {
	if resultCount > 0 {
		return resultCount
	}
	return db.defaultResultCount
}

// Search runs a fuzzy search rooted at start within one chest (spec
// §4.3/§4.4 "If a path is supplied, search only that chest starting
// from chest_path").
func (db *ChestDatabase) Search(identifier, query string, start ChestPath, resultCount int) ([]RankedResult, error) {
	resultCount = db.resultCountOrDefault(resultCount)

	db.mu.RLock()
	loaded, ok := db.chests[identifier]
	db.mu.RUnlock()
	if !ok {
		return nil, newErr(KindNotFound, identifier, nil)
	}

	key := searchCacheKey{chestIdentifier: identifier, query: query, start: start.String(), resultCount: resultCount}
	value, err := db.cache.Get(context.Background(), key, otterLoaderFunc[searchCacheKey, searchCacheValue](
		func(ctx context.Context, _ searchCacheKey) (searchCacheValue, error) {
			raw := loaded.indexed.Search(query, start, resultCount)
			ranked := make([]RankedResult, len(raw))
			for i, r := range raw {
				ranked[i] = RankedResult{Item: ItemPath{ChestIdentifier: identifier, Path: r.Path}, Score: r.Score}
			}
			return searchCacheValue{results: ranked}, nil
		}))
	if err != nil {
		return nil, err
	}

	searchesPerformedCount.Inc()
	searchResultsReturnedCount.Add(float64(len(value.results)))
	return value.results, nil
}

// SearchAll runs a cross-chest fuzzy search over the latest version of
// every installed tag (spec §4.4 "Cross-chest search"): one search per
// chest, fanned out in parallel, merged, re-sorted by descending score
// tie-broken by ItemPath ordering, deduplicated, truncated.
func (db *ChestDatabase) SearchAll(ctx context.Context, query string, resultCount int) ([]RankedResult, error) {
	resultCount = db.resultCountOrDefault(resultCount)

	db.mu.RLock()
	identifiers := db.latestIdentifiersLocked()
	chests := make(map[string]*loadedChest, len(identifiers))
	for _, identifier := range identifiers {
		chests[identifier] = db.chests[identifier]
	}
	db.mu.RUnlock()

	key := searchCacheKey{chestIdentifier: "", query: query, start: "", resultCount: resultCount}
	value, err := db.cache.Get(ctx, key, otterLoaderFunc[searchCacheKey, searchCacheValue](
		func(ctx context.Context, _ searchCacheKey) (searchCacheValue, error) {
			perChest := make([][]RankedResult, len(identifiers))

			group, _ := errgroup.WithContext(ctx)
			for i, identifier := range identifiers {
				i, identifier := i, identifier
				group.Go(func() error {
					loaded := chests[identifier]
					raw := loaded.indexed.Search(query, nil, resultCount)
					ranked := make([]RankedResult, len(raw))
					for j, r := range raw {
						ranked[j] = RankedResult{Item: ItemPath{ChestIdentifier: identifier, Path: r.Path}, Score: r.Score}
					}
					perChest[i] = ranked
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return searchCacheValue{}, err
			}

			var merged []RankedResult
			for _, results := range perChest {
				merged = append(merged, results...)
			}
			slices.SortFunc(merged, func(a, b RankedResult) int {
				if c := cmp.Compare(b.Score, a.Score); c != 0 {
					return c
				}
				return compareItemPath(a.Item, b.Item)
			})
			merged = slices.CompactFunc(merged, func(a, b RankedResult) bool {
				return a.Score == b.Score && a.Item.ChestIdentifier == b.Item.ChestIdentifier && a.Item.Path.Equal(b.Item.Path)
			})
			if len(merged) > resultCount {
				merged = merged[:resultCount]
			}
			return searchCacheValue{results: merged}, nil
		}))
	if err != nil {
		return nil, err
	}

	searchesPerformedCount.Inc()
	searchResultsReturnedCount.Add(float64(len(value.results)))
	return value.results, nil
}

// Read applies identifier's theme-dependent path rewrites, then
// defers to the chest store (spec §4.4 "Theme-aware read"). theme is
// "light", "dark", or "" for no adjustment.
func (db *ChestDatabase) Read(identifier, path, theme string) ([]byte, error) {
	db.mu.RLock()
	loaded, ok := db.chests[identifier]
	db.mu.RUnlock()
	if !ok {
		return nil, newErr(KindNotFound, identifier, nil)
	}

	var adjustment *ThemeAdjustment
	switch theme {
	case "light":
		adjustment = loaded.indexed.LightMode
	case "dark":
		adjustment = loaded.indexed.DarkMode
	}
	if adjustment != nil {
		for _, rule := range adjustment.FileReplacements {
			if rewritten, ok := TransformPath(path, rule.Pattern, rule.Replacement); ok {
				path = rewritten
				break
			}
		}
	}
	return loaded.chest.Read(path)
}

// otterLoaderFunc adapts a plain function to otter.Loader[K, V]
// without requiring a type specifically for one-off loads, the same
// role the teacher's trackedLoader wraps around.
type otterLoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

func (f otterLoaderFunc[K, V]) Load(ctx context.Context, key K) (V, error) {
	return f(ctx, key)
}

func (f otterLoaderFunc[K, V]) Reload(ctx context.Context, key K, _ V) (V, error) {
	return f(ctx, key)
}

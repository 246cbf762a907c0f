package docdelve

import (
	"fmt"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// dmp is shared across Patch calls the same way the teacher shares a
// package-level zstdDecomp in src/extract.go instead of constructing
// one per call.
var dmp = diffmatchpatch.New()

// Patch reads the current contents of path as text, applies
// unifiedDiff, and writes the result back (spec §4.1 `patch(path,
// unified_diff)`), the docdelve analog of the teacher's ApplyTarPatch
// (there a whiteout-aware tar overlay; here a unified-diff overlay on
// a single file's text, since chest content patching operates file by
// file rather than on a whole tree). The unifiedDiff text is parsed with
// diffmatchpatch's PatchFromText, so it must be in that library's patch
// format (as produced by PatchToText: character-offset hunks with
// %-encoded text); a line-based diff such as `diff -u` output is not
// accepted and is reported as PatchConflict. Fails with NotText if the
// existing contents are not valid UTF-8, PatchConflict if the patch
// text does not parse or any hunk fails to apply, and propagates
// NotFound from the initial read.
func (c *Chest) Patch(path string, unifiedDiff string) error {
	original, err := c.Read(path)
	if err != nil {
		return err
	}
	if !utf8.Valid(original) {
		return newErr(KindNotText, path, nil)
	}

	patches, err := dmp.PatchFromText(unifiedDiff)
	if err != nil {
		return newErr(KindPatchConflict, path, err)
	}

	patched, applied := dmp.PatchApply(patches, string(original))
	for _, ok := range applied {
		if !ok {
			return newErr(KindPatchConflict, path, fmt.Errorf("hunk did not apply cleanly"))
		}
	}

	return c.Write(path, []byte(patched))
}

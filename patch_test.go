package docdelve

import (
	"errors"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

func unifiedDiffFor(t *testing.T, original, revised string) string {
	t.Helper()
	differ := diffmatchpatch.New()
	diffs := differ.DiffMain(original, revised, false)
	patches := differ.PatchMake(original, diffs)
	return differ.PatchToText(patches)
}

func TestChestPatchAppliesCleanly(t *testing.T) {
	c := New(1 << 20)
	c.Write("notes.txt", []byte("hello world"))

	diff := unifiedDiffFor(t, "hello world", "hello there world")
	if err := c.Patch("notes.txt", diff); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	data, err := c.Read("notes.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "hello there world" {
		t.Errorf("Read after Patch = %q, want %q", data, "hello there world")
	}
}

func TestChestPatchRejectsNonText(t *testing.T) {
	c := New(1 << 20)
	c.Write("blob.bin", []byte{0xff, 0xfe, 0x00, 0xff})

	diff := unifiedDiffFor(t, "a", "b")
	if err := c.Patch("blob.bin", diff); !errors.Is(err, ErrNotText) {
		t.Errorf("Patch on binary data: err = %v, want ErrNotText", err)
	}
}

func TestChestPatchConflict(t *testing.T) {
	c := New(1 << 20)
	c.Write("notes.txt", []byte("completely different contents"))

	diff := unifiedDiffFor(t, "hello world", "hello there world")
	if err := c.Patch("notes.txt", diff); !errors.Is(err, ErrPatchConflict) {
		t.Errorf("Patch against mismatched contents: err = %v, want ErrPatchConflict", err)
	}
}

func TestChestPatchPropagatesNotFound(t *testing.T) {
	c := New(1 << 20)
	if err := c.Patch("missing.txt", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Patch on a missing file: err = %v, want ErrNotFound", err)
	}
}

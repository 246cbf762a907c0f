package docdelve

// ProgressKind enumerates the progress events a generator or the chest
// store itself can emit (spec §6 "Generator progress events"). The core
// only ever emits CompressChest and ExtractChest; the rest exist so a
// single callback type can carry progress from an external generator
// through to a host UI without the core needing to know its shape.
type ProgressKind int

const (
	ProgressOutput ProgressKind = iota
	ProgressDownloadPackage
	ProgressInstallPackage
	ProgressDownloadSource
	ProgressBuild
	ProgressAction
	ProgressCompressChest
	ProgressExtractChest
)

// ProgressEvent is a tagged union over the progress kinds above: only
// the fields relevant to Kind are populated. Done/Total are set for the
// counted events (Build, CompressChest, ExtractChest); Message/Name/
// Description carry the textual events.
type ProgressEvent struct {
	Kind ProgressKind

	Message     string
	Name        string
	Description string
	Done, Total int64
}

// ProgressFunc receives ProgressEvents synchronously; a nil ProgressFunc
// is always safe to call through emitProgress, which skips the call
// rather than requiring every caller to check for nil first.
type ProgressFunc func(ProgressEvent)

func emitProgress(fn ProgressFunc, event ProgressEvent) {
	if fn != nil {
		fn(event)
	}
}

// Package progress defines the closed event-variant types emitted by
// the orchestrator, pack store and exporter, per spec.md §5's
// caller-supplied-sink re-architecture note. Each operation takes a
// single func(Event) callback instead of returning a channel, so a CLI
// sink can render with github.com/schollz/progressbar/v3 while a test
// sink can simply append events to a slice.
package progress

// ScanEvent is emitted during orchestrator.Scan.
type ScanEvent interface{ isScanEvent() }

// SourceStart marks the beginning of scanning one registered source.
type SourceStart struct {
	SourcePath string
	FileCount  int
}

func (SourceStart) isScanEvent() {}

// FileHashed marks completion of hashing (content + perceptual) and
// EXIF extraction for a single file, fired from the orchestrator
// goroutine as it drains the worker pool's results channel.
type FileHashed struct {
	Path string
}

func (FileHashed) isScanEvent() {}

// PhaseComplete marks completion of one scan phase for a source
// ("hash", "diff", "match", "rank") per spec.md §4.8.
type PhaseComplete struct {
	SourcePath string
	Phase      string
}

func (PhaseComplete) isScanEvent() {}

// Removed reports a stale photo removed because it disappeared from
// disk since the last scan.
type Removed struct {
	Path string
}

func (Removed) isScanEvent() {}

// ScanComplete marks the end of the whole Scan operation.
type ScanComplete struct {
	PhotosScanned int
	GroupsFound   int
}

func (ScanComplete) isScanEvent() {}

// VaultEvent is emitted during packstore.Store.Save.
type VaultEvent interface{ isVaultEvent() }

// FileCopied reports a single photo copied into the pack.
type FileCopied struct {
	Path string
}

func (FileCopied) isVaultEvent() {}

// FileSkipped reports a photo already present in the pack (by hash).
type FileSkipped struct {
	Path string
}

func (FileSkipped) isVaultEvent() {}

// VaultFileRemoved reports a pack file removed because it's no longer
// part of the desired archival set.
type VaultFileRemoved struct {
	Path string
}

func (VaultFileRemoved) isVaultEvent() {}

// VaultComplete summarizes a finished pack sync.
type VaultComplete struct {
	Copied  int
	Skipped int
	Removed int
}

func (VaultComplete) isVaultEvent() {}

// ExportEvent is emitted during export.Export.
type ExportEvent interface{ isExportEvent() }

// ExportFileStart marks the beginning of converting/copying one file.
type ExportFileStart struct {
	Path string
}

func (ExportFileStart) isExportEvent() {}

// ExportFileSkipped reports a target path that already existed.
type ExportFileSkipped struct {
	Path string
}

func (ExportFileSkipped) isExportEvent() {}

// ExportComplete summarizes a finished export.
type ExportComplete struct {
	Exported int
	Skipped  int
}

func (ExportComplete) isExportEvent() {}

// Sink is the callback signature every progress-emitting operation
// accepts. A nil sink is valid and means "discard events".
type Sink[E any] func(E)

// Emit calls sink with event if sink is non-nil.
func Emit[E any](sink Sink[E], event E) {
	if sink != nil {
		sink(event)
	}
}

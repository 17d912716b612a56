// Package orchestrator drives the end-to-end scan pipeline: per-source
// incremental file discovery, parallel content/perceptual hashing and
// EXIF extraction, catalog persistence, and a full re-match + re-rank
// pass over the whole catalog. Grounded on the teacher's
// util/import.go GetPhotos/worker/processAndSend worker-pool shape.
package orchestrator

import (
	"runtime"
	"sync"
	"time"

	"github.com/jterrazz/photopack/internal/catalog"
	"github.com/jterrazz/photopack/internal/contenthash"
	"github.com/jterrazz/photopack/internal/matching"
	"github.com/jterrazz/photopack/internal/metaextract"
	"github.com/jterrazz/photopack/internal/model"
	"github.com/jterrazz/photopack/internal/perceptualhash"
	"github.com/jterrazz/photopack/internal/progress"
	"github.com/jterrazz/photopack/internal/ranking"
	"github.com/jterrazz/photopack/internal/scanner"
)

// Scan runs a full incremental scan of every registered source,
// followed by a full re-match and re-rank of the catalog's photos.
// sink may be nil.
func Scan(cat *catalog.Catalog, sink func(progress.ScanEvent)) error {
	if err := reconcilePhashVersion(cat); err != nil {
		return err
	}

	sources, err := cat.ListSources()
	if err != nil {
		return err
	}

	for _, src := range sources {
		if err := scanSource(cat, src, sink); err != nil {
			return err
		}
	}

	if err := rematch(cat, sink); err != nil {
		return err
	}
	return nil
}

// reconcilePhashVersion compares the stored phash_version config key
// against the running binary's perceptualhash.Version. A mismatch (or
// absence, on a brand-new catalog) clears every stored perceptual hash
// so the next scan recomputes them under the current algorithm, per
// spec.md §4.8's version-check step.
func reconcilePhashVersion(cat *catalog.Catalog) error {
	stored, ok, err := cat.GetConfig(model.ConfigPhashVersion)
	if err != nil {
		return err
	}
	if ok && stored == perceptualhash.Version {
		return nil
	}
	if _, err := cat.ClearPerceptualHashes(); err != nil {
		return err
	}
	return cat.SetConfig(model.ConfigPhashVersion, perceptualhash.Version)
}

// hashJob is one file queued for content/perceptual hashing and EXIF
// extraction.
type hashJob struct {
	entry scanner.Entry
}

// hashResult is a fully-populated photo ready for upsert, or an error
// path to skip (e.g. the file vanished between scan and hash).
type hashResult struct {
	photo model.Photo
	ok    bool
}

func scanSource(cat *catalog.Catalog, src model.Source, sink func(progress.ScanEvent)) error {
	entries, err := scanner.Scan(src.Path)
	if err != nil {
		return err
	}
	progress.Emit[progress.ScanEvent](sink, progress.SourceStart{SourcePath: src.Path, FileCount: len(entries)})

	existingMtimes, err := cat.GetMtimesForSource(src.ID)
	if err != nil {
		return err
	}
	needsPhash, err := cat.PhotosNeedingPhashForSource(src.ID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(entries))
	var toHash []scanner.Entry
	for _, e := range entries {
		seen[e.Path] = true
		if mtime, known := existingMtimes[e.Path]; !known || mtime != e.Mtime || needsPhash[e.Path] {
			toHash = append(toHash, e)
		}
	}

	var stalePaths []string
	for path := range existingMtimes {
		if !seen[path] {
			stalePaths = append(stalePaths, path)
		}
	}

	progress.Emit[progress.ScanEvent](sink, progress.PhaseComplete{SourcePath: src.Path, Phase: "diff"})

	photos := hashAndExtract(src.ID, toHash, sink)
	progress.Emit[progress.ScanEvent](sink, progress.PhaseComplete{SourcePath: src.Path, Phase: "hash"})

	if len(photos) > 0 {
		if err := cat.UpsertPhotosBatch(photos); err != nil {
			return err
		}
	}
	if len(stalePaths) > 0 {
		if err := cat.RemovePhotosByPaths(stalePaths); err != nil {
			return err
		}
		for _, p := range stalePaths {
			progress.Emit[progress.ScanEvent](sink, progress.Removed{Path: p})
		}
	}

	if err := cat.SetLastScanned(src.ID, time.Now().Unix()); err != nil {
		return err
	}
	return nil
}

// hashAndExtract fans entries out across a fixed worker pool, each
// worker owning its own metaextract.Extractor (one exiftool process
// per goroutine, mirroring the teacher's worker()), and collects
// results back on the calling goroutine so progress callbacks never
// fire concurrently, per spec.md §5's suspension-point rule.
func hashAndExtract(sourceID int64, entries []scanner.Entry, sink func(progress.ScanEvent)) []model.Photo {
	if len(entries) == 0 {
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(entries) {
		numWorkers = len(entries)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan hashJob, len(entries))
	results := make(chan hashResult, len(entries))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go hashWorker(sourceID, &wg, jobs, results)
	}

	for _, e := range entries {
		jobs <- hashJob{entry: e}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var photos []model.Photo
	for res := range results {
		if !res.ok {
			continue
		}
		photos = append(photos, res.photo)
		progress.Emit[progress.ScanEvent](sink, progress.FileHashed{Path: res.photo.Path})
	}
	return photos
}

func hashWorker(sourceID int64, wg *sync.WaitGroup, jobs <-chan hashJob, results chan<- hashResult) {
	defer wg.Done()

	extractor, err := metaextract.New()
	if err != nil {
		extractor = nil
	}
	if extractor != nil {
		defer extractor.Close()
	}

	for job := range jobs {
		p, ok := process(sourceID, job.entry, extractor)
		results <- hashResult{photo: p, ok: ok}
	}
}

func process(sourceID int64, e scanner.Entry, extractor *metaextract.Extractor) (model.Photo, bool) {
	sha, err := contenthash.HashFile(e.Path)
	if err != nil {
		// File vanished or became unreadable mid-scan: skip it, the
		// next scan's diff will reconcile once it either returns or is
		// no longer listed by the walker.
		return model.Photo{}, false
	}

	p := model.Photo{
		SourceID: sourceID,
		Path:     e.Path,
		Size:     e.Size,
		Format:   e.Format,
		SHA256:   sha,
		Mtime:    e.Mtime,
	}

	if e.Format.SupportsPerceptualHash() {
		if h, ok := perceptualhash.Compute(e.Path, e.Format); ok {
			a, d := h.AHash, h.DHash
			p.PHash = &a
			p.DHash = &d
		}
	}

	if extractor != nil {
		if exif, ok := extractor.Extract(e.Path); ok {
			p.Exif = exif
		}
	}

	return p, true
}

// rematch loads every photo in the catalog, runs the matcher and
// ranker, and atomically replaces the group state.
func rematch(cat *catalog.Catalog, sink func(progress.ScanEvent)) error {
	photos, err := cat.ListAllPhotos()
	if err != nil {
		return err
	}

	matched := matching.Match(photos)
	progress.Emit[progress.ScanEvent](sink, progress.PhaseComplete{Phase: "match"})

	byID := make(map[int64]model.Photo, len(photos))
	for _, p := range photos {
		byID[p.ID] = p
	}

	groups := make([]model.DuplicateGroup, 0, len(matched))
	for _, g := range matched {
		members := make([]model.Photo, 0, len(g.MemberIDs))
		for _, id := range g.MemberIDs {
			if p, ok := byID[id]; ok {
				members = append(members, p)
			}
		}
		if len(members) < 2 {
			continue
		}
		sot := ranking.Elect(members)
		groups = append(groups, model.DuplicateGroup{
			SourceOfTruthID: sot.ID,
			Confidence:      g.Confidence,
			MemberPhotoIDs:  g.MemberIDs,
		})
	}
	progress.Emit[progress.ScanEvent](sink, progress.PhaseComplete{Phase: "rank"})

	if err := cat.ReplaceGroupsBatch(groups); err != nil {
		return err
	}

	progress.Emit[progress.ScanEvent](sink, progress.ScanComplete{PhotosScanned: len(photos), GroupsFound: len(groups)})
	return nil
}

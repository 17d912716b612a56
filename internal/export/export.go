// Package export converts photos to date-organized HEIC files under an
// export directory, delegating the actual pixel conversion to the
// platform's external `sips` tool, discovered via os/exec.LookPath the
// same way the teacher's util/cli.go shells out to `cp`.
package export

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jterrazz/photopack/internal/cerrors"
	"github.com/jterrazz/photopack/internal/model"
	"github.com/jterrazz/photopack/internal/progress"
)

const encoderName = "sips"

// Available reports whether the external HEIC encoder is on PATH.
func Available() bool {
	_, err := exec.LookPath(encoderName)
	return err == nil
}

// Summary reports how an Export call went.
type Summary struct {
	Exported int
	Skipped  int
}

// Export converts every photo in photos to HEIC under exportPath,
// organized as <exportPath>/YYYY/MM/DD/<stem>.heic, with quality in
// [0, 100]. sink may be nil.
func Export(photos []model.Photo, exportPath string, quality int, sink func(progress.ExportEvent)) (Summary, error) {
	if !Available() {
		return Summary{}, cerrors.ErrSipsNotAvailable
	}
	if _, err := os.Stat(exportPath); err != nil {
		return Summary{}, cerrors.ErrExportPathNotFound
	}

	var summary Summary
	for _, p := range photos {
		progress.Emit[progress.ExportEvent](sink, progress.ExportFileStart{Path: p.Path})

		day := exportDate(p)
		dir := filepath.Join(exportPath,
			fmt.Sprintf("%04d", day.Year()), fmt.Sprintf("%02d", int(day.Month())), fmt.Sprintf("%02d", day.Day()))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return summary, &cerrors.IoError{Err: err}
		}

		stem := strings.TrimSuffix(filepath.Base(p.Path), filepath.Ext(p.Path))
		target, skip, err := buildTargetPath(dir, stem, "heic", p.Size)
		if err != nil {
			return summary, err
		}
		if skip {
			summary.Skipped++
			progress.Emit[progress.ExportEvent](sink, progress.ExportFileSkipped{Path: target})
			continue
		}

		if err := convert(p.Path, target, quality); err != nil {
			return summary, &cerrors.ConversionFailed{Path: p.Path, Message: err.Error()}
		}
		summary.Exported++
	}

	progress.Emit[progress.ExportEvent](sink, progress.ExportComplete{Exported: summary.Exported, Skipped: summary.Skipped})
	return summary, nil
}

func convert(src, dst string, quality int) error {
	cmd := exec.Command(encoderName, "-s", "format", "heic", "-s", "formatOptions", strconv.Itoa(quality), src, "--out", dst)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// exportDate derives the export directory's date from EXIF, falling
// back to the photo's mtime.
func exportDate(p model.Photo) time.Time {
	if p.Exif != nil && p.Exif.Date != nil {
		if t, ok := parseExifDate(*p.Exif.Date); ok {
			return t
		}
	}
	return time.Unix(p.Mtime, 0).UTC()
}

// parseExifDate parses an EXIF date string's first whitespace-separated
// token as year[:-]month[:-]day, rejecting out-of-range components.
// Both `:` and `-` separators are accepted, per spec.md §9's
// open-question resolution to preserve the source's tolerance of
// either.
func parseExifDate(s string) (time.Time, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return time.Time{}, false
	}
	datePart := fields[0]

	sep := ":"
	if strings.Contains(datePart, "-") {
		sep = "-"
	}
	parts := strings.Split(datePart, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if year < 1970 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// buildTargetPath finds a vacant (or incrementally-skippable) path for
// dir/stem.ext. If dir/stem.ext exists and its size matches
// expectedSize, it's returned with skip=true (incremental re-export).
// Otherwise dir/stem_1.ext, dir/stem_2.ext, ... are tried until a
// vacant path is found.
func buildTargetPath(dir, stem, ext string, expectedSize int64) (path string, skip bool, err error) {
	candidate := filepath.Join(dir, stem+"."+ext)
	if info, statErr := os.Stat(candidate); statErr == nil {
		if info.Size() == expectedSize {
			return candidate, true, nil
		}
	} else if !os.IsNotExist(statErr) {
		return "", false, &cerrors.IoError{Err: statErr}
	} else {
		return candidate, false, nil
	}

	for i := 1; ; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d.%s", stem, i, ext))
		info, statErr := os.Stat(candidate)
		if os.IsNotExist(statErr) {
			return candidate, false, nil
		}
		if statErr != nil {
			return "", false, &cerrors.IoError{Err: statErr}
		}
		if info.Size() == expectedSize {
			return candidate, true, nil
		}
	}
}

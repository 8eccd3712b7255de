package policy

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jittakal/logarchive/internal/errors"
)

// PruneReport describes one retention pass over a folder.
type PruneReport struct {
	Folder     string
	Candidates int
	Retained   []string
	Deleted    []string
	Errors     []error
}

// Prune deletes every archive in folder beyond the newest
// RetainedFileCountLimit. Archives are files ending in ArchiveSuffix, ordered
// by SortNewestFirst. Each deletion is attempted independently; failures are
// written to the sink and collected in the report.
func (p *Policy) Prune(folder string) *PruneReport {
	report := &PruneReport{Folder: folder}

	names, err := archiveNames(folder)
	if err != nil {
		p.sink.Printf("Error while listing archives in %s: %v", folder, err)
		report.Errors = append(report.Errors, &errors.PruneError{Path: folder, Err: err})
		return report
	}

	report.Candidates = len(names)
	SortNewestFirst(names)

	keep := min(p.config.RetainedFileCountLimit, len(names))
	report.Retained = names[:keep]

	for _, name := range names[keep:] {
		path := filepath.Join(folder, name)
		if err := p.remove(path); err != nil {
			p.sink.Printf("Error while deleting file %s: %v", path, err)
			report.Errors = append(report.Errors, &errors.PruneError{Path: path, Err: err})
			if p.metrics != nil {
				p.metrics.IncFilesPruned("error")
			}
			continue
		}

		report.Deleted = append(report.Deleted, path)
		p.logger.Debug("pruned archive", "path", path)
		if p.metrics != nil {
			p.metrics.IncFilesPruned("success")
		}
	}

	if len(report.Deleted) > 0 {
		p.logger.Info("pruned excess archives",
			"folder", folder,
			"candidates", report.Candidates,
			"deleted", len(report.Deleted),
			"failed", len(report.Errors),
		)
	}

	return report
}

// archiveNames lists regular files in folder whose name ends with
// ArchiveSuffix, ignoring case.
func archiveNames(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ArchiveSuffix) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// SortNewestFirst orders file names most recent first: descending by
// upper-cased name, then descending by exact name. This matches
// chronological order for names that embed a fixed-width timestamp.
func SortNewestFirst(names []string) {
	slices.SortFunc(names, func(a, b string) int {
		if c := strings.Compare(strings.ToUpper(b), strings.ToUpper(a)); c != 0 {
			return c
		}
		return strings.Compare(b, a)
	})
}

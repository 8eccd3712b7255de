// Package policy implements the archive policy applied to retired log files.
//
// A Policy is built once from a Config and then invoked for every file the
// rotation mechanism is about to delete:
//
//	p, err := policy.New(policy.Config{
//		CompressionLevel:       archive.CompressionFastest,
//		TargetDirectory:        "/var/log/archive",
//		RetainedFileCountLimit: 30,
//	}, policy.WithSink(sink))
//	if err != nil {
//		return err
//	}
//	err = p.OnRetire(ctx, "/var/log/app/app20261019.log")
//
// # Destination
//
// The archive is named after the source file, with ".gz" appended when
// compressing. It is written beside the source file, or into
// TargetDirectory, which may contain {Date:yyyy}-style tokens that are
// expanded on every call.
//
// # Retention
//
// When RetainedFileCountLimit is set, every ".gz" file in the (fixed)
// target folder is a candidate. Candidates are ordered by file name,
// case-insensitively and descending, and all but the first N are deleted.
// Name ordering assumes file names embed a sortable timestamp, which holds
// for rolling-file suffixes such as app20261019.log or app-2026-10-19_003.log.
// Modification times are not used.
//
// Retention requires compression and a template-free TargetDirectory; New
// rejects any other combination with a *errors.ConfigError.
//
// # Failures
//
// Transfer failures are written to the sink as
// "Error while archiving file <path>: <err>" and returned. Deletion failures
// during pruning are written to the sink and recorded in the PruneReport but
// never returned.
package policy

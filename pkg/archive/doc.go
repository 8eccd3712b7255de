// Package archive defines the public API shared by the archival policy,
// its callers, and post-archive observers.
//
// # Retiring Files
//
// A rotation mechanism calls a Retirer once per file, right before it deletes
// that file:
//
//	if err := retirer.OnRetire(ctx, "/var/log/app/app20261018.log"); err != nil {
//	    // archive failed; keep the original for the next rotation cycle
//	    return err
//	}
//	os.Remove("/var/log/app/app20261018.log")
//
// # Compression Levels
//
// CompressionLevel selects between a byte copy and a single-pass gzip stream:
//
//	archive.CompressionNone         // plain copy, original file name
//	archive.CompressionFastest      // gzip, fastest level, ".gz" suffix
//	archive.CompressionOptimal      // gzip, balanced level
//	archive.CompressionSmallestSize // gzip, best compression
//
// Levels parse from configuration strings:
//
//	level, err := archive.ParseCompressionLevel("fastest")
//
// # Diagnostics
//
// Sink receives diagnostic lines that never reach the caller as errors:
// unsupported path tokens, archive failures, and pruning failures.
//
// # Observers
//
// Observer implementations (object storage mirrors, notifications) receive
// an Event after every successful archive. Their errors are reported to the
// Sink and do not fail OnRetire.
package archive

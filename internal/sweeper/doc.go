// Package sweeper retires finalized log files from a live log directory.
//
// A sweep lists the files in Directory matching Pattern, keeps the newest
// RetainedLiveFiles of them (by the same name ordering archive retention
// uses) and hands every older file to an archive.Retirer. Once a file is
// archived the original is deleted when DeleteAfterArchive is set; a file
// whose archive fails stays where it is and is retried by the next sweep.
//
// Sweeps run on demand, on a cron schedule (Scheduler) or when a rotation
// creates a new log file (Watcher). Only one sweep runs at a time; a sweep
// requested while another is in progress returns errors.ErrSweeperBusy.
//
// When the retirer recognizes its own archives (policy.Policy does), those
// names are skipped even if they match Pattern, so archives written beside
// the live files are never retired again and never trigger the watcher.
package sweeper

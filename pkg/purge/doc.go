// Package purge implements the concurrent page fan-out that drives the
// order sweep across both backend systems.
//
// The sweeper:
//   - Fetches page 1 to learn total record and page counts
//   - Spawns one page task per page (page 1 reuses the discovery envelope)
//   - Each task fetches its page, then deletes its records sequentially
//   - Collects typed PageResult values and folds them in the calling
//     goroutine, so no shared mutable state needs locking
//
// A failed page fetch contributes zero processed records and does not
// stop the run; only a failed discovery fetch aborts the sweep. Delete
// calls are single-attempt and best-effort: a record counts as processed
// once both systems were called, whatever the calls returned. The
// per-record outcome of both calls is surfaced through logs and metrics
// for a future reconciliation layer.
//
// Example usage:
//
//	sweeper, err := purge.NewSweeper(strapiClient, strapiClient, shopifyClient, purge.Config{})
//	summary, err := sweeper.Run(ctx)
package purge

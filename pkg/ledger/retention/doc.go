// Package retention prunes old ledger records.
//
// A Pruner deletes records older than RetentionDays; a Scheduler runs it on
// a cron schedule (robfig/cron, standard five-field syntax):
//
//	pruner := retention.NewPruner(store, retention.Config{
//	    RetentionDays: 30,
//	    PruneSchedule: "0 3 * * *",
//	})
//	scheduler := retention.NewScheduler(pruner)
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
package retention

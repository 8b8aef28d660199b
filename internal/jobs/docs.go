// Package jobs runs the periodic work of the delivery core on
// github.com/robfig/cron/v3 schedules with a leading seconds field.
//
// DeliveryMatchingJob takes the oldest pending deliveries and matches each one,
// in its own transaction, with an available courier of the pickup city.
// RiskSweepJob re-scores available couriers, stores reports that need a manual
// review and takes critical couriers offline.
//
//	manager := jobs.NewJobManager(matchHandler, sweepHandler, jobs.Schedules{
//		Matching:  "*/5 * * * * *",
//		RiskSweep: "0 0 * * * *",
//	}, logger)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// A round with nothing to match logs nothing. Handler errors are logged and the
// next tick runs as usual. If one job fails to start, the ones already running
// are stopped.
package jobs

package background

import (
	"context"
	"log"
	"sync"
	"time"

	"stockyfy/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the background statistics refresh for the active
// warehouse.
type JobScheduler struct {
	scheduler   gocron.Scheduler
	refreshSvc  *jobs.StatsRefreshService
	warehouseID int64
	interval    time.Duration
	jobsByName  map[string]gocron.Job
	mu          sync.RWMutex
}

// NewJobScheduler creates a scheduler for the given warehouse. interval
// controls how often the statistics rescan runs.
func NewJobScheduler(refreshSvc *jobs.StatsRefreshService, warehouseID int64, interval time.Duration) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		refreshSvc:  refreshSvc,
		warehouseID: warehouseID,
		interval:    interval,
		jobsByName:  make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler.
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler.
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	statsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.refreshStatistics, context.Background()),
		gocron.WithName("statistics-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create statistics refresh job: %v", err)
	} else {
		js.jobsByName["statistics-refresh"] = statsJob
	}
}

func (js *JobScheduler) refreshStatistics(ctx context.Context) {
	js.mu.RLock()
	warehouseID := js.warehouseID
	js.mu.RUnlock()

	if err := js.refreshSvc.ScheduledRefresh(ctx, warehouseID); err != nil {
		log.Printf("Statistics refresh job failed: %v", err)
	}
}

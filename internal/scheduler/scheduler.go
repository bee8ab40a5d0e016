package scheduler

import (
	"fmt"
	"log"

	"listing-hub/internal/cleanup"
	"listing-hub/internal/config"
	"listing-hub/internal/database"
	"listing-hub/internal/search"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler runs the daily maintenance job: purge expired soft-deleted
// listings, then rebuild the search index from the surviving rows.
type Scheduler struct {
	cron      *cron.Cron
	db        *gorm.DB
	cleanup   *cleanup.Service
	search    *search.SearchClient
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler. searchClient may be nil when search
// is not configured; reindexing is skipped in that case.
func NewScheduler(db *gorm.DB, searchClient *search.SearchClient, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		db:      db,
		cleanup: cleanup.NewService(db),
		search:  searchClient,
		config:  cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Scheduler.DailyRunEnabled {
		log.Println("Scheduler: Daily run is disabled in configuration")
		return nil
	}

	// Parse daily run time (HH:MM format in config)
	cronSpec := s.parseDailyRunTime(s.config.Scheduler.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily maintenance job...")
		if err := s.runDailyMaintenance(); err != nil {
			log.Printf("Scheduler: Daily maintenance failed: %v", err)
		} else {
			log.Println("Scheduler: Daily maintenance completed successfully")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily run at %s (cron: %s)", s.config.Scheduler.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// runDailyMaintenance executes the purge and reindex routine
func (s *Scheduler) runDailyMaintenance() error {
	cleanupConfig := cleanup.DefaultCleanupConfig()
	if s.config.Cleanup.RetentionDays > 0 {
		cleanupConfig.RetentionDays = s.config.Cleanup.RetentionDays
	}
	if s.config.Cleanup.MaxDeletionCount > 0 {
		cleanupConfig.MaxDeletionCount = s.config.Cleanup.MaxDeletionCount
	}

	result, err := s.cleanup.PhysicallyDelete(cleanupConfig)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	log.Printf("Scheduler: cleanup purged %d/%d listings", result.DeletedCount, result.TargetCount)

	// Remove purged listings from the search index
	if s.search != nil && s.config.Cleanup.DeleteFromSearch {
		for _, number := range result.DeletedNumbers {
			if err := s.search.RemoveListing(number); err != nil {
				log.Printf("Scheduler: failed to remove listing %s from index: %v", number, err)
			}
		}
	}

	// Rebuild the index from all active listings
	if s.search != nil {
		gdb := database.NewGormDBFromDB(s.db)
		listings, err := gdb.GetActiveListings()
		if err != nil {
			return fmt.Errorf("failed to load listings for reindex: %w", err)
		}
		if err := s.search.IndexListings(listings); err != nil {
			return fmt.Errorf("reindex failed: %w", err)
		}
		log.Printf("Scheduler: reindexed %d listings", len(listings))
	}

	return nil
}

// RunNow immediately executes the maintenance job (for manual trigger)
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: Manual trigger - starting maintenance job...")
	return s.runDailyMaintenance()
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "03:00" -> "0 3 * * *" (run at 3:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 3:00 AM if parsing fails
	log.Printf("Scheduler: Failed to parse time '%s', using default 03:00", timeStr)
	return "0 3 * * *"
}

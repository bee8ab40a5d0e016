package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"listing-hub/internal/cleanup"
	"listing-hub/internal/database"
	"listing-hub/internal/history"
	"listing-hub/internal/models"
	"listing-hub/internal/notify"
	"listing-hub/internal/scheduler"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db             *gorm.DB
	gormDB         *database.GormDB
	scheduler      *scheduler.Scheduler
	cleanupService *cleanup.Service
	historyService *history.Service
	outbox         *notify.OutboxWorker
}

// NewAdminHandler creates a new admin handler. sched and outbox may be nil.
func NewAdminHandler(gormDB *database.GormDB, sched *scheduler.Scheduler, outbox *notify.OutboxWorker) *AdminHandler {
	db := gormDB.DB()
	return &AdminHandler{
		db:             db,
		gormDB:         gormDB,
		scheduler:      sched,
		cleanupService: cleanup.NewService(db),
		historyService: history.NewService(db),
		outbox:         outbox,
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	statusCounts, err := h.gormDB.CountByStatus()
	if err != nil {
		log.Printf("Admin: failed to count listings by status: %v", err)
	} else {
		var total int64
		for _, count := range statusCounts {
			total += count
		}
		stats["listings"] = map[string]interface{}{
			"by_status": statusCounts,
			"total":     total,
		}
	}

	var deletedCount int64
	h.db.Model(&models.Listing{}).Where("is_deleted = ?", true).Count(&deletedCount)
	stats["trash"] = map[string]interface{}{
		"soft_deleted": deletedCount,
	}

	// Registrations in the last 24 hours
	last24h := time.Now().AddDate(0, 0, -1)
	var recentlyCreated int64
	h.db.Model(&models.Listing{}).Where("created_at >= ?", last24h).Count(&recentlyCreated)
	stats["recent_activity"] = map[string]interface{}{
		"created_last_24h": recentlyCreated,
	}

	// Field changes in the last 7 days
	last7days := time.Now().AddDate(0, 0, -7)
	var recentChanges int64
	h.db.Model(&models.ListingChange{}).Where("detected_at >= ?", last7days).Count(&recentChanges)
	stats["changes"] = map[string]interface{}{
		"last_7_days": recentChanges,
	}

	deleteStats, err := h.cleanupService.GetDeleteStats()
	if err != nil {
		log.Printf("Admin: failed to get delete stats: %v", err)
	} else {
		stats["deletions"] = deleteStats
	}

	c.JSON(http.StatusOK, stats)
}

// GetTrash returns soft-deleted listings awaiting restore or purge
func (h *AdminHandler) GetTrash(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	listings, err := h.gormDB.GetDeletedListings(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetImportLogs returns recent import runs, newest first
func (h *AdminHandler) GetImportLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "30")
	limit, _ := strconv.Atoi(limitStr)

	var logs []models.ImportLog
	err := h.db.Order("started_at DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imports": logs,
		"count":   len(logs),
	})
}

// RunCleanup executes physical deletion of expired soft-deleted listings
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays    int  `json:"retention_days"`     // Days to keep (default: 90)
		MaxDeletionCount int  `json:"max_deletion_count"` // Safety limit (default: 10000)
		DryRun           bool `json:"dry_run"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config := cleanup.DefaultCleanupConfig()
	if req.RetentionDays > 0 {
		config.RetentionDays = req.RetentionDays
	}
	if req.MaxDeletionCount > 0 {
		config.MaxDeletionCount = req.MaxDeletionCount
	}
	config.DryRun = req.DryRun

	log.Printf("Admin: Running cleanup (retention: %d days, max: %d, dry-run: %v)",
		config.RetentionDays, config.MaxDeletionCount, config.DryRun)

	result, err := h.cleanupService.PhysicallyDelete(config)
	if err != nil {
		log.Printf("Admin: Cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Admin: Cleanup completed: %d/%d purged (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.DryRun)

	c.JSON(http.StatusOK, result)
}

// GetDeleteLogs returns recent delete log entries
func (h *AdminHandler) GetDeleteLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	logs, err := h.cleanupService.GetRecentDeleteLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// GetListingHistory returns field-change history for a listing
func (h *AdminHandler) GetListingHistory(c *gin.Context) {
	number := c.Param("number")
	limitStr := c.DefaultQuery("limit", "30")
	limit, _ := strconv.Atoi(limitStr)

	changes, err := h.historyService.GetListingHistory(number, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property_number": number,
		"changes":         changes,
		"count":           len(changes),
	})
}

// GetRecentChanges returns recent field changes across all listings
func (h *AdminHandler) GetRecentChanges(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	changes, err := h.historyService.GetRecentChanges(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": changes,
		"count":   len(changes),
	})
}

// GetQueueStats returns notification outbox counts by status
func (h *AdminHandler) GetQueueStats(c *gin.Context) {
	if h.outbox == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Notification worker not available"})
		return
	}

	stats, err := h.outbox.QueueStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue": stats})
}

// TriggerMaintenance manually triggers the daily maintenance run
func (h *AdminHandler) TriggerMaintenance(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available (MySQL/GORM required)",
		})
		return
	}

	log.Println("Admin: Manual maintenance trigger requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("Admin: Manual maintenance failed: %v", err)
		} else {
			log.Println("Admin: Manual maintenance completed successfully")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Maintenance job started",
		"status":  "running",
	})
}

// GetDongStats returns listing counts per dong (building block)
func (h *AdminHandler) GetDongStats(c *gin.Context) {
	type DongStat struct {
		Dong  string `json:"dong"`
		Count int64  `json:"count"`
	}

	var stats []DongStat
	err := h.db.Model(&models.Listing{}).
		Select("dong, count(*) as count").
		Where("is_deleted = ? AND dong != ''", false).
		Group("dong").
		Order("count DESC").
		Limit(20).
		Scan(&stats).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dong_stats": stats,
		"count":      len(stats),
	})
}

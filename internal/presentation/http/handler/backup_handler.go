package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/meateat/pos-api/internal/application/service"
	"github.com/meateat/pos-api/internal/presentation/http/dto/response"
)

// BackupHandler handles backup and restore HTTP requests
type BackupHandler struct {
	backupService   *service.BackupService
	settingsService *service.SettingsService
	scheduler       *service.BackupScheduler
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(
	backupService *service.BackupService,
	settingsService *service.SettingsService,
	scheduler *service.BackupScheduler,
) *BackupHandler {
	return &BackupHandler{
		backupService:   backupService,
		settingsService: settingsService,
		scheduler:       scheduler,
	}
}

// GetSettings returns the backup directory and interval
func (h *BackupHandler) GetSettings(c *gin.Context) {
	dir, interval, err := h.settingsService.BackupSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Backup settings retrieved successfully", gin.H{
		"directory":        dir,
		"interval_minutes": interval,
	})
}

// UpdateSettings persists the backup settings and reschedules the timer
func (h *BackupHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		Directory       string `json:"directory"`
		IntervalMinutes int    `json:"interval_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.settingsService.UpdateBackupSettings(c.Request.Context(), req.Directory, req.IntervalMinutes); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.scheduler.Reschedule(req.IntervalMinutes); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Backup settings updated successfully", gin.H{
		"directory":        req.Directory,
		"interval_minutes": req.IntervalMinutes,
	})
}

// Run handles an explicit backup request
func (h *BackupHandler) Run(c *gin.Context) {
	path, err := h.backupService.Backup(c.Request.Context(), c.Query("dir"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Backup completed successfully", gin.H{"path": path})
}

// List handles listing backup files
func (h *BackupHandler) List(c *gin.Context) {
	files, err := h.backupService.List(c.Request.Context(), c.Query("dir"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Backup files retrieved successfully", files)
}

// Restore replaces the database file from a backup. On success the caller
// must restart the application; every later request fails until it does.
func (h *BackupHandler) Restore(c *gin.Context) {
	var req struct {
		Source string `json:"source" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resolved, err := h.backupService.Restore(c.Request.Context(), req.Source)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Restore completed; restart the application", gin.H{
		"restored_from":    resolved,
		"restart_required": true,
	})
}

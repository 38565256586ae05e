package handler

import (
	"fmt"

	"flour-ledger/internal/backup"
	"flour-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler exposes encrypted snapshots of the store.
type BackupHandler struct {
	Backups *backup.Service
}

func NewBackupHandler(backups *backup.Service) *BackupHandler {
	return &BackupHandler{Backups: backups}
}

// CreateBackup POST /api/backups
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	b, err := h.Backups.Create(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"backup": b})
}

// ListBackups GET /api/backups
func (h *BackupHandler) ListBackups(c *gin.Context) {
	list, err := h.Backups.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": list})
}

// DownloadBackup GET /api/backups/:id/download
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	b, err := h.Backups.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.FileName))
	c.File(b.FilePath)
}

// RestoreBackup POST /api/backups/:id/restore
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	res, err := h.Backups.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"restored": res})
}

// DeleteBackup DELETE /api/backups/:id
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	if err := h.Backups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

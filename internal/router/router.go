package router

import (
	"flour-ledger/internal/backup"
	"flour-ledger/internal/config"
	"flour-ledger/internal/handler"
	"flour-ledger/internal/middleware"
	"flour-ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Users    *service.UserService
	Orders   *service.OrderService
	Invoices *service.InvoiceService
	Backups  *backup.Service
}

// SetupRouter configures the Gin engine and the JSON API under /api.
func SetupRouter(cfg *config.Config, logger *logrus.Logger, svc Services) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	api := r.Group("/api")

	userHandler := handler.NewUserHandler(svc.Users, svc.Orders, cfg.App.PageSize)
	api.GET("/users", userHandler.ListUsers)
	api.POST("/users", userHandler.CreateUser)
	api.GET("/users/:id", userHandler.GetUser)
	api.PATCH("/users/:id", userHandler.UpdateUser)
	api.DELETE("/users/:id", userHandler.DeleteUser)
	api.GET("/users/:id/orders", userHandler.ListUserOrders)
	api.GET("/users/:id/pending", userHandler.PendingAmount)

	orderHandler := handler.NewOrderHandler(svc.Orders, cfg.App.PageSize)
	api.GET("/orders", orderHandler.ListOrders)
	api.GET("/orders/week", orderHandler.WeekMarks)
	api.POST("/orders", orderHandler.CreateOrder)
	api.POST("/orders/:id/toggle", orderHandler.ToggleOrder)
	api.DELETE("/orders/:id", orderHandler.DeleteOrder)

	invoiceHandler := handler.NewInvoiceHandler(svc.Invoices)
	api.GET("/invoices", invoiceHandler.ListInvoices)
	api.GET("/invoices/days", invoiceHandler.InvoiceDays)
	api.GET("/invoices/total", invoiceHandler.InvoiceTotal)
	api.POST("/invoices", invoiceHandler.CreateInvoice)
	api.PATCH("/invoices/:id", invoiceHandler.UpdateInvoice)
	api.DELETE("/invoices/:id", invoiceHandler.DeleteInvoice)

	exportHandler := handler.NewExportHandler(svc.Users, svc.Orders, svc.Invoices)
	api.GET("/export/invoices", exportHandler.ExportInvoices)
	api.GET("/export/users/:id/orders", exportHandler.ExportUserOrders)

	if svc.Backups != nil {
		backupHandler := handler.NewBackupHandler(svc.Backups)
		api.POST("/backups", backupHandler.CreateBackup)
		api.GET("/backups", backupHandler.ListBackups)
		api.GET("/backups/:id/download", backupHandler.DownloadBackup)
		api.POST("/backups/:id/restore", backupHandler.RestoreBackup)
		api.DELETE("/backups/:id", backupHandler.DeleteBackup)
	}

	return r
}

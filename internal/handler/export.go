package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"flour-ledger/internal/export"
	"flour-ledger/internal/models"
	"flour-ledger/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler streams invoices and orders as spreadsheets.
type ExportHandler struct {
	Users    *service.UserService
	Orders   *service.OrderService
	Invoices *service.InvoiceService
}

func NewExportHandler(users *service.UserService, orders *service.OrderService, invoices *service.InvoiceService) *ExportHandler {
	return &ExportHandler{Users: users, Orders: orders, Invoices: invoices}
}

// ExportInvoices GET /api/export/invoices?year=&month=&day=&format=csv|xlsx
func (h *ExportHandler) ExportInvoices(c *gin.Context) {
	year, month, ok := requireYearMonth(c)
	if !ok {
		return
	}
	day, err := queryInt(c, "day")
	if err != nil {
		badRequest(c, "day must be an integer")
		return
	}
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		badRequest(c, "format must be csv or xlsx")
		return
	}

	invoices, err := h.Invoices.GetInvoices(c.Request.Context(), year, month, day)
	if err != nil {
		fail(c, err)
		return
	}

	// render into memory first so a failure can still produce a JSON error
	var buf bytes.Buffer
	contentType := contentTypeCSV
	if format == "xlsx" {
		contentType = contentTypeXLSX
		err = export.InvoicesXLSX(&buf, invoices)
	} else {
		err = export.InvoicesCSV(&buf, invoices)
	}
	if err != nil {
		fail(c, err)
		return
	}

	name := fmt.Sprintf("invoices_%04d%02d.%s", year, month, format)
	if day != nil {
		name = fmt.Sprintf("invoices_%04d%02d%02d.%s", year, month, *day, format)
	}
	sendFile(c, name, contentType, buf.Bytes())
}

// ExportUserOrders GET /api/export/users/:id/orders
// Walks every page of the user's orders.
func (h *ExportHandler) ExportUserOrders(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	user, err := h.Users.GetUserByID(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if user == nil {
		fail(c, fmt.Errorf("user %s: %w", id, service.ErrNotFound))
		return
	}

	var (
		orders []models.Order
		cursor *time.Time
	)
	for {
		page, err := h.Orders.GetOrdersByUser(ctx, id, cursor, 100)
		if err != nil {
			fail(c, err)
			return
		}
		orders = append(orders, page.Items...)
		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}

	var buf bytes.Buffer
	if err := export.OrdersXLSX(&buf, orders); err != nil {
		fail(c, err)
		return
	}
	sendFile(c, fmt.Sprintf("orders_%s_%s.xlsx", id, time.Now().Format("20060102")), contentTypeXLSX, buf.Bytes())
}

func sendFile(c *gin.Context, name, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, body)
}

package handler

import (
	"strings"

	"flour-ledger/internal/service"
	"flour-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// InvoiceHandler serves the daily invoice ledger.
type InvoiceHandler struct {
	Invoices *service.InvoiceService
}

func NewInvoiceHandler(invoices *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Invoices: invoices}
}

type createInvoiceReq struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Day         int             `json:"day"`
	Time        *string         `json:"time" validate:"omitempty,max=32"`
	Title       string          `json:"title" validate:"required,max=255"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    *int            `json:"quantity" validate:"omitempty,min=1"`
}

type updateInvoiceReq struct {
	Year        *int             `json:"year"`
	Month       *int             `json:"month"`
	Day         *int             `json:"day"`
	Time        *string          `json:"time" validate:"omitempty,max=32"`
	Title       *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=1"`
}

// ListInvoices GET /api/invoices?year=&month=&day=
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	year, month, ok := requireYearMonth(c)
	if !ok {
		return
	}
	day, err := queryInt(c, "day")
	if err != nil {
		badRequest(c, "day must be an integer")
		return
	}

	invoices, err := h.Invoices.GetInvoices(c.Request.Context(), year, month, day)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": invoices})
}

// InvoiceDays GET /api/invoices/days?year=&month=
func (h *InvoiceHandler) InvoiceDays(c *gin.Context) {
	year, month, ok := requireYearMonth(c)
	if !ok {
		return
	}

	days, err := h.Invoices.GetDaysWithInvoices(c.Request.Context(), year, month)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"days": days})
}

// InvoiceTotal GET /api/invoices/total?year=&month=&day=
func (h *InvoiceHandler) InvoiceTotal(c *gin.Context) {
	year, month, ok := requireYearMonth(c)
	if !ok {
		return
	}
	day, err := queryInt(c, "day")
	if err != nil {
		badRequest(c, "day must be an integer")
		return
	}

	total, err := h.Invoices.GetTotalAmountForDate(c.Request.Context(), year, month, day)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"total": total})
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req createInvoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := util.ValidateStruct(req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := util.ValidateDate(req.Year, req.Month, req.Day); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Price.IsNegative() {
		badRequest(c, "price must not be negative")
		return
	}

	invoice, err := h.Invoices.AddInvoice(c.Request.Context(), service.InvoiceInput{
		Year:        req.Year,
		Month:       req.Month,
		Day:         req.Day,
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Quantity:    req.Quantity,
		Time:        req.Time,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"invoice": invoice})
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}
	if err := util.ValidateStruct(req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		badRequest(c, "price must not be negative")
		return
	}

	invoice, err := h.Invoices.UpdateInvoice(c.Request.Context(), c.Param("id"), service.InvoiceUpdate{
		Year:        req.Year,
		Month:       req.Month,
		Day:         req.Day,
		Time:        req.Time,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"invoice": invoice})
}

// DeleteInvoice succeeds for ids that do not exist.
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.Invoices.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

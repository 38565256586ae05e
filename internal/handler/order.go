package handler

import (
	"time"

	"flour-ledger/internal/service"
	"flour-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// OrderHandler serves order endpoints.
type OrderHandler struct {
	Orders   *service.OrderService
	PageSize int
}

func NewOrderHandler(orders *service.OrderService, pageSize int) *OrderHandler {
	return &OrderHandler{Orders: orders, PageSize: pageSize}
}

type createOrderReq struct {
	UserID      string          `json:"user_id" validate:"required"`
	FlourAmount decimal.Decimal `json:"flour_amount"`
	Day         int             `json:"day"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
}

// ListOrders GET /api/orders?year=&month=&day=&cursor=&limit=
// Missing date parts mean today.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	vals, ok := queryInts(c, "year", "month", "day")
	if !ok {
		return
	}
	cursor, limit, ok := pageParams(c, h.PageSize)
	if !ok {
		return
	}

	date := service.DateFilter{Year: vals[0], Month: vals[1], Day: vals[2]}
	page, err := h.Orders.GetOrders(c.Request.Context(), date, cursor, limit)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"items":       page.Items,
		"next_cursor": page.NextCursor,
	})
}

// WeekMarks GET /api/orders/week?start=YYYY-MM-DD
func (h *OrderHandler) WeekMarks(c *gin.Context) {
	start := time.Now()
	if s := c.Query("start"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			badRequest(c, "start must be YYYY-MM-DD")
			return
		}
		start = t
	}

	marks, err := h.Orders.GetOrderDaysInWeek(c.Request.Context(), start)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"days": marks})
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}
	if err := util.ValidateStruct(req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := util.ValidateAmount(req.FlourAmount); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := util.ValidateDate(req.Year, req.Month, req.Day); err != nil {
		badRequest(c, err.Error())
		return
	}

	order, err := h.Orders.AddOrder(c.Request.Context(), req.UserID, req.FlourAmount, req.Day, req.Month, req.Year)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"order": order})
}

// ToggleOrder POST /api/orders/:id/toggle
func (h *OrderHandler) ToggleOrder(c *gin.Context) {
	order, err := h.Orders.ToggleDone(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"order": order})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.Orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

package handler

import (
	"strings"

	"flour-ledger/internal/service"
	"flour-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// UserHandler serves customer endpoints.
type UserHandler struct {
	Users    *service.UserService
	Orders   *service.OrderService
	PageSize int
}

func NewUserHandler(users *service.UserService, orders *service.OrderService, pageSize int) *UserHandler {
	return &UserHandler{Users: users, Orders: orders, PageSize: pageSize}
}

// ---------- request bodies ----------

type createUserReq struct {
	Name        string          `json:"name" validate:"required,max=128"`
	PhoneNumber string          `json:"phone_number" validate:"required,max=32"`
	FlourAmount decimal.Decimal `json:"flour_amount"`
}

type updateUserReq struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=128"`
	PhoneNumber *string          `json:"phone_number" validate:"omitempty,min=1,max=32"`
	FlourAmount *decimal.Decimal `json:"flour_amount"`
}

// ---------- handlers ----------

// ListUsers GET /api/users?cursor=&limit=&q=
func (h *UserHandler) ListUsers(c *gin.Context) {
	cursor, limit, ok := pageParams(c, h.PageSize)
	if !ok {
		return
	}

	page, err := h.Users.ListUsers(c.Request.Context(), cursor, limit, c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"items":       page.Items,
		"next_cursor": page.NextCursor,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Users.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if user == nil {
		fail(c, service.ErrNotFound)
		return
	}
	util.Success(c, util.Response{"user": user})
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := util.ValidateStruct(req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.Users.AddUser(c.Request.Context(), req.Name, req.PhoneNumber, req.FlourAmount)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"user": user})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if req.PhoneNumber != nil {
		trimmed := strings.TrimSpace(*req.PhoneNumber)
		req.PhoneNumber = &trimmed
	}
	if err := util.ValidateStruct(req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.Users.UpdateUser(c.Request.Context(), c.Param("id"), service.UserUpdate{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		FlourAmount: req.FlourAmount,
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"user": user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.Users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

// ListUserOrders GET /api/users/:id/orders?cursor=&limit=
func (h *UserHandler) ListUserOrders(c *gin.Context) {
	cursor, limit, ok := pageParams(c, h.PageSize)
	if !ok {
		return
	}

	page, err := h.Orders.GetOrdersByUser(c.Request.Context(), c.Param("id"), cursor, limit)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"items":       page.Items,
		"next_cursor": page.NextCursor,
	})
}

// PendingAmount GET /api/users/:id/pending
func (h *UserHandler) PendingAmount(c *gin.Context) {
	total, err := h.Orders.GetPendingFlourAmountByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"pending_flour_amount": total})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ampolabs/batchweigh-backend/internal/http/response"
	"github.com/ampolabs/batchweigh-backend/internal/services"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (oh *OrderHandler) Create(c *gin.Context) {
	var req struct {
		Number      string    `json:"number"`
		LotCode     string    `json:"lot_code"`
		ProductID   uuid.UUID `json:"product_id"`
		StructureID uuid.UUID `json:"structure_id"`
		Notes       string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	order, err := oh.orderService.Create(c.Request.Context(), services.CreateOrderInput{
		Number:      req.Number,
		LotCode:     req.LotCode,
		ProductID:   req.ProductID,
		StructureID: req.StructureID,
		Notes:       req.Notes,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, order)
}

func (oh *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := oh.orderService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, order)
}

func (oh *OrderHandler) List(c *gin.Context) {
	orders, err := oh.orderService.List(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, orders)
}

func (oh *OrderHandler) GenerateItems(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	force := c.Query("force") == "true"
	status, err := oh.orderService.GenerateItems(c.Request.Context(), id, force)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order_id": id, "status": status})
}

func (oh *OrderHandler) Evaluate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	status, completedAt, err := oh.orderService.EvaluateCompletion(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order_id": id, "status": status, "completed_at": completedAt})
}

func (oh *OrderHandler) Balance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	balance, err := oh.orderService.Balance(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order_id": id, "balance": balance})
}

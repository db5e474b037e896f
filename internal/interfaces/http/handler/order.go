package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/storeadmin/backend/internal/application/order"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
)

// OrderHandler serves the dashboard's order list and revenue figures
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List godoc
// @Summary      List orders
// @Description  List the orders of a store, newest first, with a joined product name summary
// @Tags         orders
// @Produce      json
// @Param        storeId path int true "Store ID"
// @Success      200 {object} dto.Response{data=[]orderapp.OrderView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{storeId}/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	storeID, ok := parseIDParam(c, middleware.StoreIDParam)
	if !ok {
		h.InvalidInput(c, "Store id is required")
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessList(c, orders, len(orders))
}

// Revenue godoc
// @Summary      Store revenue
// @Description  Total item price of paid orders and the number of paid orders
// @Tags         orders
// @Produce      json
// @Param        storeId path int true "Store ID"
// @Success      200 {object} dto.Response{data=orderapp.RevenueView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{storeId}/revenue [get]
func (h *OrderHandler) Revenue(c *gin.Context) {
	storeID, ok := parseIDParam(c, middleware.StoreIDParam)
	if !ok {
		h.InvalidInput(c, "Store id is required")
		return
	}

	revenue, err := h.orderService.Revenue(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, revenue)
}

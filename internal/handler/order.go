package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/eclora/eclora-api/internal/auth"
	"github.com/eclora/eclora-api/internal/domain/order"
	"github.com/eclora/eclora-api/internal/domain/user"
)

type orderItemRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" binding:"required"`
}

// The storefront sends line items under the "products" key; responses return
// them as "items" with product summaries expanded.
type createOrderRequest struct {
	Items           []orderItemRequest `json:"products" binding:"required"`
	ShippingAddress order.Address      `json:"shippingAddress"`
	Email           string             `json:"email" binding:"required,email"`
	Phone           string             `json:"phone"`
	TotalAmount     decimal.Decimal    `json:"totalAmount" binding:"required"`
	PaymentStatus   string             `json:"paymentStatus"`
	OrderStatus     string             `json:"orderStatus"`
	StripeSessionID string             `json:"stripeSessionId"`
}

// updateOrderStatusRequest accepts both "status" and "orderStatus" for the
// fulfillment axis; orderStatus wins when both are present.
type updateOrderStatusRequest struct {
	Status        *string `json:"status"`
	OrderStatus   *string `json:"orderStatus"`
	PaymentStatus *string `json:"paymentStatus"`
}

func (r updateOrderStatusRequest) fulfillment() *string {
	if r.OrderStatus != nil {
		return r.OrderStatus
	}
	return r.Status
}

type orderItemDTO struct {
	ProductID string             `json:"productId"`
	Name      string             `json:"name"`
	Price     decimal.Decimal    `json:"price"`
	Quantity  int                `json:"quantity"`
	Product   *productSummaryDTO `json:"product,omitempty"`
}

type productSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type customerSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderDTO struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId,omitempty"`
	User            *customerSummaryDTO `json:"user,omitempty"`
	Items           []orderItemDTO      `json:"items"`
	ShippingAddress order.Address       `json:"shippingAddress"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	PaymentStatus   order.PaymentStatus `json:"paymentStatus"`
	OrderStatus     order.Status        `json:"orderStatus"`
	StripeSessionID string              `json:"stripeSessionId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func toOrderDTO(o *order.Order) orderDTO {
	items := make([]orderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			items[i].Product = &productSummaryDTO{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Image: item.Product.Image,
			}
		}
	}

	dto := orderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		Email:           o.Email,
		Phone:           o.Phone,
		TotalAmount:     o.TotalAmount,
		PaymentStatus:   o.PaymentStatus,
		OrderStatus:     o.Status,
		StripeSessionID: o.StripeSessionID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.User != nil {
		dto.User = &customerSummaryDTO{ID: o.User.ID, Name: o.User.Name, Email: o.User.Email}
	}
	return dto
}

func toOrderDTOs(orders []order.Order) []orderDTO {
	dtos := make([]orderDTO, len(orders))
	for i := range orders {
		dtos[i] = toOrderDTO(&orders[i])
	}
	return dtos
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "products, email and totalAmount are required")
		return
	}

	items := make([]order.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	createReq := order.CreateRequest{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		Email:           req.Email,
		Phone:           req.Phone,
		TotalAmount:     req.TotalAmount,
		StripeSessionID: req.StripeSessionID,
		PaymentStatus:   order.PaymentStatus(req.PaymentStatus),
		Status:          order.Status(req.OrderStatus),
	}
	if claims := auth.ClaimsFrom(c); claims != nil {
		createReq.UserID = claims.UserID
	}

	created, err := h.orders.Create(c.Request.Context(), createReq)
	if err != nil {
		var (
			notFoundErr *order.ProductNotFoundError
			stockErr    *order.InsufficientStockError
			quantityErr *order.InvalidQuantityError
		)
		switch {
		case errors.Is(err, order.ErrEmptyItems),
			errors.Is(err, order.ErrEmailRequired),
			errors.Is(err, order.ErrInvalidStatus),
			errors.As(err, &stockErr),
			errors.As(err, &quantityErr):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &notFoundErr):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}
	respondData(c, http.StatusCreated, "Order placed successfully", toOrderDTO(created))
}

func (h *Handler) listOrders(c *gin.Context) {
	statusFilter := order.Status(c.Query("status"))
	if statusFilter != "" && !order.ValidStatus(statusFilter) {
		respondError(c, http.StatusBadRequest, "invalid order status")
		return
	}

	orders, err := h.orders.ListAll(c.Request.Context(), statusFilter)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "Orders fetched successfully", toOrderDTOs(orders))
}

// listUserOrders serves a user's order history. Non-admin callers may only
// fetch their own orders.
func (h *Handler) listUserOrders(c *gin.Context) {
	userID := c.Param("userId")
	claims := auth.ClaimsFrom(c)
	if claims.Role != user.RoleAdmin && claims.UserID != userID {
		respondError(c, http.StatusForbidden, "not authorized to view these orders")
		return
	}

	orders, err := h.orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "Orders fetched successfully", toOrderDTOs(orders))
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var upd order.StatusUpdate
	if s := req.fulfillment(); s != nil {
		status := order.Status(*s)
		upd.Status = &status
	}
	if req.PaymentStatus != nil {
		ps := order.PaymentStatus(*req.PaymentStatus)
		upd.PaymentStatus = &ps
	}

	updated, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			respondError(c, http.StatusNotFound, "order not found")
		case errors.Is(err, order.ErrInvalidStatus):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}
	respondData(c, http.StatusOK, "Order updated successfully", toOrderDTO(updated))
}

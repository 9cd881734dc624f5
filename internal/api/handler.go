package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Mwvndva/bybloshq-orders/internal/availability"
	"github.com/Mwvndva/bybloshq-orders/internal/policy"
	"github.com/Mwvndva/bybloshq-orders/internal/service"
	"github.com/Mwvndva/bybloshq-orders/internal/store"
	"github.com/Mwvndva/bybloshq-orders/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Handler contains HTTP handlers
type Handler struct {
	orders     *service.OrderService
	bookings   *service.BookingService
	storefront *service.StorefrontService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	bookings *service.BookingService,
	storefront *service.StorefrontService,
) *Handler {
	return &Handler{
		orders:     orders,
		bookings:   bookings,
		storefront: storefront,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders/:id/transition", h.transitionOrder)
		v1.POST("/orders/:id/cancel", h.cancelOrder)

		v1.GET("/services/:id/slots", h.serviceSlots)
		v1.POST("/bookings", h.createBooking)

		v1.POST("/products", h.createProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.GET("/products", h.listProducts)

		v1.POST("/withdrawals", h.requestWithdrawal)
		v1.GET("/withdrawals", h.listWithdrawals)

		v1.GET("/analytics/summary", h.analyticsSummary)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listOrders returns the seller's orders as display views
func (h *Handler) listOrders(c *gin.Context) {
	sellerID, ok := sellerID(c)
	if !ok {
		return
	}

	views, err := h.orders.ListOrders(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": views})
}

// getOrder returns a single order with items
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

type transitionRequest struct {
	Action string `json:"action" binding:"required"`
}

// transitionOrder applies a seller action to an order
func (h *Handler) transitionOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	order, err := h.orders.Transition(c.Request.Context(), orderID, policy.Action(req.Action))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// cancelOrder cancels an order and reports the refund
func (h *Handler) cancelOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	refund, err := h.orders.Cancel(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"refund_amount": refund})
}

// serviceSlots lists the bookable slots for a service on a date
func (h *Handler) serviceSlots(c *gin.Context) {
	serviceID, ok := pathID(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	day, err := h.bookings.Slots(c.Request.Context(), serviceID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, day)
}

// createBooking creates a service booking order
func (h *Handler) createBooking(c *gin.Context) {
	var req service.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	order, err := h.bookings.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// createProduct creates a storefront product
func (h *Handler) createProduct(c *gin.Context) {
	sellerID, ok := sellerID(c)
	if !ok {
		return
	}

	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.storefront.CreateProduct(c.Request.Context(), sellerID, &in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// updateProduct updates a storefront product
func (h *Handler) updateProduct(c *gin.Context) {
	sellerID, ok := sellerID(c)
	if !ok {
		return
	}
	productID, ok := pathID(c)
	if !ok {
		return
	}

	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.storefront.UpdateProduct(c.Request.Context(), sellerID, productID, &in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// listProducts returns the seller's products
func (h *Handler) listProducts(c *gin.Context) {
	sellerID, ok := sellerID(c)
	if !ok {
		return
	}

	products, err := h.storefront.ListProducts(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

type withdrawalRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// requestWithdrawal files a payout request
func (h *Handler) requestWithdrawal(c *gin.Context) {
	sellerID, ok := sellerID(c)
	if !ok {
		return
	}

	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	w, err := h.storefront.RequestWithdrawal(c.Request.Context(), sellerID, req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"withdrawal": w})
}

// listWithdrawals returns the seller's payout requests
func (h *Handler) listWithdrawals(c *gin.Context) {
	sellerID, ok := sellerID(c)
	if !ok {
		return
	}

	ws, err := h.storefront.ListWithdrawals(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": ws})
}

// analyticsSummary returns per-status counts and totals
func (h *Handler) analyticsSummary(c *gin.Context) {
	sellerID, ok := sellerID(c)
	if !ok {
		return
	}

	summary, err := h.storefront.Summary(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// sellerID reads the authenticated seller from the gateway-injected header
func sellerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.GetHeader("X-Seller-ID"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid X-Seller-ID header"})
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to HTTP statuses. Upstream failures end
// up as 500s with the message attached; local state was never changed.
func respondError(c *gin.Context, err error) {
	var illegal *policy.IllegalTransitionError
	var invalid *availability.ValidationError

	switch {
	case errors.As(err, &illegal):
		c.JSON(http.StatusConflict, gin.H{"error": illegal.Error()})
	case errors.Is(err, service.ErrTransitionInFlight),
		errors.Is(err, store.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "field": invalid.Field})
	case errors.Is(err, store.ErrOrderNotFound),
		errors.Is(err, store.ErrServiceNotFound),
		errors.Is(err, store.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

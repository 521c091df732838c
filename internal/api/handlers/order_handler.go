// backend-go/internal/api/handlers/order_handler.go
package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alloyhq/console/backend-go/internal/domain"
	"github.com/alloyhq/console/backend-go/internal/service"
	"github.com/alloyhq/console/backend-go/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const maxDocumentSize = 10 << 20 // 10 MiB

type OrderHandler struct {
	orderService *service.OrderService
	documents    storage.DocumentStore
}

func NewOrderHandler(orderService *service.OrderService, documents storage.DocumentStore) *OrderHandler {
	if documents == nil {
		documents = storage.NewNoopStore()
	}
	return &OrderHandler{orderService: orderService, documents: documents}
}

type createOrderRequest struct {
	DealerID              int64            `json:"dealer_id" binding:"required"`
	ProductID             int64            `json:"product_id" binding:"required"`
	Quantity              int              `json:"quantity" binding:"required,gt=0"`
	Price                 *decimal.Decimal `json:"price"`
	IsClaim               bool             `json:"is_claim"`
	IsRepair              bool             `json:"is_repair"`
	TransportationType    string           `json:"transportation_type"`
	TransportationCharges *decimal.Decimal `json:"transportation_charges"`
}

// CreateOrder validates and classifies a new order line
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	in := domain.CreateOrderInput{
		DealerID:           req.DealerID,
		ProductID:          req.ProductID,
		Quantity:           req.Quantity,
		IsClaim:            req.IsClaim,
		IsRepair:           req.IsRepair,
		TransportationType: domain.TransportationType(req.TransportationType),
	}
	if req.Price != nil {
		in.Price = decimal.NullDecimal{Decimal: *req.Price, Valid: true}
	}
	if req.TransportationCharges != nil {
		in.TransportationCharges = decimal.NullDecimal{Decimal: *req.TransportationCharges, Valid: true}
	}

	line, err := h.orderService.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, line)
}

// GetOrder returns a single order line
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}

	line, err := h.orderService.GetLine(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, line)
}

// Promote moves a pending or in-production line into dispatch
func (h *OrderHandler) Promote(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}

	line, err := h.orderService.Promote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, line)
}

// Send advances a line to sent_for_dispatch
func (h *OrderHandler) Send(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}

	line, err := h.orderService.Send(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, line)
}

// Process confirms delivery, finalizing the line as approved
func (h *OrderHandler) Process(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}

	line, err := h.orderService.Confirm(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, line)
}

// Delete removes a line and restores whatever was reserved for it
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ListDispatch serves the dispatch queues. awaiting_approval and approved are
// daily, paginated views; sent_for_dispatch is the whole backlog as a plain
// array, date parameters ignored.
func (h *OrderHandler) ListDispatch(c *gin.Context) {
	status, ok := domain.ParseDispatchStatus(c.DefaultQuery("status", string(domain.DispatchAwaitingApproval)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
		return
	}

	if status == domain.DispatchSentForDispatch {
		lines, err := h.orderService.DispatchBacklog(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lines)
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.orderService.ListDispatch(c.Request.Context(), status, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListPending lists lines awaiting stock
func (h *OrderHandler) ListPending(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.orderService.ListPending(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListInProduction lists lines waiting on a production run, with plan figures
// refreshed at request time
func (h *OrderHandler) ListInProduction(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, pagination, err := h.orderService.ListInProduction(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lines, "pagination": pagination})
}

// UploadDocument attaches a proof-of-delivery document to a dispatched line
func (h *OrderHandler) UploadDocument(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}

	// make sure the line exists before touching object storage
	if _, err := h.orderService.GetLine(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxDocumentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read document"})
		return
	}

	key := documentKey(id, header.Filename)
	contentType := header.Header.Get("Content-Type")
	if err := h.documents.Put(c.Request.Context(), key, contentType, data); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}

// GetDocumentURL returns a short-lived download link for a stored document
func (h *OrderHandler) GetDocumentURL(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name parameter is required"})
		return
	}

	url, err := h.documents.PresignedGetURL(c.Request.Context(), documentKey(id, name), 15*time.Minute)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func documentKey(lineID int64, filename string) string {
	return fmt.Sprintf("lines/%d/%s", lineID, strings.ReplaceAll(filename, "/", "_"))
}

func parseLineID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
		return 0, false
	}
	return id, true
}

func parseListFilter(c *gin.Context) (domain.ListFilter, error) {
	filter := domain.ListFilter{
		Page:   parsePositiveIntWithDefault(c.Query("page"), 1),
		Limit:  parsePositiveIntWithDefault(c.Query("limit"), 20),
		Search: strings.TrimSpace(c.Query("search")),
	}

	dates, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return filter, err
	}
	filter.Dates = dates

	return filter, nil
}

func parseDateRange(start, end string) (domain.DateRange, error) {
	var r domain.DateRange

	if s := strings.TrimSpace(start); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return r, fmt.Errorf("invalid startDate, want YYYY-MM-DD")
		}
		r.From = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return r, fmt.Errorf("invalid endDate, want YYYY-MM-DD")
		}
		// inclusive end of day
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		r.To = &t
	}

	return r, nil
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}

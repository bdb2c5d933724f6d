package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cruisedesk/sales-service/cache"
	"github.com/cruisedesk/sales-service/model"
	"github.com/cruisedesk/sales-service/sales"
	"github.com/cruisedesk/sales-service/service"
	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type SalesHandler struct {
	engine      *sales.Engine
	sessions    cache.SessionStore
	searcher    *sales.CustomerSearcher
	kafkaWriter *kafka.Writer
	log         *logrus.Logger

	sessionTTL time.Duration
	demoToken  string
}

func NewSalesHandler(engine *sales.Engine, sessions cache.SessionStore, searcher *sales.CustomerSearcher,
	kafkaWriter *kafka.Writer, log *logrus.Logger, sessionTTL time.Duration, demoToken string) *SalesHandler {
	return &SalesHandler{
		engine:      engine,
		sessions:    sessions,
		searcher:    searcher,
		kafkaWriter: kafkaWriter,
		log:         log,
		sessionTTL:  sessionTTL,
		demoToken:   demoToken,
	}
}

// CreateSession opens a fresh sales session for the authenticated operator
func (h *SalesHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	// Body is optional; the company normally comes from the token.
	_ = c.ShouldBindJSON(&req)

	companyID := c.GetString("company_id")
	if companyID == "" {
		companyID = req.CompanyID
	}
	operatorID := c.GetString("operator_id")

	session := h.engine.NewSession(companyID, operatorID)
	if err := h.sessions.SaveSession(c.Request.Context(), session, h.sessionTTL); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to store session",
		})
		return
	}

	c.JSON(http.StatusCreated, h.sessionResponse(session))
}

// GetSession returns the full session snapshot
func (h *SalesHandler) GetSession(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

// SearchSailings resolves candidate sailings from query filters
func (h *SalesHandler) SearchSailings(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	filter := service.SailingFilter{
		Destination: c.Query("destination"),
		Date:        c.Query("date"),
		Status:      c.Query("status"),
	}

	sailings, err := h.engine.SearchSailings(c.Request.Context(), session, filter)
	if err != nil {
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Error:   "backend_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sailings": sailings})
}

// ChooseSailing loads the ship layout for the chosen sailing and moves the
// session to the selection phase
func (h *SalesHandler) ChooseSailing(c *gin.Context) {
	var req model.ChooseSailingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := h.engine.ChooseSailing(c.Request.Context(), session, req.SailingID); err != nil {
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Error:   "sailing_unavailable",
			Message: err.Error(),
		})
		return
	}

	if !h.saveSession(c, session) {
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

// DeckCabins lists one deck's cabins in display order with selectability
func (h *SalesHandler) DeckCabins(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	if session.Context == nil {
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Error:   "no_sailing",
			Message: "No sailing has been chosen for this session",
		})
		return
	}

	deck, err := strconv.Atoi(c.Param("deck"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_deck",
			Message: "Deck must be a number",
		})
		return
	}

	unavailable := sales.UnavailableSet(session.Context)
	response := model.DeckCabinsResponse{Deck: deck, Cabins: []model.DeckCabin{}}
	for _, cabin := range sales.CabinsOnDeck(session.Context.Cabins, deck) {
		selectable, reason := sales.SelectableReason(cabin, unavailable, session)
		response.Cabins = append(response.Cabins, model.DeckCabin{
			Cabin:      cabin,
			Selectable: selectable,
			Reason:     reason,
		})
	}

	c.JSON(http.StatusOK, response)
}

// UpdateSelection changes the in-progress pick; any change clears the quote
func (h *SalesHandler) UpdateSelection(c *gin.Context) {
	var req model.UpdateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if req.CabinID != nil {
		if err := h.engine.SelectCabin(session, *req.CabinID); err != nil {
			h.engineError(c, err)
			return
		}
	}
	if req.Guests != nil {
		if err := h.engine.SetGuests(session, *req.Guests); err != nil {
			h.engineError(c, err)
			return
		}
	}
	if req.PriceType != nil {
		if err := h.engine.SetPriceType(session, *req.PriceType); err != nil {
			h.engineError(c, err)
			return
		}
	}
	if req.CouponCode != nil {
		if err := h.engine.SetCoupon(session, *req.CouponCode); err != nil {
			h.engineError(c, err)
			return
		}
	}
	if req.LoyaltyTier != nil {
		if err := h.engine.SetLoyaltyTier(session, *req.LoyaltyTier); err != nil {
			h.engineError(c, err)
			return
		}
	}

	if !h.saveSession(c, session) {
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

// ListPriceTypes returns the active rate plans for the selector
func (h *SalesHandler) ListPriceTypes(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	types, err := h.engine.ListPriceTypes(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Error:   "backend_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"price_types": types})
}

// RequestQuote prices the current selection
func (h *SalesHandler) RequestQuote(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	quote, err := h.engine.RequestQuote(c.Request.Context(), session)
	if err != nil {
		h.engineError(c, err)
		return
	}

	if !h.saveSession(c, session) {
		return
	}
	c.JSON(http.StatusOK, model.QuoteResponse{Quote: *quote})
}

// AddToCart stages the quoted selection as a cart item
func (h *SalesHandler) AddToCart(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	item, err := h.engine.AddToCart(session)
	if err != nil {
		h.engineError(c, err)
		return
	}
	if item == nil {
		// Nothing staged: no quoted cabin to add. The cart is unchanged.
		c.JSON(http.StatusOK, h.cartResponse(session))
		return
	}

	if !h.saveSession(c, session) {
		return
	}
	c.JSON(http.StatusCreated, h.cartResponse(session))
}

// RemoveFromCart drops a staged cart item
func (h *SalesHandler) RemoveFromCart(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if !h.engine.RemoveFromCart(session, c.Param("itemId")) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Error:   "not_found",
			Message: "Cart item not found",
		})
		return
	}

	if !h.saveSession(c, session) {
		return
	}
	c.JSON(http.StatusOK, h.cartResponse(session))
}

// SearchCustomers is the debounced search-as-you-type directory lookup. The
// request parks until the query settles; a newer keystroke supersedes it.
func (h *SalesHandler) SearchCustomers(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	query := c.Query("q")
	result := <-h.searcher.Search(c.Request.Context(), session.ID, session.CompanyID, query)
	switch {
	case errors.Is(result.Err, sales.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "empty_query",
			Message: result.Err.Error(),
		})
	case errors.Is(result.Err, sales.ErrSearchSuperseded):
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Error:   "superseded",
			Message: "Query was replaced by a newer one",
		})
	case result.Err != nil:
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Error:   "backend_error",
			Message: result.Err.Error(),
		})
	default:
		c.JSON(http.StatusOK, model.CustomerSearchResponse{
			Customers: result.Customers,
			Query:     result.Query,
		})
	}
}

// Checkout attaches the customer and converts the cart into inventory holds
func (h *SalesHandler) Checkout(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if session.Phase == model.PhaseSelection && len(session.Cart) > 0 {
		if err := h.engine.GoToCheckout(session); err != nil {
			h.engineError(c, err)
			return
		}
	}

	batch := h.engine.CreateHoldsAndCheckout(c.Request.Context(), session, req.CustomerID)
	if !h.saveSession(c, session) {
		return
	}

	response := model.CheckoutResponse{
		Phase: session.Phase,
		Held:  batch.Held,
	}

	if batch.Err != nil {
		if errors.Is(batch.Err, sales.ErrEmptyCustomer) || errors.Is(batch.Err, sales.ErrWrongPhase) {
			h.engineError(c, batch.Err)
			return
		}
		if batch.Failed != nil {
			response.FailedItemID = batch.Failed.ID
		}
		response.Error = batch.Err.Error()
		c.JSON(http.StatusConflict, response)
		return
	}

	if len(batch.Held) > 0 {
		h.publishCheckoutCompleted(c, session, batch.Held)
	}
	c.JSON(http.StatusOK, response)
}

// ProcessPayment confirms every held booking
func (h *SalesHandler) ProcessPayment(c *gin.Context) {
	var req model.PaymentRequest
	_ = c.ShouldBindJSON(&req)
	if req.PaymentToken == "" {
		req.PaymentToken = h.demoToken
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	batch := h.engine.ProcessPayment(c.Request.Context(), session, req.PaymentToken)
	if !h.saveSession(c, session) {
		return
	}

	response := model.PaymentResponse{
		Phase:     session.Phase,
		Confirmed: batch.Confirmed,
	}

	if batch.Err != nil {
		if errors.Is(batch.Err, sales.ErrWrongPhase) {
			h.engineError(c, batch.Err)
			return
		}
		if batch.Failed != nil {
			response.FailedBookingID = batch.Failed.ID
		}
		response.Error = batch.Err.Error()
		// Bookings confirmed before the failure are still announced.
		h.publishBookingsConfirmed(c, session, batch.Confirmed)
		c.JSON(http.StatusConflict, response)
		return
	}

	h.publishBookingsConfirmed(c, session, batch.Confirmed)
	c.JSON(http.StatusOK, response)
}

// ResetSession returns the session to the search phase
func (h *SalesHandler) ResetSession(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	h.engine.Reset(session)
	h.searcher.Forget(session.ID)

	if !h.saveSession(c, session) {
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

// CloseSession discards a session entirely
func (h *SalesHandler) CloseSession(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	h.searcher.Forget(session.ID)
	if err := h.sessions.DeleteSession(c.Request.Context(), session.ID); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to delete session",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// HealthCheck reports service and session-store health
func (h *SalesHandler) HealthCheck(c *gin.Context) {
	if err := h.sessions.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "service_unavailable",
			Message: "Session store ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    "healthy",
		Service:   "sales-service",
		Timestamp: time.Now(),
	})
}

func (h *SalesHandler) loadSession(c *gin.Context) (*model.SalesSession, bool) {
	session, err := h.sessions.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Error:   "not_found",
				Message: "Sales session not found or expired",
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load session",
		})
		return nil, false
	}

	if operatorID := c.GetString("operator_id"); operatorID != "" && session.OperatorID != operatorID {
		c.JSON(http.StatusForbidden, model.ErrorResponse{
			Error:   "forbidden",
			Message: "Session belongs to another operator",
		})
		return nil, false
	}

	return session, true
}

func (h *SalesHandler) saveSession(c *gin.Context, session *model.SalesSession) bool {
	if err := h.sessions.SaveSession(c.Request.Context(), session, h.sessionTTL); err != nil {
		h.log.WithError(err).WithField("session_id", session.ID).Error("failed to store session")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to store session",
		})
		return false
	}
	return true
}

func (h *SalesHandler) cartResponse(session *model.SalesSession) model.CartResponse {
	total, currency := session.CartTotal()
	return model.CartResponse{
		Items:    session.Cart,
		Total:    total,
		Currency: currency,
	}
}

func (h *SalesHandler) sessionResponse(session *model.SalesSession) model.SessionResponse {
	response := model.SessionResponse{
		Session: session,
		Cart:    h.cartResponse(session),
	}
	if session.Context != nil {
		response.Decks = sales.DeckNumbers(session.Context.Cabins)
	}
	return response
}

func (h *SalesHandler) engineError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	code := "invalid_request"
	switch {
	case errors.Is(err, sales.ErrWrongPhase):
		status = http.StatusConflict
		code = "wrong_phase"
	case errors.Is(err, sales.ErrNoSailingContext):
		status = http.StatusConflict
		code = "no_sailing"
	case errors.Is(err, sales.ErrCabinNotFound):
		status = http.StatusNotFound
		code = "cabin_not_found"
	case errors.Is(err, sales.ErrCabinUnavailable):
		status = http.StatusConflict
		code = "cabin_unavailable"
	case errors.Is(err, sales.ErrNoQuote):
		code = "quote_required"
	case errors.Is(err, sales.ErrCurrencyMismatch):
		code = "currency_mismatch"
	case errors.Is(err, sales.ErrEmptyCustomer):
		code = "customer_required"
	default:
		status = http.StatusBadGateway
		code = "backend_error"
	}

	c.JSON(status, model.ErrorResponse{Error: code, Message: err.Error()})
}

func (h *SalesHandler) publishCheckoutCompleted(c *gin.Context, session *model.SalesSession, held []model.Booking) {
	var total int64
	currency := ""
	bookingIDs := make([]string, 0, len(held))
	for _, booking := range held {
		bookingIDs = append(bookingIDs, booking.ID)
		total += booking.Quote.Total
		if currency == "" {
			currency = booking.Quote.Currency
		}
	}

	h.publishEvent(c, session.ID, model.EventCheckoutCompleted, model.CheckoutCompletedData{
		SessionID:  session.ID,
		CustomerID: session.CustomerID,
		SailingID:  held[0].SailingID,
		BookingIDs: bookingIDs,
		Total:      total,
		Currency:   currency,
	})
}

func (h *SalesHandler) publishBookingsConfirmed(c *gin.Context, session *model.SalesSession, confirmed []model.Booking) {
	for _, booking := range confirmed {
		h.publishEvent(c, booking.ID, model.EventBookingConfirmed, model.BookingConfirmedData{
			SessionID:  session.ID,
			BookingID:  booking.ID,
			CustomerID: session.CustomerID,
			SailingID:  booking.SailingID,
			Total:      booking.Quote.Total,
			Currency:   booking.Quote.Currency,
		})
	}
}

// publishEvent is best effort: a broker outage must not fail the sale. A nil
// writer disables publishing entirely.
func (h *SalesHandler) publishEvent(c *gin.Context, key, eventType string, data interface{}) {
	if h.kafkaWriter == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		h.log.WithError(err).WithField("event_type", eventType).Error("failed to encode event")
		return
	}

	event := model.Event{
		Type: eventType,
		Time: time.Now().UTC(),
		Data: payload,
	}
	value, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).WithField("event_type", eventType).Error("failed to encode event")
		return
	}

	err = h.kafkaWriter.WriteMessages(c.Request.Context(), kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		h.log.WithError(err).WithField("event_type", eventType).Error("failed to publish event")
	}
}

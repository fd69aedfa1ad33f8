package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apppayment "github.com/memoriascard/backend/internal/application/payment"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/memoriascard/backend/internal/interfaces/http/dto"
	"github.com/memoriascard/backend/internal/interfaces/http/middleware"
)

// PaymentHandler serves the checkout functions, the return flow and the history
type PaymentHandler struct {
	BaseHandler
	payments PaymentUseCases
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments PaymentUseCases) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreatePaymentRequest is the create-payment function body
type CreatePaymentRequest struct {
	CardID string `json:"cardId"`
}

// VerifyPaymentRequest is the verify-payment function body
type VerifyPaymentRequest struct {
	SessionID string `json:"sessionId"`
}

// PaymentReturnRequest carries the query parameters of the checkout return URL
type PaymentReturnRequest struct {
	Payment   string `json:"payment" binding:"required,oneof=success canceled"`
	SessionID string `json:"session_id"`
	CardID    string `json:"card_id"`
}

// FunctionError is the body the payment functions answer failures with
type FunctionError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// functionError writes the {error} body of the payment functions. Missing
// sessions answer 401 and server faults 500; everything else is a 400.
func functionError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		c.JSON(http.StatusInternalServerError, FunctionError{Error: "Internal server error"})
		return
	}
	status := http.StatusBadRequest
	if domainErr.Code == dto.ErrCodeNotAuthenticated {
		status = http.StatusUnauthorized
	}
	c.JSON(status, FunctionError{Error: domainErr.Message, Code: domainErr.Code})
}

// CreatePayment opens a checkout session for one of the user's cards
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, FunctionError{Error: "Invalid request body"})
		return
	}

	result, err := h.payments.CreateCheckoutSession(c.Request.Context(), middleware.SessionFrom(c), req.CardID)
	if err != nil {
		functionError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// VerifyPayment asks the processor for a session's status and marks the
// card paid once it is confirmed
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, FunctionError{Error: "Invalid request body"})
		return
	}

	result, err := h.payments.VerifyPaymentStatus(c.Request.Context(), middleware.SessionFrom(c), req.SessionID)
	if err != nil {
		functionError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Return handles the dashboard's checkout return once per session
func (h *PaymentHandler) Return(c *gin.Context) {
	var req PaymentReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.payments.HandleReturn(c.Request.Context(), middleware.SessionFrom(c), apppayment.ReturnInput{
		Payment:   req.Payment,
		SessionID: req.SessionID,
		CardID:    req.CardID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// History lists the user's payments, newest first
func (h *PaymentHandler) History(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.Filter{Page: req.Page, PageSize: req.PageSize}
	page, err := h.payments.History(c.Request.Context(), middleware.SessionFrom(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"plowline/internal/delivery/http/response"
	"plowline/internal/domain/entity"
	"plowline/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// RequestHandler holds dependencies for request lifecycle endpoints.
type RequestHandler struct {
	uc     usecase.RequestUsecase
	logger *slog.Logger
}

// NewRequestHandler is the constructor for RequestHandler, injected by Fx.
func NewRequestHandler(uc usecase.RequestUsecase, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		uc:     uc,
		logger: logger,
	}
}

type submitRequestRequest struct {
	AddressID    string `json:"address_id" validate:"required,uuid"`
	PaymentToken string `json:"payment_token" validate:"required"`
}

// Submit turns the caller's cart into a live request after charging it.
func (h *RequestHandler) Submit(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req submitRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid submission input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ADDRESS_ID", "Invalid address ID format")
	}

	output, err := h.uc.Submit(c.Request().Context(), &usecase.SubmitRequestInput{
		CustomerID:   userID,
		AddressID:    addressID,
		PaymentToken: req.PaymentToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.Request, "Request submitted successfully")
}

// ListLive returns unclaimed live requests for providers to browse.
func (h *RequestHandler) ListLive(c echo.Context) error {
	limit, offset := listParams(c)

	requests, err := h.uc.ListLive(c.Request().Context(), limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, requests, "Live requests retrieved successfully")
}

// GetRequest returns a single request visible to the caller.
func (h *RequestHandler) GetRequest(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	requestID, err := pathUUID(c, "requestId")
	if err != nil {
		return response.BadRequest(c, "INVALID_REQUEST_ID", "Invalid request ID format")
	}

	request, err := h.uc.GetRequest(c.Request().Context(), requestID, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, request, "Request retrieved successfully")
}

// Accept claims a live request for the calling provider.
func (h *RequestHandler) Accept(c echo.Context) error {
	return h.transition(c, h.uc.Accept, "Request accepted successfully")
}

// Cancel returns an accepted request to the live pool.
func (h *RequestHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.uc.Cancel, "Request cancelled successfully")
}

// Start marks an accepted request as in progress.
func (h *RequestHandler) Start(c echo.Context) error {
	return h.transition(c, h.uc.Start, "Request started successfully")
}

// Complete settles a started request and archives it.
func (h *RequestHandler) Complete(c echo.Context) error {
	return h.transition(c, h.uc.Complete, "Request completed successfully")
}

// ListByCustomer returns the caller's active and completed requests.
func (h *RequestHandler) ListByCustomer(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	active, completed, err := h.uc.ListByCustomer(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"active":    active,
		"completed": completed,
	}, "Requests retrieved successfully")
}

// ListByProvider returns the calling provider's active and completed jobs.
func (h *RequestHandler) ListByProvider(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	active, completed, err := h.uc.ListByProvider(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"active":    active,
		"completed": completed,
	}, "Jobs retrieved successfully")
}

// ResolveItemImage resolves a request item's image reference to a fetchable URL.
func (h *RequestHandler) ResolveItemImage(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	requestID, err := pathUUID(c, "requestId")
	if err != nil {
		return response.BadRequest(c, "INVALID_REQUEST_ID", "Invalid request ID format")
	}

	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		return response.BadRequest(c, "INVALID_ITEM_ID", "Invalid item ID format")
	}

	output, err := h.uc.ResolveItemImage(c.Request().Context(), requestID, userID, itemID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"url": output.URL}, "Image URL resolved")
}

// transition runs a provider stage change shared by accept, cancel, start
// and complete.
func (h *RequestHandler) transition(
	c echo.Context,
	fn func(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error),
	message string,
) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	requestID, err := pathUUID(c, "requestId")
	if err != nil {
		return response.BadRequest(c, "INVALID_REQUEST_ID", "Invalid request ID format")
	}

	request, err := fn(c.Request().Context(), requestID, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, request, message)
}

// listParams reads limit and offset query parameters with sane bounds.
func listParams(c echo.Context) (limit, offset int) {
	limit = defaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

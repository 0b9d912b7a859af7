package handler

import (
	"log/slog"
	"net/http"

	"plowline/internal/delivery/http/response"
	"plowline/internal/domain/entity"
	"plowline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CartHandler holds dependencies for cart endpoints.
type CartHandler struct {
	uc     usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: logger,
	}
}

type addItemRequest struct {
	ServiceType string `json:"service_type" validate:"required"`
	JobSize     string `json:"job_size"`

	VehicleModel          string `json:"vehicle_model"`
	PlateNumber           string `json:"plate_number"`
	DrivewaySquareFootage int    `json:"driveway_square_footage" validate:"gte=0"`
	LawnSquareFootage     int    `json:"lawn_square_footage" validate:"gte=0"`
	StreetName            string `json:"street_name"`
	StreetLength          int    `json:"street_length" validate:"gte=0"`
	OtherDescription      string `json:"other_description"`

	Message  string `json:"message"`
	ImageRef string `json:"image_ref"`

	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// AddItem prices a service item and places it in the caller's cart.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.uc.AddItem(c.Request().Context(), &usecase.AddItemInput{
		UserID:                userID,
		ServiceType:           entity.ServiceType(req.ServiceType),
		JobSize:               entity.JobSize(req.JobSize),
		VehicleModel:          req.VehicleModel,
		PlateNumber:           req.PlateNumber,
		DrivewaySquareFootage: req.DrivewaySquareFootage,
		LawnSquareFootage:     req.LawnSquareFootage,
		StreetName:            req.StreetName,
		StreetLength:          req.StreetLength,
		OtherDescription:      req.OtherDescription,
		Message:               req.Message,
		ImageRef:              req.ImageRef,
		Latitude:              req.Latitude,
		Longitude:             req.Longitude,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, item, "Item added to cart")
}

// GetCart returns the caller's cart contents with the running total.
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	output, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"items":       output.Items,
		"total_cents": output.TotalCents,
	}, "Cart retrieved successfully")
}

type updateItemRequest struct {
	JobSize               *string `json:"job_size"`
	ImageRef              *string `json:"image_ref"`
	Message               *string `json:"message"`
	VehicleModel          *string `json:"vehicle_model"`
	PlateNumber           *string `json:"plate_number"`
	DrivewaySquareFootage *int    `json:"driveway_square_footage"`
	LawnSquareFootage     *int    `json:"lawn_square_footage"`
	StreetName            *string `json:"street_name"`
	StreetLength          *int    `json:"street_length"`
	OtherDescription      *string `json:"other_description"`
}

// UpdateItem applies a partial edit to an existing cart item and reprices it.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		return response.BadRequest(c, "INVALID_ITEM_ID", "Invalid item ID format")
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}

	patch := entity.ServiceItemPatch{
		ImageRef:              req.ImageRef,
		Message:               req.Message,
		VehicleModel:          req.VehicleModel,
		PlateNumber:           req.PlateNumber,
		DrivewaySquareFootage: req.DrivewaySquareFootage,
		LawnSquareFootage:     req.LawnSquareFootage,
		StreetName:            req.StreetName,
		StreetLength:          req.StreetLength,
		OtherDescription:      req.OtherDescription,
	}
	if req.JobSize != nil {
		size := entity.JobSize(*req.JobSize)
		patch.JobSize = &size
	}

	item, err := h.uc.UpdateItem(c.Request().Context(), &usecase.UpdateItemInput{
		UserID: userID,
		ItemID: itemID,
		Patch:  patch,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "Item updated successfully")
}

// RemoveItem deletes one item from the caller's cart.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		return response.BadRequest(c, "INVALID_ITEM_ID", "Invalid item ID format")
	}

	if err := h.uc.RemoveItem(c.Request().Context(), userID, itemID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Item removed"}, "Item removed successfully")
}

// ClearCart removes every item from the caller's cart.
func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.uc.ClearCart(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Cart cleared"}, "Cart cleared successfully")
}

package handler

import (
	"log/slog"
	"net/http"

	"plowline/internal/delivery/http/response"
	"plowline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AddressHandler holds dependencies for address book endpoints.
type AddressHandler struct {
	uc     usecase.AddressUsecase
	logger *slog.Logger
}

// NewAddressHandler is the constructor for AddressHandler, injected by Fx.
func NewAddressHandler(uc usecase.AddressUsecase, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{
		uc:     uc,
		logger: logger,
	}
}

type createAddressRequest struct {
	Label       string  `json:"label" validate:"required"`
	FullAddress string  `json:"full_address" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	IsPrimary   bool    `json:"is_primary"`
}

// CreateAddress adds an entry to the caller's address book.
func (h *AddressHandler) CreateAddress(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req createAddressRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	address, err := h.uc.CreateAddress(c.Request().Context(), &usecase.CreateAddressInput{
		UserID:      userID,
		Label:       req.Label,
		FullAddress: req.FullAddress,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsPrimary:   req.IsPrimary,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, address, "Address created successfully")
}

// ListAddresses returns the caller's address book.
func (h *AddressHandler) ListAddresses(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	addresses, err := h.uc.ListAddresses(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, addresses, "Addresses retrieved successfully")
}

type updateAddressRequest struct {
	Label       *string  `json:"label"`
	FullAddress *string  `json:"full_address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	IsPrimary   *bool    `json:"is_primary"`
}

// UpdateAddress applies a partial edit to an address book entry.
func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	addressID, err := pathUUID(c, "addressId")
	if err != nil {
		return response.BadRequest(c, "INVALID_ADDRESS_ID", "Invalid address ID format")
	}

	var req updateAddressRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}

	address, err := h.uc.UpdateAddress(c.Request().Context(), &usecase.UpdateAddressInput{
		UserID:      userID,
		AddressID:   addressID,
		Label:       req.Label,
		FullAddress: req.FullAddress,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsPrimary:   req.IsPrimary,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, address, "Address updated successfully")
}

// DeleteAddress removes an entry from the caller's address book.
func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	addressID, err := pathUUID(c, "addressId")
	if err != nil {
		return response.BadRequest(c, "INVALID_ADDRESS_ID", "Invalid address ID format")
	}

	if err := h.uc.DeleteAddress(c.Request().Context(), userID, addressID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Address deleted"}, "Address deleted successfully")
}

// Package entity contains the core business objects of the project.
package entity

import "errors"

// Invariant violations raised by entity-level validation. The usecase layer
// translates these into the user-facing error taxonomy.
var (
	// ErrItemIdentityMissing is returned when a cart item lacks its id or owner.
	ErrItemIdentityMissing = errors.New("service item identity fields missing")
	// ErrItemTypeInvalid is returned when a cart item carries an unknown service type.
	ErrItemTypeInvalid = errors.New("service item type invalid")
	// ErrItemPriceNegative is returned when a cart item price is below zero.
	ErrItemPriceNegative = errors.New("service item price negative")
	// ErrStageTransitionInvalid is returned when a stage transition is not part of the lifecycle.
	ErrStageTransitionInvalid = errors.New("stage transition invalid")
)

// Package delivery defines the contract every serving surface implements.
package delivery

import "context"

// Delivery is a long-running serving surface (HTTP API, background worker).
// Serve blocks until the server stops; shutdown is driven through fx
// lifecycle hooks.
type Delivery interface {
	Serve(ctx context.Context) error
}

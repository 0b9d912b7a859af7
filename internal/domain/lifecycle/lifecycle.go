// Package lifecycle holds shared timeouts for fx start/stop hooks and
// graceful shutdown paths.
package lifecycle

import "time"

// DefaultTimeout bounds startup pings and shutdown drains.
const DefaultTimeout = 10 * time.Second

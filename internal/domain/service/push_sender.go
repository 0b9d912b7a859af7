package service

import "context"

// PushSender defines the optional push channel behind the notification log.
// The log write is the source of truth; push delivery is best effort and a
// failure never rolls back the appended entry.
type PushSender interface {
	// SendToUser pushes a message to the user's registered devices.
	SendToUser(ctx context.Context, userID string, title, body string, data map[string]string) error
}

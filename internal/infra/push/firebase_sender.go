// Package push provides the PushSender implementation behind the
// notification log's best-effort delivery channel.
package push

import (
	"context"
	"log/slog"

	"plowline/config"
	"plowline/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// userTopicPrefix namespaces the per-user FCM topic each client subscribes
// to after login.
const userTopicPrefix = "user-"

// firebaseSender delivers pushes through Firebase Cloud Messaging. Each user
// maps to one topic, so device token bookkeeping stays on the client side.
type firebaseSender struct {
	client *messaging.Client
}

// noopSender is used when Firebase is not configured. The notification log
// remains the source of truth either way.
type noopSender struct {
	logger *slog.Logger
}

func (s *noopSender) SendToUser(ctx context.Context, userID string, title, body string, data map[string]string) error {
	s.logger.Debug("[NoopPush] Push delivery disabled, skipping",
		slog.String("user_id", userID),
	)

	return nil
}

// Params holds dependencies for the push sender, injected by Fx
type Params struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewPushSender creates a PushSender based on configuration. Without Firebase
// credentials it degrades to a no-op sender.
func NewPushSender(params Params) (service.PushSender, error) {
	cfg := params.Config.Firebase
	if cfg == nil || cfg.CredentialsPath == "" {
		params.Logger.Info("Firebase not configured, using no-op push sender")

		return &noopSender{logger: params.Logger}, nil
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(params.Ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(params.Ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	params.Logger.Info("Firebase push sender initialized",
		slog.String("project_id", cfg.ProjectID),
	)

	return &firebaseSender{client: client}, nil
}

// SendToUser pushes a message to the user's topic.
func (s *firebaseSender) SendToUser(ctx context.Context, userID string, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: userTopicPrefix + userID,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		return errors.Wrap(err, "failed to send push notification")
	}

	return nil
}

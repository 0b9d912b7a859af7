package middleware

import (
	"log/slog"

	deliverycontext "plowline/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware assigns each HTTP call a trace id, taken from the
// inbound X-Request-Id header when present, and derives a trace-scoped logger.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

// NewRequestIDMiddleware creates the trace id middleware.
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
	}
}

// Process resolves the trace id, echoes it on the response header, and
// stores id and logger where the usecase layer can reach them.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		traceID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		deliverycontext.SetTraceID(c, traceID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, traceID)

		traceLogger := m.logger.With(slog.String("trace_id", traceID))

		ctx := c.Request().Context()
		ctx = deliverycontext.WithTraceID(ctx, traceID)
		ctx = deliverycontext.WithLogger(ctx, traceLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

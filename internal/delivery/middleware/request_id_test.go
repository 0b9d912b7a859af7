package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "plowline/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTraceMiddleware(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := NewRequestIDMiddleware(logger)

	handler := mw.Process(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	return c, rec
}

func TestProcessKeepsInboundTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "trace-abc")

	c, rec := runTraceMiddleware(t, req)

	assert.Equal(t, "trace-abc", deliverycontext.TraceID(c))
	assert.Equal(t, "trace-abc", rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, "trace-abc", deliverycontext.TraceIDFromContext(c.Request().Context()))
}

func TestProcessGeneratesTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	c, rec := runTraceMiddleware(t, req)

	generated := deliverycontext.TraceID(c)
	_, err := uuid.Parse(generated)
	require.NoError(t, err, "generated trace id should be a uuid")
	assert.Equal(t, generated, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

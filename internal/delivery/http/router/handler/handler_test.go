package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, target string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec)
}

func TestCallerID(t *testing.T) {
	c := newTestContext(t, "/")

	_, ok := callerID(c)
	assert.False(t, ok, "missing userID should not resolve")

	c.Set("userID", "not-a-uuid")
	_, ok = callerID(c)
	assert.False(t, ok, "wrong type should not resolve")

	id := uuid.New()
	c.Set("userID", id)
	got, ok := callerID(c)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestPathUUID(t *testing.T) {
	c := newTestContext(t, "/")
	id := uuid.New()
	c.SetParamNames("requestId")
	c.SetParamValues(id.String())

	got, err := pathUUID(c, "requestId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	c.SetParamValues("nope")
	_, err = pathUUID(c, "requestId")
	assert.Error(t, err)
}

func TestListParams(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", target: "/", wantLimit: defaultListLimit, wantOffset: 0},
		{name: "explicit values", target: "/?limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{name: "limit capped", target: "/?limit=5000", wantLimit: maxListLimit, wantOffset: 0},
		{name: "garbage ignored", target: "/?limit=abc&offset=-3", wantLimit: defaultListLimit, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, tt.target)
			limit, offset := listParams(c)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

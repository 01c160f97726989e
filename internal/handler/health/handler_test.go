package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *Handler, path string) (int, map[string]interface{}) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandler_Live(t *testing.T) {
	code, body := serve(t, NewHandler(nil), "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UP", body["status"])
}

func TestHandler_Ready(t *testing.T) {
	up := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("refused") })

	code, body := serve(t, NewHandler(map[string]Pinger{"database": up, "cache": up}), "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UP", body["status"])

	code, body = serve(t, NewHandler(map[string]Pinger{"database": up, "cache": down}), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "DOWN", body["status"])
	assert.Equal(t, "DOWN", body["checks"].(map[string]interface{})["cache"])
}

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type downPinger struct{}

func (downPinger) Ping(context.Context) error {
	return common.StoreError(errors.New("connection refused"))
}

type harness struct {
	srv     *Server
	metrics *metrics.HTTPMetrics
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.StoreDriver = config.StoreMemory
	cfg.SecretKey = testSecret
	return cfg
}

func newHarness(t *testing.T, cfg *config.Config, pinger Pinger) *harness {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}

	store := repomanager.NewInMemoryRepositoryManager()
	if pinger == nil {
		pinger = store
	}
	codec, err := auth.NewTokenCodec([]byte(cfg.SecretKey), auth.WithIssuer(cfg.TokenIssuer))
	require.NoError(t, err)

	logger := logging.Nop()
	authSvc := services.NewAuthService(store.Users(), store.Todos(), auth.NewBcryptHasher(bcrypt.MinCost), codec, logger)
	todoSvc := services.NewTodoService(store.Todos(), logger)
	m := metrics.New()

	return &harness{
		srv:     NewServer(cfg, logger, authSvc, todoSvc, pinger, m),
		metrics: m,
	}
}

// do sends a request. A string body is sent verbatim, anything else is
// JSON-encoded.
func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)
	return rec
}

// signup registers email and returns the issued token.
func (h *harness) signup(t *testing.T, email string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/users", "", map[string]string{"email": email, "password": "pass1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := rec.Header().Get(common.AuthTokenHeaderName)
	require.NotEmpty(t, token)
	return token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlas-oracle/internal/common/config"
	"atlas-oracle/internal/common/logger"
	"atlas-oracle/internal/oracle"
	selectoraclecard "atlas-oracle/internal/workers/oracle/select-oracle-card"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingOracle struct{ err error }

func (f failingOracle) Execute(context.Context, *selectoraclecard.Input) (*selectoraclecard.Output, error) {
	return nil, f.err
}

func newTestServer(t *testing.T, opts Options) http.Handler {
	t.Helper()
	if opts.Oracle == nil {
		handler, err := selectoraclecard.NewHandler(selectoraclecard.HandlerOptions{
			Logger: logger.NewTestLogger(t),
			Source: "http",
		})
		require.NoError(t, err)
		opts.Oracle = handler
	}
	opts.Config.Debug = true
	opts.Logger = logger.NewTestLogger(t)

	srv, err := NewServer(opts)
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewServer_RequiresOracle(t *testing.T) {
	_, err := NewServer(Options{})
	assert.Error(t, err)
}

func TestHandleDraw(t *testing.T) {
	h := newTestServer(t, Options{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCard   string
		wantCode   string
	}{
		{
			name:       "empty body is an empty survey",
			body:       "",
			wantStatus: http.StatusOK,
			wantCard:   oracle.CardInterstellarJourney,
		},
		{
			name:       "empty object",
			body:       "{}",
			wantStatus: http.StatusOK,
			wantCard:   oracle.CardInterstellarJourney,
		},
		{
			name:       "full survey",
			body:       `{"name":"Ada","email":"ada@example.com","birthMonth":"February","currentFocus":"career deadline","energyLevel":"high intensity surge"}`,
			wantStatus: http.StatusOK,
			wantCard:   oracle.CardMartianThreshold,
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_SURVEY_INPUT",
		},
		{
			name:       "wrong field type",
			body:       `{"energyLevel":9}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_SURVEY_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/oracle", tt.body, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantCode != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Error.Code)
				assert.NotEmpty(t, resp.Error.Message)
				return
			}

			var resp DrawResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCard, resp.Card.Name)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestHandleDraw_SameSurveySameResponse(t *testing.T) {
	h := newTestServer(t, Options{})
	body := `{"name":"Nova","birthMonth":"April","currentFocus":"dreams and signs"}`

	first := do(t, h, http.MethodPost, "/api/oracle", body, nil)
	second := do(t, h, http.MethodPost, "/api/oracle", body, nil)

	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestHandleDraw_OracleFailure(t *testing.T) {
	h := newTestServer(t, Options{Oracle: failingOracle{err: stderrors.New("boom")}})

	w := do(t, h, http.MethodPost, "/api/oracle", "{}", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "boom")
}

func TestHandleCards(t *testing.T) {
	catalog, err := oracle.NewCatalog([]oracle.Card{
		{ID: 7, Name: oracle.CardHyperbolicPath},
		{ID: 2, Name: oracle.CardInterstellarJourney},
	})
	require.NoError(t, err)
	h := newTestServer(t, Options{Catalog: catalog})

	w := do(t, h, http.MethodGet, "/api/oracle/cards", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CardsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Cards, 2)
	assert.Equal(t, oracle.CardHyperbolicPath, resp.Cards[0].Name)
	assert.Len(t, resp.Missing, 8)
}

func TestHandleCards_DefaultCatalogComplete(t *testing.T) {
	h := newTestServer(t, Options{})

	w := do(t, h, http.MethodGet, "/api/oracle/cards", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CardsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Cards, 10)
	assert.Empty(t, resp.Missing)
}

func TestHealthAndReady(t *testing.T) {
	notReady := func(context.Context) error { return stderrors.New("broker down") }

	tests := []struct {
		name       string
		path       string
		ready      ReadyFunc
		wantStatus int
		wantBody   string
	}{
		{name: "health", path: "/health", wantStatus: http.StatusOK, wantBody: "healthy"},
		{name: "ready without check", path: "/ready", wantStatus: http.StatusOK, wantBody: "ready"},
		{name: "ready check fails", path: "/ready", ready: notReady, wantStatus: http.StatusServiceUnavailable, wantBody: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, Options{Ready: tt.ready})
			w := do(t, h, http.MethodGet, tt.path, "", nil)

			require.Equal(t, tt.wantStatus, w.Code)
			var resp StatusResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantBody, resp.Status)
			_, err := time.Parse(time.RFC3339, resp.Time)
			assert.NoError(t, err)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, Options{})
	do(t, h, http.MethodPost, "/api/oracle", "{}", nil)

	w := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "oracle_cards_drawn_total")
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.ServerConfig
		origin     string
		wantHeader string
	}{
		{
			name:       "allow list match",
			cfg:        config.ServerConfig{EnableCORS: true, AllowedOrigins: []string{"https://atlas.example"}},
			origin:     "https://atlas.example",
			wantHeader: "https://atlas.example",
		},
		{
			name:       "wildcard",
			cfg:        config.ServerConfig{EnableCORS: true, AllowedOrigins: []string{"*"}},
			origin:     "https://anywhere.example",
			wantHeader: "*",
		},
		{
			name:   "disabled",
			cfg:    config.ServerConfig{},
			origin: "https://atlas.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, Options{Config: tt.cfg})
			w := do(t, h, http.MethodGet, "/health", "", map[string]string{"Origin": tt.origin})
			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv, err := NewServer(Options{
		Config: config.ServerConfig{Host: "127.0.0.1", Port: 0, Debug: true},
		Oracle: failingOracle{},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, time.Second) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

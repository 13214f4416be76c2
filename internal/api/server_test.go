package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchqueue/researchqueue-server/internal/metadata"
	"github.com/researchqueue/researchqueue-server/internal/metadata/urlinfo"
	"github.com/researchqueue/researchqueue-server/internal/search"
	"github.com/researchqueue/researchqueue-server/internal/service"
	"github.com/researchqueue/researchqueue-server/internal/sse"
	"github.com/researchqueue/researchqueue-server/internal/store"
)

type testServer struct {
	server *Server
	api    humatest.TestAPI
	boards *service.BoardService
	search *search.SearchIndex
	sse    *sse.Manager
}

// setupTestServer creates a server backed by in-memory storage and search,
// with a metadata tier that answers from pages.
func setupTestServer(t *testing.T, pages map[string]*urlinfo.Response) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	kv, err := store.OpenBadgerInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	persister := store.NewPersister(kv, logger)

	idx, err := search.NewSearchIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	tier := metadata.TierFunc{
		TierName: "fake",
		Fn: func(_ context.Context, rawURL string) (*urlinfo.Response, error) {
			if resp, ok := pages[rawURL]; ok {
				return resp, nil
			}
			return nil, urlinfo.ErrServer
		},
	}
	resolver := metadata.NewResolver(metadata.Options{Logger: logger}, tier)

	manager := sse.NewManager(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)
	t.Cleanup(func() {
		cancel()
		_ = manager.Shutdown(context.Background())
	})

	boards := service.NewBoardService(resolver, persister, logger)
	boards.SetEventEmitter(manager)
	boards.SetSearchIndexer(idx)

	srv := NewServer(&Services{Boards: boards, Search: idx, Storage: persister}, manager, Options{
		AllowedOrigins: []string{"http://localhost:3000"},
	}, logger)

	return &testServer{
		server: srv,
		api:    humatest.Wrap(t, srv.API()),
		boards: boards,
		search: idx,
		sse:    manager,
	}
}

// envelopeOf decodes a success envelope's data into T.
func envelopeOf[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var env struct {
		Version int  `json:"v"`
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.True(t, env.Success)
	return env.Data
}

// errorOf decodes an error envelope.
func errorOf(t *testing.T, resp *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	assert.False(t, env.Success)
	return env
}

func (ts *testServer) createBoard(t *testing.T, name string) BoardResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/boards", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return envelopeOf[BoardResponse](t, resp)
}

func (ts *testServer) createItem(t *testing.T, rawURL string, boardIDs ...string) ItemResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/items", map[string]any{"url": rawURL, "board_ids": boardIDs})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return envelopeOf[ItemResponse](t, resp)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := envelopeOf[HealthResponse](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["storage"].Status)
	assert.Equal(t, "no saved boards", health.Components["storage"].Message)
	assert.Equal(t, "healthy", health.Components["search"].Status)
	assert.Equal(t, "healthy", health.Components["events"].Status)
}

func TestHealthCheck_DegradedWithoutOptionalComponents(t *testing.T) {
	ts := setupTestServer(t, nil)
	srv := NewServer(&Services{Boards: ts.boards}, nil, Options{}, nil)
	api := humatest.Wrap(t, srv.API())

	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := envelopeOf[HealthResponse](t, resp)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "search disabled", health.Components["search"].Message)
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	ts := setupTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/boards", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestEnvelopeTransformer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		out, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "x"})
		require.NoError(t, err)

		env, ok := out.(Envelope)
		require.True(t, ok)
		assert.Equal(t, 1, env.Version)
		assert.True(t, env.Success)
		assert.Equal(t, map[string]string{"id": "x"}, env.Data)
	})

	t.Run("detailed error", func(t *testing.T) {
		out, err := EnvelopeTransformer(nil, "400", &APIError{
			Code:    "INVALID_URL",
			Message: "invalid URL",
			Details: map[string]string{"url": "nope"},
		})
		require.NoError(t, err)

		data, err := json.Marshal(out)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		assert.InDelta(t, 1, m["v"], 0)
		assert.Equal(t, false, m["success"])
		assert.Equal(t, "invalid URL", m["error"])
		assert.Equal(t, "INVALID_URL", m["code"])
		assert.Contains(t, m, "details")
	})
}

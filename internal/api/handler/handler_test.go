package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gsearch/gateway/internal/api"
	"github.com/gsearch/gateway/internal/config"
	"github.com/gsearch/gateway/internal/domain"
	"github.com/gsearch/gateway/internal/gateway"
	"github.com/gsearch/gateway/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher serves a fixed provider body and counts Search calls.
type stubSearcher struct {
	body        []byte
	lucky       string
	searchCalls int
}

func (s *stubSearcher) Search(ctx context.Context, q string) ([]byte, error) {
	s.searchCalls++
	return s.body, nil
}

func (s *stubSearcher) Lucky(ctx context.Context, q string) (string, error) {
	return s.lucky, nil
}

// stubResolver always misses.
type stubResolver struct{}

func (stubResolver) Subreddit(ctx context.Context, topic string) (string, error) {
	return "", nil
}

// stubChat is an in-memory chat session.
type stubChat struct {
	model  string
	system string
}

func (s *stubChat) Chat(ctx context.Context, history []domain.Turn, promptOverride string) (*domain.ChatResult, error) {
	return &domain.ChatResult{ID: "cmpl-1", Message: "pong", Model: s.model}, nil
}

func (s *stubChat) Model() string { return s.model }

func (s *stubChat) SetModel(model string) (string, error) {
	s.model = model
	return model, nil
}

func (s *stubChat) Prompt() string { return s.system }

func (s *stubChat) SetPrompt(system string) (string, error) {
	s.system = system
	return system, nil
}

func newTestRouter(t *testing.T) http.Handler {
	router, _ := newTestRouterWithSearcher(t)
	return router
}

func newTestRouterWithSearcher(t *testing.T) (http.Handler, *stubSearcher) {
	t.Helper()

	wwwRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(wwwRoot, "index.html"), []byte("<html>landing</html>"), 0o644))

	st, err := store.Open(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	searcher := &stubSearcher{body: []byte(`{"items":[{"link":"https://hit.test"}]}`), lucky: "https://hit.test"}
	bookmarks := gateway.NewBookmarks(st)

	cfg := &config.Config{}
	cfg.Server.WWWRoot = wwwRoot
	cfg.Server.RequestTimeout = time.Minute

	router := api.NewRouter(cfg, api.Deps{
		Router:     gateway.NewRouter(searcher, stubResolver{}, bookmarks),
		Dispatcher: gateway.NewDispatcher(&stubChat{model: "gpt-4o-mini", system: "sys"}),
		Search:     searcher,
		Bookmarks:  bookmarks,
	})
	return router, searcher
}

func do(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSearchRedirects(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/search?q=g+golang", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://google.com/search?q=golang", w.Header().Get("Location"))
}

func TestSearchMissingQueryIsBadRequest(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchUnprefixedServesLandingPage(t *testing.T) {
	router, searcher := newTestRouterWithSearcher(t)

	w := do(t, router, http.MethodGet, "/search?q=plain+query", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "landing")

	// The landing page fetches its own results; the page load itself
	// must not spend a provider query.
	assert.Equal(t, 0, searcher.searchCalls)
}

func TestAPISearchReturnsRawBody(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/search?q=anything", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"items":[{"link":"https://hit.test"}]}`, w.Body.String())
}

func TestAPISearchMissingQuery(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCmdUnknownCommandIsFriendly(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/cmd", domain.UserCommand{Cmd: "/bogus"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.CmdResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data, "Unknown command `/bogus`")
	assert.True(t, resp.Markdown)
}

func TestCmdChatWithoutArgsIsBadRequest(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/cmd", domain.UserCommand{Cmd: "/chat"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp domain.CmdResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestCmdModelSetThenGet(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/cmd", domain.UserCommand{Cmd: "/model", Args: "gpt-x"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/api/cmd", domain.UserCommand{Cmd: "/model"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.CmdResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "gpt-x", resp.Data)
}

func TestCmdResetIsNotImplemented(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/cmd", domain.UserCommand{Cmd: "/reset"})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestCmdRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cmd", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookmarkAddIsIdempotent(t *testing.T) {
	router := newTestRouter(t)

	b := domain.Bookmark{Name: "x", URL: "https://a.test"}
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/bookmarks/add", b).Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/bookmarks/add", b).Code)

	w := do(t, router, http.MethodGet, "/api/bookmarks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []domain.Bookmark `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestBookmarkAddValidation(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/bookmarks/add", map[string]string{"name": "no-url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookmarkRemoveMissingIsNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/bookmarks/rem?name=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenSearchDescriptor(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/opensearch.xml", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "http://example.com/search?q={searchTerms}")
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gsearch/gateway/internal/api/response"
	"github.com/gsearch/gateway/internal/gateway"
	"github.com/rs/zerolog/log"
)

// SearchHandler serves the prefix-routed search page and the raw search
// proxy.
type SearchHandler struct {
	router  *gateway.Router
	search  gateway.Searcher
	wwwRoot string
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(router *gateway.Router, search gateway.Searcher, wwwRoot string) *SearchHandler {
	return &SearchHandler{router: router, search: search, wwwRoot: wwwRoot}
}

func (h *SearchHandler) indexPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.wwwRoot, "index.html"))
}

// Search routes the q parameter. A redirect outcome becomes a 302;
// anything else falls back to the landing page, which is not an error.
// Unprefixed queries never reach the search provider here; the landing
// page's own JS fetches results through /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		response.BadRequest(w, "missing q parameter")
		return
	}

	result, err := h.router.Redirect(r.Context(), q)
	if err != nil {
		log.Warn().Err(err).Msg("query routing failed, serving landing page")
		h.indexPage(w, r)
		return
	}

	if result.Kind == gateway.KindRedirect {
		http.Redirect(w, r, result.Location, http.StatusFound)
		return
	}

	h.indexPage(w, r)
}

// APISearch proxies q straight to the search provider and returns the
// raw JSON body unchanged.
func (h *SearchHandler) APISearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		response.BadRequest(w, "missing q parameter")
		return
	}

	data, err := h.search.Search(r.Context(), gateway.DecodeQuery(q))
	if err != nil {
		response.ServiceUnavailable(w, "search provider unavailable")
		return
	}
	if len(data) == 0 {
		response.NotFound(w, "no results")
		return
	}

	response.Raw(w, "application/json", data)
}

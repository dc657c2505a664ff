// Package gateway contains the query router and command dispatcher: the
// two entry points that turn a decoded query or command envelope into an
// upstream action.
package gateway

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Searcher is the external search provider surface the router needs.
type Searcher interface {
	// Search proxies q and returns the provider's raw JSON body.
	Search(ctx context.Context, q string) ([]byte, error)
	// Lucky returns the first result's link, or "" for no results.
	Lucky(ctx context.Context, q string) (string, error)
}

// SubredditResolver maps a free-form topic to a subreddit path ("/r/x").
type SubredditResolver interface {
	Subreddit(ctx context.Context, topic string) (string, error)
}

// ResultKind tags a routing outcome.
type ResultKind int

const (
	// KindNone means no action produced a redirect; the caller serves
	// the default landing page. Not an error.
	KindNone ResultKind = iota
	// KindRedirect carries a redirect location.
	KindRedirect
	// KindSearch carries the provider's raw result body.
	KindSearch
)

// Result is the tagged outcome of routing one query.
type Result struct {
	Kind     ResultKind
	Location string
	Body     []byte
}

// Router dispatches on a fixed two-character query prefix (verb letter
// plus space). Unprefixed queries go straight to the search provider.
type Router struct {
	search    Searcher
	reddit    SubredditResolver
	bookmarks *Bookmarks
	logger    zerolog.Logger
}

// NewRouter creates the query router.
func NewRouter(search Searcher, reddit SubredditResolver, bookmarks *Bookmarks) *Router {
	return &Router{
		search:    search,
		reddit:    reddit,
		bookmarks: bookmarks,
		logger:    log.With().Str("component", "router").Logger(),
	}
}

// DecodeQuery collapses the mobile-keyboard artifact that turns spaces
// into periods back into spaces.
func DecodeQuery(raw string) string {
	return strings.ReplaceAll(raw, ".", " ")
}

func redirect(location string) Result {
	return Result{Kind: KindRedirect, Location: location}
}

var none = Result{Kind: KindNone}

// Route decodes the query and dispatches it. Prefixes are checked in a
// fixed priority order; the first match wins. An upstream failure on a
// redirect path degrades to KindNone so the caller falls back to the
// landing page; on the direct-search path it propagates.
func (r *Router) Route(ctx context.Context, raw string) (Result, error) {
	return r.route(ctx, raw, true)
}

// Redirect is Route without the direct-search fallthrough: queries that
// carry no recognized prefix come back as KindNone immediately, with no
// provider call. The search page uses this; the raw-proxy contract for
// unprefixed queries lives on Route.
func (r *Router) Redirect(ctx context.Context, raw string) (Result, error) {
	return r.route(ctx, raw, false)
}

func (r *Router) route(ctx context.Context, raw string, proxy bool) (Result, error) {
	q := DecodeQuery(raw)

	if len(q) < 2 || q[1] != ' ' {
		return r.directSearch(ctx, q, proxy)
	}

	rest := q[2:]

	switch q[:2] {
	case "a ":
		return redirect("https://www.amazon.ca/s?k=" + url.QueryEscape(rest)), nil
	case "b ":
		if b, ok := r.bookmarks.Find(rest); ok {
			return redirect(b.URL), nil
		}
		return none, nil
	case "c ":
		return redirect("/chat.html?q=" + url.QueryEscape(rest)), nil
	case "g ":
		return redirect("https://google.com/search?q=" + url.QueryEscape(rest)), nil
	case "i ":
		return redirect("https://www.google.com/search?q=" + url.QueryEscape(rest) + "&tbm=isch"), nil
	case "l ":
		return r.lucky(ctx, rest)
	case "m ":
		return redirect("https://www.google.com/maps/search/" + url.PathEscape(rest) + "/"), nil
	case "r ":
		return r.subreddit(ctx, rest)
	case "w ":
		return r.lucky(ctx, rest+" wikipedia")
	default:
		return r.directSearch(ctx, q, proxy)
	}
}

func (r *Router) directSearch(ctx context.Context, q string, proxy bool) (Result, error) {
	if !proxy {
		return none, nil
	}
	body, err := r.search.Search(ctx, q)
	if err != nil {
		return none, err
	}
	return Result{Kind: KindSearch, Body: body}, nil
}

func (r *Router) lucky(ctx context.Context, q string) (Result, error) {
	link, err := r.search.Lucky(ctx, q)
	if err != nil {
		r.logger.Warn().Err(err).Str("q", q).Msg("lucky search failed")
		return none, nil
	}
	if link == "" {
		return none, nil
	}
	return redirect(link), nil
}

func (r *Router) subreddit(ctx context.Context, topic string) (Result, error) {
	sub, err := r.reddit.Subreddit(ctx, topic)
	if err != nil {
		r.logger.Warn().Err(err).Str("topic", topic).Msg("subreddit resolution failed")
		return none, nil
	}
	if sub == "" {
		return none, nil
	}
	return redirect("https://old.reddit.com" + sub), nil
}

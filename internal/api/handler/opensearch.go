package handler

import (
	"net/http"
	"strings"
)

const openSearchTemplate = `<OpenSearchDescription xmlns="http://a9.com/-/spec/opensearch/1.1/">
  <ShortName>GSearch</ShortName>
  <Description>Search gsearch.com</Description>
  <Url type="text/html" method="get" template="__SCHEME__://__HOST__/search?q={searchTerms}"/>
  <Image width="16" height="16" type="image/x-icon">__SCHEME__://__HOST__/favicon.ico</Image>
  <InputEncoding>UTF-8</InputEncoding>
  <OutputEncoding>UTF-8</OutputEncoding>
</OpenSearchDescription>`

// OpenSearch serves the browser search-engine descriptor templated with
// the request's host and scheme.
func OpenSearch(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}

	body := strings.ReplaceAll(openSearchTemplate, "__HOST__", r.Host)
	body = strings.ReplaceAll(body, "__SCHEME__", scheme)

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(body))
}

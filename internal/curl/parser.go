package curl

import (
	"net/http"
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
)

const (
	commandPrefix = "curl "
	defaultURL    = "/"
	quoteCutset   = `'"`
)

var (
	dataFlags   = []string{"-d", "--data", "--data-raw", "--data-binary"}
	methodFlags = []string{"-X", "--request"}
	headerFlags = []string{"-H", "--header"}
	urlPrefixes = []string{"http://", "https://", "/"}
)

// IsCommand reports whether s is a cURL invocation.
func IsCommand(s string) bool {
	return strings.HasPrefix(s, commandPrefix)
}

// Parse extracts method, URL, headers and body from a single cURL command.
func Parse(cmd string) domain.ParsedRequest {
	tokens := Split(strings.TrimPrefix(strings.TrimSpace(cmd), commandPrefix))

	body := parseBody(tokens)

	method := parseMethod(tokens)
	if method == "" {
		method = http.MethodGet
		if body != nil {
			method = http.MethodPost
		}
	}

	return domain.ParsedRequest{
		Method:  method,
		URL:     parseURL(tokens),
		Headers: parseHeaders(tokens),
		Body:    body,
	}
}

func isFlag(tok string, flags []string) bool {
	for _, f := range flags {
		if tok == f {
			return true
		}
	}

	return false
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), quoteCutset)
}

// parseBody returns the value of the first data flag.
func parseBody(tokens []string) *string {
	for i := 0; i+1 < len(tokens); i++ {
		if !isFlag(tokens[i], dataFlags) {
			continue
		}

		raw := unquote(tokens[i+1])
		body := raw
		if decoded, ok := decodeEscapes(raw); ok {
			body = decoded
		}

		return &body
	}

	return nil
}

func parseMethod(tokens []string) string {
	for i := 0; i+1 < len(tokens); i++ {
		if isFlag(tokens[i], methodFlags) {
			return strings.ToUpper(strings.TrimSpace(tokens[i+1]))
		}
	}

	return ""
}

// parseURL prefers the last --url value, then the last token that looks like a URL.
func parseURL(tokens []string) string {
	var url string
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i] == "--url" {
			url = tokens[i+1]
		}
	}

	if url == "" {
		for i := len(tokens) - 1; i >= 0; i-- {
			if hasAnyPrefix(tokens[i], urlPrefixes) {
				url = tokens[i]
				break
			}
		}
	}

	if url = unquote(url); url == "" {
		return defaultURL
	}

	return url
}

func parseHeaders(tokens []string) domain.Headers {
	headers := domain.Headers{}
	for i := 0; i+1 < len(tokens); i++ {
		if !isFlag(tokens[i], headerFlags) {
			continue
		}

		name, value, ok := strings.Cut(unquote(tokens[i+1]), ":")
		if !ok {
			continue
		}

		headers.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return headers
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}

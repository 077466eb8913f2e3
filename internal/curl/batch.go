package curl

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

var blankLines = regexp.MustCompile(`\n\s*\n+`)

// Normalize collects candidate commands from an explicit list and a free-text blob.
//
// Non-blank list items come first, then the blob split on blank lines. Duplicates are
// dropped keeping the first occurrence. Chunks are not filtered by the curl prefix here.
func Normalize(text string, list []string) []string {
	var items []string
	for _, c := range list {
		if strings.TrimSpace(c) != "" {
			items = append(items, c)
		}
	}

	if trimmed := strings.TrimSpace(text); trimmed != "" {
		for _, chunk := range blankLines.Split(trimmed, -1) {
			if chunk = strings.TrimSpace(chunk); chunk != "" {
				items = append(items, chunk)
			}
		}
	}

	seen := make(map[string]struct{}, len(items))
	unique := make([]string, 0, len(items))
	for _, c := range items {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}

	return unique
}

// ParseInputs parses every cURL command found in text and list.
//
// When no command is recognised, the remaining chunks are joined and, if they form a
// single JSON value, one POST / request carrying that JSON is produced instead.
func ParseInputs(text string, list []string) domain.RequestBatch {
	requests := []domain.ParsedRequest{}

	var leftovers []string
	for _, c := range Normalize(text, list) {
		if IsCommand(c) {
			requests = append(requests, Parse(c))
		} else {
			leftovers = append(leftovers, c)
		}
	}

	if len(requests) == 0 && len(leftovers) > 0 {
		if req, ok := jsonFallback(leftovers); ok {
			requests = append(requests, req)
		}
	}

	return domain.RequestBatch{Requests: requests}
}

func jsonFallback(leftovers []string) (domain.ParsedRequest, bool) {
	v, err := jsonval.Parse(strings.TrimSpace(strings.Join(leftovers, "\n")))
	if err != nil {
		return domain.ParsedRequest{}, false
	}

	body := jsonval.Dumps(v)
	headers := domain.Headers{}
	headers.Set("Content-Type", "application/json")

	return domain.ParsedRequest{
		Method:  http.MethodPost,
		URL:     defaultURL,
		Headers: headers,
		Body:    &body,
	}, true
}

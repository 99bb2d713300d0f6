package app

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	preparedBinaryParam   = "disable_prepared_binary_result"
	maxTracedQueryLength  = 512
	tracedValuesRowMarker = " VALUES ("
)

// NormalizeDBURL sets disable_prepared_binary_result=yes on a URL or
// keyword/value DSN unless the caller already chose a value.
func NormalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	trimmed := strings.TrimSpace(raw)
	if parsed, ok := parseDBURL(trimmed); ok {
		query := parsed.Query()
		if query.Get(preparedBinaryParam) != "" {
			return raw
		}
		query.Set(preparedBinaryParam, "yes")
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	if trimmed == "" || keywordValue(trimmed, preparedBinaryParam) != "" {
		return raw
	}
	return trimmed + " " + preparedBinaryParam + "=yes"
}

// dbNameFromURL returns the database name of a URL or keyword/value DSN.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, ok := parseDBURL(trimmed); ok {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}
	return keywordValue(trimmed, "dbname")
}

func parseDBURL(raw string) (*url.URL, bool) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return nil, false
	}
	return parsed, true
}

func keywordValue(dsn, key string) string {
	for _, token := range strings.Fields(dsn) {
		name, value, ok := strings.Cut(token, "=")
		if !ok || name != key {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return ""
}

// formatDBQueryForTrace collapses whitespace, shortens multi-row VALUES lists
// to their first row and truncates what is left.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	normalized = collapseValueRows(normalized)
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}

func collapseValueRows(query string) string {
	start := strings.Index(query, tracedValuesRowMarker)
	if start < 0 {
		return query
	}

	depth, rows := 0, 0
	firstEnd, lastEnd := -1, -1
scan:
	for i := start + len(tracedValuesRowMarker) - 1; i < len(query); i++ {
		switch c := query[i]; {
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				rows++
				lastEnd = i + 1
				if firstEnd < 0 {
					firstEnd = lastEnd
				}
			}
		case depth == 0 && c != ',' && c != ' ':
			break scan
		}
	}
	if rows < 2 {
		return query
	}

	return query[:firstEnd] + " /* +" + strconv.Itoa(rows-1) + " rows */" + query[lastEnd:]
}

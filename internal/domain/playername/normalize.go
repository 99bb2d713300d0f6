// Package playername canonicalizes free-text player names so that names typed
// into ranking spreadsheets can be compared with roster-platform names.
package playername

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// generational suffixes dropped when they appear as standalone tokens.
var suffixTokens = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
	"v":   {},
}

// Normalize returns the key form of a player name: lower-case letters, digits
// and single spaces, accents folded and generational suffixes removed.
// "Odell Beckham Jr." and "odell  beckham" both normalize to "odell beckham".
func Normalize(raw string) string {
	return normalize(raw, isKeyRune)
}

// NormalizeLoose is Normalize with the broader punctuation set used for
// ranking names: hyphens, apostrophes and periods survive.
func NormalizeLoose(raw string) string {
	return normalize(raw, isLooseRune)
}

// Clean tidies a spreadsheet name for display. Case is preserved; stray symbols
// and suffix tokens are removed and whitespace is collapsed.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	filtered := filter(fold(raw), isLooseRune)
	tokens := strings.Fields(filtered)
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if isSuffix(strings.ToLower(token)) || strings.Trim(token, "-'.") == "" {
			continue
		}
		out = append(out, token)
	}

	return strings.Join(out, " ")
}

// IsSuffix reports whether token is a generational suffix such as "Jr." or "III".
func IsSuffix(token string) bool {
	return isSuffix(strings.ToLower(strings.TrimSpace(token)))
}

func normalize(raw string, keep func(rune) bool) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	filtered := filter(strings.ToLower(fold(raw)), keep)
	tokens := strings.Fields(filtered)
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if isSuffix(token) {
			continue
		}
		out = append(out, token)
	}

	return strings.Join(out, " ")
}

func isSuffix(lowered string) bool {
	_, ok := suffixTokens[strings.TrimRight(lowered, ".")]
	return ok
}

// fold decomposes accented letters and drops the combining marks, so
// "José" becomes "Jose".
func fold(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, norm.NFKD.String(s))
}

func filter(s string, keep func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case keep(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isKeyRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isLooseRune(r rune) bool {
	switch r {
	case '-', '\'', '.', '_':
		return true
	}
	return isKeyRune(r)
}

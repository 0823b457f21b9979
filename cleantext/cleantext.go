// Normalization of raw post text into clean training material.
//
// Raw items come from platform APIs (Mastodon statuses are HTML, Bluesky
// posts are plain text with URLs and mentions inline) or from previously
// stored training corpora. Normalize strips markup, entities, URLs, mentions,
// repost markers, and control characters, and collapses whitespace, so that
// the result tokenizes cleanly on single spaces. A Cleaner additionally
// removes a configured list of excluded words as whole-word matches.
package cleantext

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// block-level tag boundaries become a space so adjacent blocks don't
	// merge into one run-on sentence; remaining tags are dropped outright
	blockTagRegex = regexp.MustCompile(`(?i)</?(?:p|div|br|blockquote|li|ul|ol|h[1-6]|table|tr|td|th|pre|hr)\b[^>]*>`)
	tagRegex      = regexp.MustCompile(`<[^>]*>`)

	entityRegex  = regexp.MustCompile(`&#?[0-9a-zA-Z]+;`)
	controlRegex = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")

	// scheme-prefixed, www-prefixed, and bare word.tld tokens, including any
	// trailing path/query/fragment. The captured prefix keeps this from
	// matching the host part of a federated @handle.
	urlRegex = regexp.MustCompile(`(?i)(^|[\s("'\[])(?:https?://\S+|www\.\S+|[a-z0-9][a-z0-9-]*(?:\.[a-z]{2,})+(?:[/?#]\S*)?)`)

	// identifier chars with internal dots (federated handles) and internal @
	// (@user@host forms); a trailing colon after a mention is swallowed too
	mentionRegex = regexp.MustCompile(`@[A-Za-z0-9_](?:[A-Za-z0-9_.@-]*[A-Za-z0-9_])?:?`)

	// a leading repost marker plus the mention chain directly following it
	repostRegex = regexp.MustCompile(`(?i)^\s*rt\b:?\s*(?:@[A-Za-z0-9_](?:[A-Za-z0-9_.@-]*[A-Za-z0-9_])?:?\s*)*`)

	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// fixed table of named and numeric entities worth decoding to their literal
// characters; anything else matching entityRegex is dropped, not left verbatim
var entityTable = map[string]string{
	"&amp;":    "&",
	"&lt;":     "<",
	"&gt;":     ">",
	"&quot;":   `"`,
	"&#34;":    `"`,
	"&apos;":   "'",
	"&#39;":    "'",
	"&#x27;":   "'",
	"&nbsp;":   " ",
	"&#160;":   " ",
	"&hellip;": "…",
	"&mdash;":  "—",
	"&ndash;":  "–",
	"&lsquo;":  "‘",
	"&rsquo;":  "’",
	"&ldquo;":  "“",
	"&rdquo;":  "”",
}

// Cleaner is a Normalizer with an optional excluded-word list. The zero-value
// Cleaner behaves exactly like the package-level Normalize.
type Cleaner struct {
	excluded []*regexp.Regexp
}

// New builds a Cleaner that strips each of the given words from normalized
// output. Matching is case-insensitive and whole-word only: an excluded "cat"
// never touches "catalog". Empty and whitespace-only entries are ignored.
func New(excludedWords []string) *Cleaner {
	c := &Cleaner{}
	for _, w := range excludedWords {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		c.excluded = append(c.excluded, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return c
}

// Normalize runs the full cleanup pipeline. It never fails; empty and
// whitespace-only input yield the empty string. Stage order matters: markup
// is stripped before entity decoding, URLs are removed before mentions, and
// excluded words are only matched against already-collapsed text.
func (c *Cleaner) Normalize(raw string) string {
	s := blockTagRegex.ReplaceAllString(raw, " ")
	s = tagRegex.ReplaceAllString(s, "")
	s = collapse(s)

	s = decodeEntities(s)
	s = controlRegex.ReplaceAllString(s, "")

	s = urlRegex.ReplaceAllString(s, "$1")
	s = repostRegex.ReplaceAllString(s, "")
	s = mentionRegex.ReplaceAllString(s, "")
	s = collapse(s)

	for _, re := range c.excluded {
		s = re.ReplaceAllString(s, "")
	}

	// entity decoding can reintroduce stray whitespace characters
	s = controlRegex.ReplaceAllString(s, "")
	return collapse(s)
}

// Normalize is the pipeline without any excluded-word list.
func Normalize(raw string) string {
	return (&Cleaner{}).Normalize(raw)
}

func decodeEntities(s string) string {
	return entityRegex.ReplaceAllStringFunc(s, func(ent string) string {
		if lit, ok := entityTable[ent]; ok {
			return lit
		}
		return ""
	})
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// Fold lower-cases text and removes combining marks (so "Café" folds to
// "cafe"). The bot hashes folded text for posted-content dedup, so trivially
// restyled output still counts as a repeat.
func Fold(s string) string {
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(normFunc, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

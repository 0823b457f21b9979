package cleantext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmpty(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", Normalize(""))
	assert.Equal("", Normalize("   "))
	assert.Equal("", Normalize("\n\t  \n"))
}

func TestNormalizeMarkup(t *testing.T) {
	assert := assert.New(t)

	// block boundaries become spaces so adjacent blocks don't run together
	assert.Equal("Hello world Second block", Normalize("<p>Hello world</p><p>Second block</p>"))
	assert.Equal("line one line two", Normalize("line one<br>line two"))

	// inline tags are dropped outright
	assert.Equal("bold and plain", Normalize("<b>bold</b> and <span class=\"x\">plain</span>"))
}

func TestNormalizeEntities(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("fish & chips <3", Normalize("fish &amp; chips &lt;3"))
	assert.Equal(`say "hi" there`, Normalize("say &quot;hi&quot; there"))
	assert.Equal("don't stop", Normalize("don&#39;t stop"))

	// unknown entities are dropped, not left verbatim
	assert.Equal("a b", Normalize("a &bogus; b"))
	assert.Equal("a b", Normalize("a &#9999; b"))
}

func TestNormalizeControlChars(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("abc", Normalize("a\x00b\x01c"))
	assert.Equal("one two", Normalize("one\x7f two"))
}

func TestNormalizeURLs(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Check out this link", Normalize("Check out this link https://example.com"))
	assert.Equal("go to now", Normalize("go to www.example.com now"))
	assert.Equal("visit today", Normalize("visit example.com/path?q=1#frag today"))
	assert.Equal("read this", Normalize("read this http://example.org/a/b.html"))
}

func TestNormalizeMentions(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("multiple mentions", Normalize("@user1 @user2 multiple mentions"))
	assert.Equal("hello", Normalize("@alice.bsky.social hello"))
	assert.Equal("hi", Normalize("@bob@example: hi"))
	assert.Equal("great take", Normalize("RT @carol: great take"))
	assert.Equal("so true", Normalize("rt @dave @erin so true"))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("hello world !", Normalize("hello\n\n  world\t!"))
	assert.Equal("trimmed", Normalize("   trimmed   "))
}

func TestCleanerExcludedWords(t *testing.T) {
	assert := assert.New(t)

	c := New([]string{"cat", "", "  "})

	// whole-word only: "catalog" keeps its cat
	assert.Equal("catalog the", c.Normalize("cat catalog the cat"))

	// case-insensitive
	assert.Equal("dogs only", c.Normalize("Cat dogs CAT only"))

	// a zero-value cleaner is just Normalize
	var plain Cleaner
	assert.Equal("cat stays", plain.Normalize("cat stays"))
}

func TestNormalizeKitchenSink(t *testing.T) {
	assert := assert.New(t)

	raw := "<p>RT @friend@example: check https://spam.example/x &amp; tell me</p><p>what you think</p>"
	assert.Equal("check & tell me what you think", Normalize(raw))
}

func TestFold(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("cafe", Fold("Café"))
	assert.Equal("uber alles", Fold("Über Alles"))
	assert.Equal("plain", Fold("plain"))
}

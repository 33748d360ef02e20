package tracking

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstrumentAppendsPixel(t *testing.T) {
	inst := NewInstrumenter("https://app.example.com")

	out, err := inst.Instrument("<p>Hello there</p>", "track-123")
	assert.NoError(t, err)
	assert.Contains(t, out, "Hello there")
	assert.Contains(t, out, "/track/open?tid=track-123")
	assert.Contains(t, out, `width="1"`)
}

func TestInstrumentRewritesWebLinks(t *testing.T) {
	inst := NewInstrumenter("https://app.example.com")

	body := `<p>See <a href="https://github.com/someone/project">my project</a></p>`
	out, err := inst.Instrument(body, "track-123")
	assert.NoError(t, err)

	assert.Contains(t, out, "/track/click?tid=track-123")
	assert.Contains(t, out, url.QueryEscape("https://github.com/someone/project"))
	assert.NotContains(t, out, `href="https://github.com/someone/project"`)
	// The link text stays untouched
	assert.Contains(t, out, "my project")
}

func TestInstrumentLeavesMailtoAlone(t *testing.T) {
	inst := NewInstrumenter("https://app.example.com")

	body := `<p><a href="mailto:me@example.com">email me</a></p>`
	out, err := inst.Instrument(body, "track-123")
	assert.NoError(t, err)
	assert.Contains(t, out, `href="mailto:me@example.com"`)
	assert.Equal(t, 1, strings.Count(out, "/track/"), "only the pixel should reference the tracking host")
}

func TestInstrumentEscapesTrackingID(t *testing.T) {
	inst := NewInstrumenter("https://app.example.com/")

	out, err := inst.Instrument("<p>hi</p>", "a b&c")
	assert.NoError(t, err)
	assert.Contains(t, out, "tid=a+b%26c")
	// Trailing slash on the base URL must not produce a double slash
	assert.NotContains(t, out, "com//track")
}

func TestOpenAndClickURLs(t *testing.T) {
	inst := NewInstrumenter("http://localhost:8080")

	assert.Equal(t, "http://localhost:8080/track/open?tid=abc", inst.OpenURL("abc"))

	click := inst.ClickURL("abc", "https://example.com/page?x=1&y=2")
	assert.Contains(t, click, "tid=abc")
	assert.Contains(t, click, url.QueryEscape("https://example.com/page?x=1&y=2"))
}

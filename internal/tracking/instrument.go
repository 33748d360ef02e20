// Package tracking rewrites outgoing HTML so opens and clicks can be
// correlated back to a draft through its tracking identifier.
package tracking

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PixelGIF is the 1x1 transparent image returned by the open endpoint.
var PixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3B,
}

type Instrumenter struct {
	baseURL string
}

func NewInstrumenter(baseURL string) *Instrumenter {
	return &Instrumenter{baseURL: strings.TrimRight(baseURL, "/")}
}

// Instrument appends an invisible open-tracking pixel and routes every
// http(s) hyperlink through the click-redirect endpoint. Non-web links
// (mailto:, tel:) are left alone.
func (i *Instrumenter) Instrument(htmlBody, trackingID string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return "", fmt.Errorf("failed to parse html body: %w", err)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return
		}
		sel.SetAttr("href", i.ClickURL(trackingID, href))
	})

	pixel := fmt.Sprintf(`<img src="%s" width="1" height="1" alt="" style="display:none;">`, i.OpenURL(trackingID))
	doc.Find("body").AppendHtml(pixel)

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render instrumented html: %w", err)
	}
	return out, nil
}

// OpenURL is the pixel endpoint for a tracking id.
func (i *Instrumenter) OpenURL(trackingID string) string {
	return fmt.Sprintf("%s/track/open?tid=%s", i.baseURL, url.QueryEscape(trackingID))
}

// ClickURL is the redirect endpoint carrying the original destination.
func (i *Instrumenter) ClickURL(trackingID, original string) string {
	return fmt.Sprintf("%s/track/click?tid=%s&url=%s", i.baseURL, url.QueryEscape(trackingID), url.QueryEscape(original))
}

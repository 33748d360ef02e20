package gmail

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"outreachpilot/internal/model"
	"outreachpilot/internal/service"
)

func TestBuildMessageSimple(t *testing.T) {
	raw := BuildMessage(&service.OutgoingMessage{
		From:     "sender@example.com",
		To:       "Dr. Smith <smith@university.edu>",
		Subject:  "Quick question",
		HTMLBody: "<p>Hello</p>",
	})

	assert.Contains(t, raw, "From: sender@example.com\r\n")
	assert.Contains(t, raw, "To: Dr. Smith <smith@university.edu>\r\n")
	assert.Contains(t, raw, "Subject: Quick question\r\n")
	assert.Contains(t, raw, "MIME-Version: 1.0\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>Hello</p>"))
	assert.NotContains(t, raw, "multipart")
	assert.NotContains(t, raw, "In-Reply-To")
}

func TestBuildMessageWithAttachment(t *testing.T) {
	doc := model.NewDocument("user-1", "resume.pdf", "application/pdf", []byte("%PDF-1.4 fake"))

	raw := BuildMessage(&service.OutgoingMessage{
		From:        "sender@example.com",
		To:          "smith@university.edu",
		Subject:     "Application",
		HTMLBody:    "<p>Please find my resume attached.</p>",
		Attachments: []*model.Document{doc},
	})

	assert.Contains(t, raw, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, raw, `Content-Type: application/pdf; name="resume.pdf"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
	assert.Contains(t, raw, `Content-Disposition: attachment; filename="resume.pdf"`)
	assert.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake")))

	// The boundary opens, separates, and closes the message
	boundary := extractBoundary(t, raw)
	assert.Equal(t, 2, strings.Count(raw, "--"+boundary+"\r\n"))
	assert.Contains(t, raw, "--"+boundary+"--\r\n")
}

func TestBuildMessageReplyHeaders(t *testing.T) {
	raw := BuildMessage(&service.OutgoingMessage{
		From:       "sender@example.com",
		To:         "smith@university.edu",
		Subject:    "Re: Quick question",
		HTMLBody:   "<p>Following up.</p>",
		InReplyTo:  "<original@mail.gmail.com>",
		References: "<original@mail.gmail.com>",
	})

	assert.Contains(t, raw, "In-Reply-To: <original@mail.gmail.com>\r\n")
	assert.Contains(t, raw, "References: <original@mail.gmail.com>\r\n")
}

func extractBoundary(t *testing.T, raw string) string {
	t.Helper()
	start := strings.Index(raw, `boundary="`)
	assert.GreaterOrEqual(t, start, 0)
	rest := raw[start+len(`boundary="`):]
	end := strings.Index(rest, `"`)
	assert.GreaterOrEqual(t, end, 0)
	return rest[:end]
}

package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/service"
)

type gmailClient struct {
	client *gmail.Service
	logger *logger.Logger
}

func NewClient(accessToken string, logger *logger.Logger) (service.MailboxClient, error) {
	httpClient := &http.Client{
		Transport: &oauth2Transport{token: accessToken},
	}

	gmailService, err := gmail.NewService(context.Background(), option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &gmailClient{
		client: gmailService,
		logger: logger,
	}, nil
}

type oauth2Transport struct {
	token string
}

func (t *oauth2Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

// Profile returns the email address of the authenticated mailbox.
func (g *gmailClient) Profile(ctx context.Context) (string, error) {
	profile, err := g.client.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", wrapAPIError(err)
	}
	return profile.EmailAddress, nil
}

func (g *gmailClient) Send(ctx context.Context, msg *service.OutgoingMessage) (*service.SendResult, error) {
	raw := BuildMessage(msg)
	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}
	if msg.ThreadID != "" {
		gmailMsg.ThreadId = msg.ThreadID
	}

	sent, err := g.client.Users.Messages.Send("me", gmailMsg).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err)
	}

	g.logger.Info("Sent message via Gmail:", sent.Id)
	return &service.SendResult{
		MessageID: sent.Id,
		ThreadID:  sent.ThreadId,
	}, nil
}

// MessageRefs fetches the Message-ID header and thread of an earlier
// message so a reply can be threaded onto it.
func (g *gmailClient) MessageRefs(ctx context.Context, messageID string) (*service.MessageRefs, error) {
	message, err := g.client.Users.Messages.Get("me", messageID).Format("metadata").Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err)
	}

	refs := &service.MessageRefs{ThreadID: message.ThreadId}
	for _, header := range message.Payload.Headers {
		if strings.EqualFold(header.Name, "Message-ID") {
			refs.MessageIDHeader = header.Value
			break
		}
	}
	return refs, nil
}

func (g *gmailClient) Thread(ctx context.Context, threadID string) ([]*model.ThreadMessage, error) {
	thread, err := g.client.Users.Threads.Get("me", threadID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err)
	}

	var messages []*model.ThreadMessage
	for _, msg := range thread.Messages {
		tm := &model.ThreadMessage{
			ID:       msg.Id,
			ThreadID: msg.ThreadId,
			Snippet:  msg.Snippet,
			Date:     time.Unix(msg.InternalDate/1000, 0),
		}
		for _, header := range msg.Payload.Headers {
			switch {
			case strings.EqualFold(header.Name, "From"):
				tm.From = header.Value
			case strings.EqualFold(header.Name, "To"):
				tm.To = header.Value
			}
		}
		tm.Body = g.extractBody(msg.Payload)
		messages = append(messages, tm)
	}

	g.logger.Info("Fetched", len(messages), "messages for thread", threadID)
	return messages, nil
}

func (g *gmailClient) extractBody(payload *gmail.MessagePart) string {
	if len(payload.Parts) > 0 {
		return g.extractMultipartBody(payload.Parts)
	}

	if payload.Body != nil && payload.Body.Data != "" {
		decoded, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err != nil {
			g.logger.Error("Failed to decode message body:", err)
			return ""
		}
		return string(decoded)
	}

	return ""
}

// extractMultipartBody prefers the text/plain part for thread display,
// falling back to HTML and then to any nested content.
func (g *gmailClient) extractMultipartBody(parts []*gmail.MessagePart) string {
	var htmlBody string
	var textBody string

	for _, part := range parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			decoded, err := base64.URLEncoding.DecodeString(part.Body.Data)
			if err != nil {
				g.logger.Error("Failed to decode text message body:", err)
				continue
			}
			textBody = string(decoded)
		} else if part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" {
			decoded, err := base64.URLEncoding.DecodeString(part.Body.Data)
			if err != nil {
				g.logger.Error("Failed to decode HTML message body:", err)
				continue
			}
			htmlBody = string(decoded)
		} else if len(part.Parts) > 0 {
			if nested := g.extractMultipartBody(part.Parts); nested != "" && textBody == "" {
				textBody = nested
			}
		}
	}

	if textBody != "" {
		return textBody
	}
	return htmlBody
}

package ai

import (
	"fmt"
	"strings"

	"outreachpilot/internal/model"
)

// systemPrompt is fixed so generation output stays predictable enough for
// the parser's happy path.
const systemPrompt = `You write personalized cold outreach emails on behalf of the sender described by the user.
Rules:
- The email body must be 150-300 words.
- Use only the details provided. Never invent facts about the sender or recipient.
- Never use bracketed placeholders such as [Your Name] or [Company]; every email must be ready to send as-is.
- Respond with a JSON object containing exactly two string fields, "subject" and "body", and nothing else.`

var purposeDescriptions = map[model.Purpose]string{
	model.PurposeJobApplication:  "applying for a job or expressing interest in open roles",
	model.PurposeResearchInquiry: "inquiring about their research or asking a research-related question",
	model.PurposeCollaboration:   "proposing a collaboration on a project",
	model.PurposeMentorship:      "asking for mentorship or career advice",
	model.PurposeNetworking:      "building a professional connection",
	model.PurposeOther:           "reaching out for the reason given in the additional context",
}

var toneDescriptions = map[model.Tone]string{
	model.ToneFormal:       "formal and professional",
	model.ToneFriendly:     "warm and friendly",
	model.ToneConcise:      "brief and to the point",
	model.ToneEnthusiastic: "energetic and enthusiastic",
}

// BuildPrompt renders the user prompt for one generation attempt. Optional
// fields that are empty are omitted entirely rather than rendered as blank
// lines or "null".
func BuildPrompt(sender *model.User, recipient *model.Recipient, purpose model.Purpose, tone model.Tone, extraContext string) string {
	var b strings.Builder

	b.WriteString("Write an outreach email.\n\n")

	b.WriteString("About the sender:\n")
	writeField(&b, "Name", sender.Name)
	writeField(&b, "Title", sender.Title)
	writeField(&b, "Company", sender.Company)
	writeField(&b, "Background", sender.About)
	writeField(&b, "Skills", sender.Skills)

	b.WriteString("\nAbout the recipient:\n")
	writeField(&b, "Name", recipient.Name)
	writeField(&b, "Organization", recipient.Organization)
	writeField(&b, "Role", recipient.Role)
	writeField(&b, "Notes", recipient.Notes)

	b.WriteString("\nThe sender is ")
	b.WriteString(purposeDescriptions[purpose])
	b.WriteString(". The tone should be ")
	b.WriteString(toneDescriptions[tone])
	b.WriteString(".\n")

	if extra := strings.TrimSpace(extraContext); extra != "" {
		b.WriteString("\nAdditional context from the sender:\n")
		b.WriteString(extra)
		b.WriteString("\n")
	}

	return b.String()
}

// SystemPrompt returns the fixed system instruction.
func SystemPrompt() string {
	return systemPrompt
}

func writeField(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

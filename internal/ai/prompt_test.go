package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"outreachpilot/internal/model"
)

func TestBuildPromptIncludesProfileAndRecipient(t *testing.T) {
	// Setup
	sender := model.NewUser("google_1", "alex@example.com", "Alex Chen")
	sender.Title = "Software Engineer"
	sender.Company = "Acme"
	sender.Skills = "Go, distributed systems"
	recipient := model.NewRecipient(sender.ID, "Dr. Smith", "smith@university.edu", "State University", "Professor", "Works on consensus protocols")

	// Execute
	prompt := BuildPrompt(sender, recipient, model.PurposeResearchInquiry, model.ToneFormal, "Mention their 2024 paper")

	// Verify
	assert.Contains(t, prompt, "Alex Chen")
	assert.Contains(t, prompt, "Software Engineer")
	assert.Contains(t, prompt, "Dr. Smith")
	assert.Contains(t, prompt, "State University")
	assert.Contains(t, prompt, "consensus protocols")
	assert.Contains(t, prompt, "inquiring about their research")
	assert.Contains(t, prompt, "formal and professional")
	assert.Contains(t, prompt, "Mention their 2024 paper")
}

func TestBuildPromptOmitsEmptyFields(t *testing.T) {
	sender := model.NewUser("google_1", "alex@example.com", "Alex Chen")
	recipient := model.NewRecipient(sender.ID, "Jordan Lee", "jordan@startup.io", "", "", "")

	prompt := BuildPrompt(sender, recipient, model.PurposeNetworking, model.ToneFriendly, "")

	assert.NotContains(t, prompt, "Organization")
	assert.NotContains(t, prompt, "Role:")
	assert.NotContains(t, prompt, "Notes")
	assert.NotContains(t, prompt, "Additional context")
}

func TestSystemPromptForbidsPlaceholders(t *testing.T) {
	prompt := SystemPrompt()
	assert.Contains(t, prompt, "bracketed placeholders")
	assert.Contains(t, prompt, `"subject"`)
	assert.Contains(t, prompt, `"body"`)
}

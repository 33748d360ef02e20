package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DraftContent is the structured result recovered from raw model output.
type DraftContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

var (
	fenceRe     = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	subjectKey  = regexp.MustCompile(`"subject"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	bodyKey     = regexp.MustCompile(`(?s)"body"\s*:\s*"(.*)"\s*\}`)
	subjectLine = regexp.MustCompile(`(?mi)^\s*\**\s*"?subject"?\**\s*:\s*(.+)$`)
	bodyLine    = regexp.MustCompile(`(?msi)^\s*\**\s*"?body"?\**\s*:\s*(.+)\z`)
	salutation  = regexp.MustCompile(`(?ms)^(?:Dear |Hi |Hello ).*\z`)
	brackets    = regexp.MustCompile(`\[[^\]]*\]`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// ParseDraft recovers a {subject, body} pair from arbitrary model output.
// Model format compliance is probabilistic, so strategies are tried in order
// from strict JSON down to a first-line/rest split; the first to yield a
// result wins. ErrUnparsable is returned only when no signal exists at all.
func ParseDraft(raw string) (*DraftContent, error) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnparsable)
	}

	// Strategy 1: direct JSON parse of the outermost {...} block.
	if block, ok := jsonBlock(cleaned); ok {
		if content, ok := tryUnmarshal(block); ok {
			return normalize(content), nil
		}

		// Strategy 2: models frequently emit raw newlines inside string
		// values; re-escape control characters and retry.
		if content, ok := tryUnmarshal(escapeControlChars(block)); ok {
			return normalize(content), nil
		}
	}

	// Strategy 3: field-level regex extraction. The body match is greedy on
	// purpose: the body text may itself contain "}", so extraction ends at
	// the last quote-brace pair, not the first.
	if sm := subjectKey.FindStringSubmatch(cleaned); sm != nil {
		if bm := bodyKey.FindStringSubmatch(cleaned); bm != nil {
			return normalize(&DraftContent{Subject: sm[1], Body: bm[1]}), nil
		}
	}

	// Strategy 4: prose with "subject:" style markers.
	if sm := subjectLine.FindStringSubmatchIndex(cleaned); sm != nil {
		subject := cleaned[sm[2]:sm[3]]
		rest := cleaned[sm[1]:]
		body := ""
		if bm := bodyLine.FindStringSubmatch(rest); bm != nil {
			body = bm[1]
		} else if loc := salutation.FindString(rest); loc != "" {
			body = loc
		} else {
			body = rest
		}
		if strings.TrimSpace(body) != "" {
			return normalize(&DraftContent{Subject: subject, Body: body}), nil
		}
	}

	// Strategy 5: first non-empty line is the subject, the remainder is the
	// body. A wrong split point here beats a hard failure that leaves the
	// user with no draft at all.
	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		subject := strings.Trim(strings.TrimSpace(line), "\"'`{}[]*#:")
		if runes := []rune(subject); len(runes) > 100 {
			subject = string(runes[:100])
		}
		body := strings.Join(lines[i+1:], "\n")
		return normalize(&DraftContent{Subject: subject, Body: body}), nil
	}

	return nil, fmt.Errorf("%w: no recoverable content", ErrUnparsable)
}

func jsonBlock(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func tryUnmarshal(block string) (*DraftContent, bool) {
	var content DraftContent
	if err := json.Unmarshal([]byte(block), &content); err != nil {
		return nil, false
	}
	if content.Subject == "" && content.Body == "" {
		return nil, false
	}
	return &content, true
}

// escapeControlChars re-escapes raw control characters that appear inside
// JSON string values while leaving structural whitespace alone.
func escapeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			b.WriteRune(r)
			escaped = true
		case '"':
			inString = !inString
			b.WriteRune(r)
		case '\n':
			if inString {
				b.WriteString(`\n`)
			} else {
				b.WriteRune(r)
			}
		case '\r':
			if inString {
				b.WriteString(`\r`)
			} else {
				b.WriteRune(r)
			}
		case '\t':
			if inString {
				b.WriteString(`\t`)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalize applies the shared post-processing to any extracted pair:
// un-escape, strip placeholder brackets, collapse blank runs, trim.
func normalize(content *DraftContent) *DraftContent {
	subject := strings.TrimSpace(content.Subject)
	subject = strings.TrimLeft(subject, ": \t")
	subject = unescape(subject)
	subject = brackets.ReplaceAllString(subject, "")
	subject = strings.Trim(subject, `"*`)

	body := unescape(content.Body)
	body = brackets.ReplaceAllString(body, "")
	body = blankRuns.ReplaceAllString(body, "\n\n")

	return &DraftContent{
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(body),
	}
}

var unescaper = strings.NewReplacer(
	`\n`, "\n",
	`\r`, "",
	`\t`, "\t",
	`\"`, `"`,
)

func unescape(s string) string {
	return unescaper.Replace(s)
}

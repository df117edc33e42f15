package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/kitbuilder587/casedraft/internal/domain"
)

const maxMessageLen = 4096 // лимит телеграма

func FormatCaseList(cases []domain.CaseSummary) string {
	var sb strings.Builder
	sb.WriteString("<b>Cases:</b>\n\n")

	for i, c := range cases {
		sb.WriteString(fmt.Sprintf("%d. <code>%s</code> %s\n",
			i+1,
			html.EscapeString(c.CaseNumber),
			html.EscapeString(c.Title),
		))
		if c.Court != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", html.EscapeString(c.Court)))
		}
	}

	sb.WriteString(fmt.Sprintf("\nTotal: %d", len(cases)))
	return sb.String()
}

func FormatCase(c *domain.CaseSnapshot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(c.Title)))
	sb.WriteString(fmt.Sprintf("Case number: <code>%s</code>\n", html.EscapeString(c.CaseNumber)))
	if c.Court != "" {
		sb.WriteString(fmt.Sprintf("Court: %s\n", html.EscapeString(c.Court)))
	}
	if c.Client.Name != "" {
		sb.WriteString(fmt.Sprintf("Client: %s\n", html.EscapeString(c.Client.Name)))
	}
	if c.Opponent.Name != "" {
		sb.WriteString(fmt.Sprintf("Opposing party: %s\n", html.EscapeString(c.Opponent.Name)))
	}

	if s := strings.TrimSpace(c.Summary); s != "" {
		sb.WriteString("\n")
		sb.WriteString(html.EscapeString(s))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\nFacts: %d, legal issues: %d", len(c.Facts), len(c.Issues)))
	return sb.String()
}

func FormatTemplates(templates []domain.Template) string {
	var sb strings.Builder
	sb.WriteString("<b>Templates:</b>\n\n")

	for _, t := range templates {
		sb.WriteString(fmt.Sprintf("• <code>%s</code> %s\n   <i>%s</i>\n",
			t.ID,
			html.EscapeString(t.Name),
			html.EscapeString(t.Description),
		))
	}

	sb.WriteString("\nUsage: /draft CASE_NUMBER TEMPLATE")
	return sb.String()
}

// FormatDraftResult: черновик целиком экранируется, модель может вернуть "<" и "&".
func FormatDraftResult(caseNumber, templateID string, result domain.DraftResult) string {
	header := fmt.Sprintf("<b>%s</b> for <code>%s</code>",
		html.EscapeString(domain.TemplateName(templateID)),
		html.EscapeString(caseNumber),
	)

	if !result.OK() {
		return header + "\n\nCould not generate the draft: " + html.EscapeString(result.Reason())
	}

	return header + "\n\n" + html.EscapeString(result.Content()) +
		"\n\n<i>Draft only. Review before filing.</i>"
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// сначала абзац, потом строка, потом пробел; HTML-теги не режем
	for _, sep := range []string{"\n\n", "\n", " "} {
		for i := maxLen - len(sep); i > maxLen/2; i-- {
			if i >= len(text) || isInsideHTMLTag(text, i) {
				continue
			}
			if strings.HasPrefix(text[i:], sep) {
				return i + len(sep)
			}
		}
	}

	// внутри тега - ищем конец
	if maxLen < len(text) && isInsideHTMLTag(text, maxLen) {
		for i := maxLen; i < len(text); i++ {
			if text[i] == '>' {
				return i + 1
			}
		}
	}

	// не режем многобайтовый символ пополам
	i := maxLen
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	if i == 0 {
		return maxLen
	}
	return i
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}

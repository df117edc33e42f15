package draft

import (
	"fmt"
	"strings"

	"github.com/kitbuilder587/casedraft/internal/domain"
)

type Prompt struct {
	System string
	User   string
}

const systemPrompt = `You are a senior litigation associate drafting pleadings for Indian courts.

Drafting conventions:
- Use a formal legal register throughout. No casual language, no markdown, no commentary about the draft.
- The document must contain, in order: the cause title (court name, case number, parties with addresses), a short title of the document, the body, the prayer, and a verification clause.
- Follow the formatting used in the named court: court name in capitals at the top, "Versus" between the parties, party descriptions as Petitioner/Plaintiff and Respondent/Defendant as appropriate to the document type.
- Number every paragraph of the body consecutively starting from 1. Sub-points use (a), (b), (c).
- Cite statutory provisions exactly as given in the case data; do not invent sections, judgments or facts.
- End with a verification clause stating which paragraphs are true to personal knowledge and which are based on legal advice, followed by place, date and signature lines for the deponent and the advocate.

Return only the text of the document.`

// BuildPrompt собирает system и user части запроса. Чистая функция: порядок фактов и
// вопросов сохраняется, пустые разделы выводятся заголовком без пунктов.
func BuildPrompt(req domain.DraftRequest) Prompt {
	return Prompt{
		System: systemPrompt,
		User:   buildUserPrompt(req),
	}
}

func buildUserPrompt(req domain.DraftRequest) string {
	c := req.Case
	var sb strings.Builder

	fmt.Fprintf(&sb, "Draft a %s (template: %s) for the following case.\n\n", domain.TemplateName(req.TemplateID), req.TemplateID)

	sb.WriteString("CASE DETAILS\n")
	fmt.Fprintf(&sb, "Title: %s\n", c.Title)
	fmt.Fprintf(&sb, "Case Number: %s\n", c.CaseNumber)
	fmt.Fprintf(&sb, "Court: %s\n\n", c.Court)

	writeParty(&sb, "CLIENT", c.Client)
	writeParty(&sb, "OPPOSING PARTY", c.Opponent)

	sb.WriteString("CASE SUMMARY\n")
	sb.WriteString(c.Summary)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "FACTS (%d)\n", len(c.Facts))
	for i, f := range c.Facts {
		fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, f.Title, f.Description)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "LEGAL ISSUES (%d)\n", len(c.Issues))
	for i, is := range c.Issues {
		fmt.Fprintf(&sb, "%d. %s (priority: %s)\n", i+1, is.Title, is.Priority)
		fmt.Fprintf(&sb, "   Relevant law: %s\n", lawSections(is.RelevantLawSections))
	}
	sb.WriteString("\n")

	sb.WriteString("Prepare the complete document using only the information above.")
	return sb.String()
}

func writeParty(sb *strings.Builder, heading string, p domain.Party) {
	sb.WriteString(heading)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Name: %s\n", p.Name)
	fmt.Fprintf(sb, "Address: %s\n\n", p.Address)
}

func lawSections(sections []string) string {
	if len(sections) == 0 {
		return "none cited"
	}
	return strings.Join(sections, ", ")
}

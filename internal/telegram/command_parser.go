package telegram

import (
	"strings"
)

// ParseDraftCommand разбирает "/draft <номер дела> <шаблон>".
// Шаблон - последнее слово, все что между командой и шаблоном - номер дела,
// так что "CS 112/2024" с пробелом тоже работает.
func ParseDraftCommand(text string) (caseNumber, templateID string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", "", false
	}

	if strings.HasPrefix(fields[0], "/") {
		if commandName(fields[0]) != "draft" {
			return "", "", false
		}
		fields = fields[1:]
	}

	if len(fields) < 2 {
		return "", "", false
	}

	templateID = strings.ToLower(fields[len(fields)-1])
	caseNumber = strings.Join(fields[:len(fields)-1], " ")
	return caseNumber, templateID, true
}

// commandName: "/Draft@casedraft_bot" -> "draft"
func commandName(token string) string {
	token = strings.TrimPrefix(token, "/")
	if i := strings.IndexByte(token, '@'); i >= 0 {
		token = token[:i]
	}
	return strings.ToLower(token)
}

func normalizeSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

package domain

import "strings"

type DraftRequest struct {
	TemplateID string
	Case       CaseSnapshot
}

type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureConfiguration FailureKind = "configuration"
	FailureEmptyResponse FailureKind = "empty_response"
	FailureTruncated     FailureKind = "truncated"
	FailureTransport     FailureKind = "transport"
	FailureUnknown       FailureKind = "unknown"
)

const (
	ReasonNotConfigured = "draft generation is not configured: provider API key is missing"
	ReasonNoContent     = "no draft content generated"
	ReasonTruncated     = "draft was cut off at the output limit; try a shorter case summary"
	ReasonUnknown       = "unknown error while generating draft"
)

// DraftResult is either a Success carrying non-empty content or a Failure carrying
// a reason meant to be shown to the user as is. The zero value is an unknown Failure.
type DraftResult struct {
	content string
	reason  string
	kind    FailureKind
	ok      bool
}

// Success trims content; blank content degrades to the empty-response Failure.
func Success(content string) DraftResult {
	content = strings.TrimSpace(content)
	if content == "" {
		return Failure(FailureEmptyResponse, ReasonNoContent)
	}
	return DraftResult{content: content, ok: true}
}

func Failure(kind FailureKind, reason string) DraftResult {
	if kind == FailureNone {
		kind = FailureUnknown
	}
	if strings.TrimSpace(reason) == "" {
		reason = ReasonUnknown
	}
	return DraftResult{reason: reason, kind: kind}
}

func (r DraftResult) OK() bool { return r.ok }

func (r DraftResult) Content() string { return r.content }

func (r DraftResult) Reason() string {
	if !r.ok && r.reason == "" {
		return ReasonUnknown
	}
	return r.reason
}

func (r DraftResult) Kind() FailureKind {
	if !r.ok && r.kind == FailureNone {
		return FailureUnknown
	}
	return r.kind
}

// Message - то, что показываем пользователю: текст черновика или причину ошибки.
func (r DraftResult) Message() string {
	if r.ok {
		return r.content
	}
	return r.Reason()
}

// Outcome is the label used for metrics and logs.
func (r DraftResult) Outcome() string {
	if r.ok {
		return "success"
	}
	return string(r.Kind())
}

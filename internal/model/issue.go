package model

import "encoding/json"

// IssueKind is a closed enumeration of audit issue categories. Scoring rules
// key off the kind; Detail carries free-text specifics.
type IssueKind string

const (
	IssueNotAccessible      IssueKind = "not_accessible"
	IssueMissingSSL         IssueKind = "missing_ssl"
	IssueMissingTitle       IssueKind = "missing_title"
	IssueMissingDescription IssueKind = "missing_description"
	IssueMissingH1          IssueKind = "missing_h1"
	IssueMultipleH1         IssueKind = "multiple_h1"
	IssueBrokenLinks        IssueKind = "broken_links"
	IssueLargePage          IssueKind = "large_page"
	IssueMissingAlt         IssueKind = "missing_alt"
	IssueAuditError         IssueKind = "audit_error"
	IssueProcessingError    IssueKind = "processing_error"
)

// Issue is one audit finding on a business website.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

var issueText = map[IssueKind]string{
	IssueNotAccessible:      "Website not accessible",
	IssueMissingSSL:         "Missing SSL (not using HTTPS)",
	IssueMissingTitle:       "Missing meta title",
	IssueMissingDescription: "Missing meta description",
	IssueMissingH1:          "Missing H1 tag",
	IssueMultipleH1:         "Multiple H1 tags (SEO issue)",
	IssueLargePage:          "Large page size",
	IssueBrokenLinks:        "Broken links detected",
	IssueMissingAlt:         "Many images missing alt text (accessibility/SEO issue)",
	IssueAuditError:         "Audit error",
	IssueProcessingError:    "Processing error",
}

// String renders the issue in the wording clients display.
func (i Issue) String() string {
	text, ok := issueText[i.Kind]
	if !ok {
		text = string(i.Kind)
	}
	if i.Detail != "" {
		return text + ": " + i.Detail
	}
	return text
}

// MarshalJSON emits the full structured form plus a rendered message.
func (i Issue) MarshalJSON() ([]byte, error) {
	type alias Issue
	return json.Marshal(struct {
		alias
		Message string `json:"message"`
	}{alias(i), i.String()})
}

// UnmarshalJSON accepts either the structured form or a bare string, so
// history entries written by older builds still load.
func (i *Issue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = issueFromString(s)
		return nil
	}
	type alias struct {
		Kind   IssueKind `json:"kind"`
		Detail string    `json:"detail"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	i.Kind = a.Kind
	i.Detail = a.Detail
	return nil
}

func issueFromString(s string) Issue {
	for kind, text := range issueText {
		if s == text {
			return Issue{Kind: kind}
		}
	}
	return Issue{Kind: IssueAuditError, Detail: s}
}

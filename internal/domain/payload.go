package domain

import (
	"encoding/json"
	"fmt"
)

// CaseLink is the work item payload. Family names the case table the link
// resolves against; a zero CaseLink means the item carries no case.
type CaseLink struct {
	Family Topic          `json:"family,omitempty"`
	CaseID string         `json:"case_id,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// NewCaseLink links a work item to a case of the given family.
func NewCaseLink(family Topic, caseID string) CaseLink {
	return CaseLink{Family: family, CaseID: caseID}
}

// IsZero reports whether the link references no case.
func (l CaseLink) IsZero() bool {
	return l.Family == "" && l.CaseID == ""
}

// Validate checks the link against the topic of the owning work item.
func (l CaseLink) Validate(topic Topic) error {
	if l.IsZero() {
		if topic.HasCase() {
			return fmt.Errorf("%w: topic %s requires a case link", ErrValidation, topic)
		}
		return nil
	}
	if !l.Family.HasCase() {
		return fmt.Errorf("%w: unknown case family %q", ErrValidation, l.Family)
	}
	if l.Family != topic {
		return fmt.Errorf("%w: case family %s does not match topic %s", ErrValidation, l.Family, topic)
	}
	if l.CaseID == "" {
		return fmt.Errorf("%w: case link without case id", ErrValidation)
	}
	return nil
}

// MarshalPayload encodes the link for the work_items.payload column.
func MarshalPayload(l CaseLink) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal case link: %w", err)
	}
	return data, nil
}

// UnmarshalPayload decodes a work_items.payload column value.
func UnmarshalPayload(data []byte) (CaseLink, error) {
	var l CaseLink
	if len(data) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(data, &l); err != nil {
		return CaseLink{}, fmt.Errorf("unmarshal case link: %w", err)
	}
	return l, nil
}

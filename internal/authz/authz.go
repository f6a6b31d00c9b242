// Package authz evaluates operator roles against a declarative permission table.
// The table is YAML data embedded in the binary and may be replaced by a file
// at startup, so gating rules can be audited without reading handler code.
package authz

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mtlprog/workdesk/internal/domain"
)

// AnyTopic grants an action on every topic.
const AnyTopic = "*"

//go:embed permissions.yaml
var defaultPermissions []byte

var knownActions = map[domain.Action]bool{
	domain.ActionView:       true,
	domain.ActionClaim:      true,
	domain.ActionAct:        true,
	domain.ActionActAny:     true,
	domain.ActionReassign:   true,
	domain.ActionCreate:     true,
	domain.ActionSpecialist: true,
	domain.ActionDecide:     true,
	domain.ActionDelete:     true,
}

type tableFile struct {
	Elevated []domain.Role                             `yaml:"elevated"`
	Roles    map[domain.Role]map[string][]domain.Action `yaml:"roles"`
}

// Table answers role × topic × action questions.
type Table struct {
	elevated map[domain.Role]bool
	grants   map[domain.Role]map[string]map[domain.Action]bool
}

// Default returns the table embedded in the binary.
func Default() *Table {
	t, err := Parse(defaultPermissions)
	if err != nil {
		panic(fmt.Sprintf("embedded permission table: %v", err))
	}
	return t
}

// Load reads a permission table from path. An empty path yields the default table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permission table: %w", err)
	}
	return Parse(data)
}

// Parse builds a table from YAML, rejecting unknown topics and actions.
func Parse(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode permission table: %w", err)
	}

	t := &Table{
		elevated: make(map[domain.Role]bool, len(file.Elevated)),
		grants:   make(map[domain.Role]map[string]map[domain.Action]bool, len(file.Roles)),
	}
	for _, role := range file.Elevated {
		t.elevated[role] = true
	}
	for role, topics := range file.Roles {
		byTopic := make(map[string]map[domain.Action]bool, len(topics))
		for topic, actions := range topics {
			if topic != AnyTopic && !domain.Topic(topic).IsValid() {
				return nil, fmt.Errorf("role %s: unknown topic %q", role, topic)
			}
			set := make(map[domain.Action]bool, len(actions))
			for _, action := range actions {
				if !knownActions[action] {
					return nil, fmt.Errorf("role %s: unknown action %q", role, action)
				}
				set[action] = true
			}
			byTopic[topic] = set
		}
		t.grants[role] = byTopic
	}
	return t, nil
}

// IsElevated reports whether any of the roles bypasses the table.
func (t *Table) IsElevated(roles []domain.Role) bool {
	for _, role := range roles {
		if t.elevated[role] {
			return true
		}
	}
	return false
}

// Authorize reports whether the roles permit action on topic.
func (t *Table) Authorize(roles []domain.Role, topic domain.Topic, action domain.Action) bool {
	if t.IsElevated(roles) {
		return true
	}
	for _, role := range roles {
		byTopic := t.grants[role]
		if byTopic[string(topic)][action] || byTopic[AnyTopic][action] {
			return true
		}
	}
	return false
}

// VisibleTopics lists the topics the roles may view.
func (t *Table) VisibleTopics(roles []domain.Role) []domain.Topic {
	var topics []domain.Topic
	for _, topic := range domain.Topics {
		if t.Authorize(roles, topic, domain.ActionView) {
			topics = append(topics, topic)
		}
	}
	return topics
}

package service

import (
	"fmt"
	"slices"

	"github.com/mtlprog/workdesk/internal/authz"
	"github.com/mtlprog/workdesk/internal/domain"
)

// Guard applies the permission table to actors.
type Guard struct {
	table *authz.Table
}

// NewGuard creates a new Guard.
func NewGuard(table *authz.Table) *Guard {
	return &Guard{table: table}
}

// IsElevated reports whether the actor bypasses the permission table.
func (g *Guard) IsElevated(actor domain.Actor) bool {
	return g.table.IsElevated(actor.Roles)
}

// Allows reports whether the actor may perform action on topic.
func (g *Guard) Allows(actor domain.Actor, topic domain.Topic, action domain.Action) bool {
	return g.table.Authorize(actor.Roles, topic, action)
}

// Require returns ErrForbidden unless the actor may perform action on topic.
func (g *Guard) Require(actor domain.Actor, topic domain.Topic, action domain.Action) error {
	if !g.Allows(actor, topic, action) {
		return fmt.Errorf("%w: %s on %s denied for %s", domain.ErrForbidden, action, topic, actor.ID)
	}
	return nil
}

// CanActOn checks that the actor may mutate the work item: either act_any on
// its topic, or act plus being the assignee.
func (g *Guard) CanActOn(actor domain.Actor, item *domain.WorkItem) error {
	if g.Allows(actor, item.Topic, domain.ActionActAny) {
		return nil
	}
	if !g.Allows(actor, item.Topic, domain.ActionAct) {
		return fmt.Errorf("%w: act on %s denied for %s", domain.ErrForbidden, item.Topic, actor.ID)
	}
	if !item.IsAssignedTo(actor.ID) {
		return fmt.Errorf("%w: work item %s is not assigned to %s", domain.ErrNotAssignee, item.ID, actor.ID)
	}
	return nil
}

// CanEditCase checks that the actor may edit the case linked to item.
// Edits touching only specialist fields are also open to the topic's specialists.
func (g *Guard) CanEditCase(actor domain.Actor, item *domain.WorkItem, specialistOnly bool) error {
	if specialistOnly && g.Allows(actor, item.Topic, domain.ActionSpecialist) {
		return nil
	}
	return g.CanActOn(actor, item)
}

// VisibleTopics lists the topics the actor may view, optionally narrowed to one.
func (g *Guard) VisibleTopics(actor domain.Actor, only *domain.Topic) ([]domain.Topic, error) {
	topics := g.table.VisibleTopics(actor.Roles)
	if only == nil {
		return topics, nil
	}
	if !only.IsValid() {
		return nil, fmt.Errorf("%w: unknown topic %q", domain.ErrValidation, *only)
	}
	if !slices.Contains(topics, *only) {
		return nil, fmt.Errorf("%w: view on %s denied for %s", domain.ErrForbidden, *only, actor.ID)
	}
	return []domain.Topic{*only}, nil
}

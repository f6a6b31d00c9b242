package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/repository"
)

// StatsService reports queue sizes and operator workloads.
type StatsService struct {
	guard *Guard
	repo  *repository.StatsRepository
}

// Stats is a snapshot of the queues the actor may view.
type Stats struct {
	Period      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Queues      []repository.QueueCount
	Operators   []repository.OperatorWorkload
}

// PeriodStart resolves a named reporting period ending at now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "day":
		return now.AddDate(0, 0, -1), nil
	case "", "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "all":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("%w: invalid period %q, must be: day, week, month, all", domain.ErrValidation, period)
	}
}

// Get returns queue counts and operator workloads for the period.
func (s *StatsService) Get(ctx context.Context, actor domain.Actor, period string, operatorID *string) (*Stats, error) {
	now := time.Now().UTC()
	start, err := PeriodStart(period, now)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = "week"
	}

	topics, err := s.guard.VisibleTopics(actor, nil)
	if err != nil {
		return nil, err
	}

	queues, err := s.repo.QueueCounts(ctx, topics)
	if err != nil {
		return nil, err
	}

	workloads, err := s.repo.OperatorWorkloads(ctx, repository.StatsFilters{
		Topics:      topics,
		PeriodStart: start,
		OperatorID:  operatorID,
	})
	if err != nil {
		return nil, err
	}

	return &Stats{
		Period:      period,
		PeriodStart: start,
		PeriodEnd:   now,
		Queues:      queues,
		Operators:   workloads,
	}, nil
}

package activitylog

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
	"github.com/denimhub/denimhub-backend/pkg/types"
)

// ListFilters narrows the activity log listing.
type ListFilters struct {
	UserID     *uint64
	Action     string
	EntityType string
}

// LogList is one page of activity entries.
type LogList struct {
	Logs       []LogEntry       `json:"logs"`
	Pagination types.Pagination `json:"-"`
}

type LogEntry struct {
	ID          uint64    `json:"id"`
	UserID      *uint64   `json:"user_id,omitempty"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    *uint64   `json:"entity_id,omitempty"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service exposes the read side of the activity log.
type Service interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*LogList, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity log repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*LogList, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activity logs")
	}
	out := &LogList{
		Logs:       make([]LogEntry, 0, len(rows)),
		Pagination: pagination.Result(params, total),
	}
	for _, row := range rows {
		out.Logs = append(out.Logs, LogEntry{
			ID:          row.ID,
			UserID:      row.UserID,
			Action:      row.Action,
			EntityType:  row.EntityType,
			EntityID:    row.EntityID,
			Description: row.Description,
			IPAddress:   row.IPAddress,
			UserAgent:   row.UserAgent,
			CreatedAt:   row.CreatedAt.UTC(),
		})
	}
	return out, nil
}

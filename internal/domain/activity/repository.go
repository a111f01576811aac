package activity

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Entry) error
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Entry, error)
}

type ListFilter struct {
	Types []Type
	From  *time.Time
	To    *time.Time
	Limit int
}

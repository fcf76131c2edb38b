package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-booking-api/internal/domains/catalog/domain"
)

var (
	ErrExcursionNotFound = errors.New("excursion not found")
	ErrYachtNotFound     = errors.New("yacht not found")
)

// Reader resolves catalog entries referenced by order intake.
type Reader interface {
	GetExcursion(ctx context.Context, id string) (*domain.Excursion, error)
	GetYacht(ctx context.Context, id string) (*domain.Yacht, error)
}

// Writer seeds or maintains catalog entries. Catalog CRUD itself lives outside this service.
type Writer interface {
	SaveExcursion(ctx context.Context, excursion *domain.Excursion) error
	SaveYacht(ctx context.Context, yacht *domain.Yacht) error
}

// Store combines read and write access.
type Store interface {
	Reader
	Writer
}

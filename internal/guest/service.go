// Package guest implements validation and persistence orchestration for the
// guest resource, including the save-time country resolution hook.
package guest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ioramishvili/GuestService/internal/country"
	"github.com/ioramishvili/GuestService/internal/domain"
)

var ErrNotFound = errors.New("guest not found")

type Repository interface {
	Create(ctx context.Context, g *domain.Guest) (*domain.Guest, error)
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
	Update(ctx context.Context, g *domain.Guest) (*domain.Guest, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f domain.ListFilter, limit, offset int) ([]domain.Guest, error)
	Count(ctx context.Context, f domain.ListFilter) (int, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	PhoneExists(ctx context.Context, phone string, excludeID int64) (bool, error)
}

type Service struct {
	repo      Repository
	countries *country.Resolver
	validator *Validator
	log       *slog.Logger
}

func NewService(repo Repository, countries *country.Resolver, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		countries: countries,
		validator: NewValidator(),
		log:       log,
	}
}

func (s *Service) Create(ctx context.Context, in domain.GuestInput) (*domain.Guest, error) {
	g := &domain.Guest{}
	in.ApplyTo(g)

	if err := s.prepareForPersistence(ctx, g, 0); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return nil, s.savefail(ctx, err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Guest, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	if g == nil {
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *Service) Update(ctx context.Context, id int64, in domain.GuestInput) (*domain.Guest, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	if g == nil {
		return nil, ErrNotFound
	}

	in.ApplyTo(g)

	if err := s.prepareForPersistence(ctx, g, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, g)
	if err != nil {
		return nil, s.savefail(ctx, err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// List returns one page of guests matching f. Page numbers past the end are
// clamped to the last page, matching the behavior of the original API.
func (s *Service) List(ctx context.Context, f domain.ListFilter, page, pageSize int) (*domain.GuestPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count guests: %w", err)
	}

	pageCount := (total + pageSize - 1) / pageSize
	if pageCount > 0 && page > pageCount {
		page = pageCount
	}

	guests, err := s.repo.List(ctx, f, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}

	return &domain.GuestPage{
		Guests:      guests,
		TotalCount:  total,
		PageCount:   pageCount,
		CurrentPage: page,
		PerPage:     pageSize,
	}, nil
}

// prepareForPersistence runs immediately before a guest row is written.
//
// The country is resolved in two passes: first from the phone number when no
// country was supplied, then the current value is unconditionally re-resolved
// as a country code. The second pass normalizes a supplied ISO code into a
// display name and re-validates whatever value is present; values that do not
// resolve are wiped and the save is rejected.
func (s *Service) prepareForPersistence(ctx context.Context, g *domain.Guest, excludeID int64) error {
	if g.Country == "" {
		g.Country = s.countries.ResolveCountryName(ctx, "", g.Phone)
	}

	g.Country = s.countries.ResolveCountryName(ctx, g.Country, "")

	if g.Country == "" {
		return ValidationErrors{{Field: "country", Message: "could not be determined"}}
	}

	if errs := s.validator.Validate(g); errs != nil {
		return errs
	}

	return s.checkUnique(ctx, g, excludeID)
}

func (s *Service) checkUnique(ctx context.Context, g *domain.Guest, excludeID int64) error {
	var errs ValidationErrors

	if g.Email != nil {
		taken, err := s.repo.EmailExists(ctx, *g.Email, excludeID)
		if err != nil {
			return fmt.Errorf("check email uniqueness: %w", err)
		}
		if taken {
			errs = append(errs, FieldError{Field: "email", Message: "has already been taken"})
		}
	}

	taken, err := s.repo.PhoneExists(ctx, g.Phone, excludeID)
	if err != nil {
		return fmt.Errorf("check phone uniqueness: %w", err)
	}
	if taken {
		errs = append(errs, FieldError{Field: "phone", Message: "has already been taken"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// savefail converts unique-constraint violations raised by the database into
// the same field errors the pre-write checks produce, covering the race where
// two requests pass checkUnique concurrently. Anything else is an unexpected
// lower-layer fault and is logged for investigation.
func (s *Service) savefail(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return ValidationErrors{{Field: "email", Message: "has already been taken"}}
	case errors.Is(err, domain.ErrDuplicatePhone):
		return ValidationErrors{{Field: "phone", Message: "has already been taken"}}
	default:
		s.log.ErrorContext(ctx, "guest save failed", "error", err)
		return fmt.Errorf("save guest: %w", err)
	}
}

package programs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/pkg/db"
	"github.com/kinawahq/foodorder-backend/pkg/db/models"
	"github.com/kinawahq/foodorder-backend/pkg/enums"
	pkgerrors "github.com/kinawahq/foodorder-backend/pkg/errors"
)

// CreateProgramInput holds the validated payload to create a program.
type CreateProgramInput struct {
	ShortCode string
	Name      string
	Category  string
	Color     string
}

// Service exposes program registry operations.
type Service interface {
	List(ctx context.Context, activeOnly bool) ([]ProgramDTO, error)
	ListByCategory(ctx context.Context, activeOnly bool) ([]CategoryGroupDTO, error)
	Resolve(ctx context.Context, shortCode string) (*ProgramDTO, error)
	Create(ctx context.Context, input CreateProgramInput) (*ProgramDTO, error)
	Deactivate(ctx context.Context, shortCode string) (*ProgramDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a program service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("program repository required")
	}
	return &service{repo: repo}, nil
}

// List returns programs ordered by category then name.
func (s *service) List(ctx context.Context, activeOnly bool) ([]ProgramDTO, error) {
	programs, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list programs")
	}
	return toProgramDTOs(programs), nil
}

// ListByCategory groups programs by category, preserving the
// category-then-name order inside each group.
func (s *service) ListByCategory(ctx context.Context, activeOnly bool) ([]CategoryGroupDTO, error) {
	programs, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list programs")
	}
	var groups []CategoryGroupDTO
	for i := range programs {
		dto := toProgramDTO(&programs[i])
		if len(groups) == 0 || groups[len(groups)-1].Category != dto.Category {
			groups = append(groups, CategoryGroupDTO{Category: dto.Category})
		}
		groups[len(groups)-1].Programs = append(groups[len(groups)-1].Programs, *dto)
	}
	return groups, nil
}

// Resolve returns the program for the short code.
func (s *service) Resolve(ctx context.Context, shortCode string) (*ProgramDTO, error) {
	program, err := s.load(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	return toProgramDTO(program), nil
}

// Create inserts a new program with a unique short code.
func (s *service) Create(ctx context.Context, input CreateProgramInput) (*ProgramDTO, error) {
	shortCode := strings.TrimSpace(input.ShortCode)
	if shortCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "short code is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	category, err := enums.ParseProgramCategory(strings.TrimSpace(input.Category))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
			WithDetails(map[string]any{"category": input.Category})
	}

	program := &models.Program{
		ID:        uuid.New(),
		ShortCode: shortCode,
		Name:      name,
		Category:  category,
		Color:     strings.TrimSpace(input.Color),
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, program); err != nil {
		if db.IsUniqueViolation(err, "idx_programs_short_code", "programs.short_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "program short code already exists").
				WithDetails(map[string]any{"short_code": shortCode})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create program")
	}
	return toProgramDTO(program), nil
}

// Deactivate clears the active flag. Already-inactive programs pass
// through unchanged.
func (s *service) Deactivate(ctx context.Context, shortCode string) (*ProgramDTO, error) {
	program, err := s.load(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	if program.IsActive {
		program.IsActive = false
		if err := s.repo.Save(ctx, program); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate program")
		}
	}
	return toProgramDTO(program), nil
}

func (s *service) load(ctx context.Context, shortCode string) (*models.Program, error) {
	shortCode = strings.TrimSpace(shortCode)
	if shortCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "short code is required")
	}
	program, err := s.repo.FindByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "program not found").
				WithDetails(map[string]any{"short_code": shortCode})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load program")
	}
	return program, nil
}

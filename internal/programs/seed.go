package programs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
	"github.com/kinawahq/foodorder-backend/pkg/enums"
)

type seedProgram struct {
	shortCode string
	name      string
	category  enums.ProgramCategory
	color     string
}

// defaultPrograms is the organization's standing program roster.
var defaultPrograms = []seedProgram{
	{"CEN", "Central Elementary", enums.ProgramCategoryBeforeAfter, "#1f77b4"},
	{"CRN", "Cornell Elementary", enums.ProgramCategoryBeforeAfter, "#2ca02c"},
	{"HIA", "Hiawatha Elementary", enums.ProgramCategoryBeforeAfter, "#ff7f0e"},
	{"BRD", "Bennett Woods Elementary", enums.ProgramCategoryBeforeAfter, "#9467bd"},
	{"TD1", "Toddler Room 1", enums.ProgramCategoryToddler, "#d62728"},
	{"TD2", "Toddler Room 2", enums.ProgramCategoryToddler, "#8c564b"},
	{"TD3", "Toddler Room 3", enums.ProgramCategoryToddler, "#e377c2"},
	{"TD4", "Toddler Room 4", enums.ProgramCategoryToddler, "#7f7f7f"},
	{"INF1", "Infant Room 1", enums.ProgramCategoryInfant, "#bcbd22"},
	{"INF2", "Infant Room 2", enums.ProgramCategoryInfant, "#17becf"},
	{"INF3", "Infant Room 3", enums.ProgramCategoryInfant, "#aec7e8"},
	{"GSA", "GSRP Room A", enums.ProgramCategoryGSRP, "#ffbb78"},
	{"GSP", "GSRP Room B", enums.ProgramCategoryGSRP, "#98df8a"},
	{"GSF", "GSRP Full Day", enums.ProgramCategoryGSRP, "#ff9896"},
}

// Seed inserts the default program roster, skipping codes that already
// exist. Safe to run on every boot.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	repo := NewRepository(db)
	created := 0
	for _, seed := range defaultPrograms {
		_, err := repo.FindByShortCode(ctx, seed.shortCode)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("seed lookup %s: %w", seed.shortCode, err)
		}
		program := &models.Program{
			ID:        uuid.New(),
			ShortCode: seed.shortCode,
			Name:      seed.name,
			Category:  seed.category,
			Color:     seed.color,
			IsActive:  true,
		}
		if err := repo.Create(ctx, program); err != nil {
			return created, fmt.Errorf("seed create %s: %w", seed.shortCode, err)
		}
		created++
	}
	return created, nil
}

package programs

import (
	"github.com/google/uuid"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
)

// ProgramDTO is the program payload returned to clients.
type ProgramDTO struct {
	ID        uuid.UUID `json:"id"`
	ShortCode string    `json:"short_code"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	IsActive  bool      `json:"is_active"`
}

// CategoryGroupDTO lists the programs inside one category.
type CategoryGroupDTO struct {
	Category string       `json:"category"`
	Programs []ProgramDTO `json:"programs"`
}

func toProgramDTO(p *models.Program) *ProgramDTO {
	return &ProgramDTO{
		ID:        p.ID,
		ShortCode: p.ShortCode,
		Name:      p.Name,
		Category:  p.Category.String(),
		Color:     p.Color,
		IsActive:  p.IsActive,
	}
}

func toProgramDTOs(programs []models.Program) []ProgramDTO {
	out := make([]ProgramDTO, 0, len(programs))
	for i := range programs {
		out = append(out, *toProgramDTO(&programs[i]))
	}
	return out
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kinawahq/foodorder-backend/pkg/enums"
)

// Program is a funding/classroom bucket order lines allocate to.
// Reference data: created rarely, never touched by reconciliation.
type Program struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	ShortCode string                `gorm:"column:short_code;not null;uniqueIndex:idx_programs_short_code"`
	Name      string                `gorm:"column:name;not null"`
	Category  enums.ProgramCategory `gorm:"column:category;not null"`
	Color     string                `gorm:"column:color;not null;default:''"`
	IsActive  bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

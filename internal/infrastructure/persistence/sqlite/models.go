package sqlite

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeModel represents the GORM model for an exported recipe
type RecipeModel struct {
	ID              uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Position        int         `gorm:"not null;uniqueIndex"`
	Name            string      `gorm:"type:varchar(255);not null;index"`
	IngredientCount int         `gorm:"not null"`
	Ingredients     StringSlice `gorm:"type:json"`
	Calories        int         `gorm:"not null;index"`
	Category        string      `gorm:"type:varchar(255);not null;index"`
	ExportedAt      time.Time

	// Relationships
	IngredientRows []IngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// IngredientModel is one ingredient entry, kept for SQL-side ingredient lookups
type IngredientModel struct {
	ID       uint      `gorm:"primaryKey"`
	RecipeID uuid.UUID `gorm:"type:char(36);not null;index"`
	Position int       `gorm:"not null"`
	Name     string    `gorm:"type:varchar(255);not null;index"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (IngredientModel) TableName() string {
	return "recipe_ingredients"
}

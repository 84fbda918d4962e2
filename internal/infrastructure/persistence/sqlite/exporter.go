package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// exportBatchSize bounds the rows per INSERT statement
const exportBatchSize = 100

// ExportResult summarizes one export run
type ExportResult struct {
	Recipes     int       `json:"recipes"`
	Ingredients int       `json:"ingredients"`
	ExportedAt  time.Time `json:"exported_at"`
}

// Exporter writes catalog snapshots into SQLite
type Exporter struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewExporter creates an exporter on an already migrated database
func NewExporter(db *gorm.DB, logger *zap.Logger) *Exporter {
	return &Exporter{
		db:     db,
		logger: logger.Named("sqlite-export"),
	}
}

// Export replaces the database contents with recipes, keeping catalog order in Position.
// Either the whole snapshot is written or nothing changes.
func (e *Exporter) Export(ctx context.Context, recipes []inbound.RecipeDTO) (*ExportResult, error) {
	exportedAt := time.Now().UTC()
	models := make([]RecipeModel, len(recipes))
	ingredients := 0
	for i, dto := range recipes {
		models[i] = toModel(i, dto, exportedAt)
		ingredients += len(dto.Ingredients)
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := wipe.Delete(&IngredientModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear ingredients: %w", err)
		}
		if err := wipe.Delete(&RecipeModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipes: %w", err)
		}

		if len(models) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&models, exportBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert recipes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Catalog exported",
		zap.Int("recipes", len(models)),
		zap.Int("ingredients", ingredients),
	)

	return &ExportResult{
		Recipes:     len(models),
		Ingredients: ingredients,
		ExportedAt:  exportedAt,
	}, nil
}

// ReadAll returns the exported recipes in catalog order
func (e *Exporter) ReadAll(ctx context.Context) ([]inbound.RecipeDTO, error) {
	var models []RecipeModel
	if err := e.db.WithContext(ctx).Order("position ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	recipes := make([]inbound.RecipeDTO, len(models))
	for i, m := range models {
		recipes[i] = toDTO(m)
	}
	return recipes, nil
}

// RecipeNamesWithIngredient queries the ingredient table, returning names in catalog order
func (e *Exporter) RecipeNamesWithIngredient(ctx context.Context, ingredient string) ([]string, error) {
	db := e.db.WithContext(ctx)
	matching := db.Model(&IngredientModel{}).Select("recipe_id").Where("name = ?", ingredient)

	var names []string
	err := db.Model(&RecipeModel{}).
		Where("id IN (?)", matching).
		Order("position ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredient: %w", err)
	}
	return names, nil
}

func toModel(position int, dto inbound.RecipeDTO, exportedAt time.Time) RecipeModel {
	rows := make([]IngredientModel, len(dto.Ingredients))
	for i, name := range dto.Ingredients {
		rows[i] = IngredientModel{Position: i, Name: name}
	}

	return RecipeModel{
		Position:        position,
		Name:            dto.Name,
		IngredientCount: len(dto.Ingredients),
		Ingredients:     StringSlice(dto.Ingredients),
		Calories:        dto.Calories,
		Category:        dto.Category,
		ExportedAt:      exportedAt,
		IngredientRows:  rows,
	}
}

func toDTO(m RecipeModel) inbound.RecipeDTO {
	ingredients := []string(m.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}

	return inbound.RecipeDTO{
		Name:            m.Name,
		Ingredients:     ingredients,
		IngredientCount: m.IngredientCount,
		Calories:        m.Calories,
		Category:        m.Category,
	}
}

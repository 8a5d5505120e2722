package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.FoodItem{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.MealPlan{},
		&models.MealPlanEvent{},
		&models.Meal{},
		&models.MealPhoto{},
		&models.NutritionLog{},
		&models.ShoppingCategory{},
		&models.ShoppingList{},
		&models.ShoppingListItem{},
		&models.AchievementType{},
		&models.UserAchievement{},
		&models.SharedRecipe{},
		&models.RecipeRating{},
		&models.RecipeComment{},
		&models.ReadyMeal{},
		&models.WorkSchedule{},
	}
}

// Migrate brings the schema up to date. Postgres gets the vector extension
// first so the recipe embedding column can be created.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to install pgvector extension: %w", err)
		}
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_work_schedules_default ON work_schedules (user_id) WHERE is_default").Error
	if err != nil {
		return fmt.Errorf("failed to create default schedule index: %w", err)
	}
	return nil
}

// AppliedMigration is a row of the migrations bookkeeping table.
type AppliedMigration struct {
	ID        uint      `gorm:"primarykey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	AppliedAt time.Time `gorm:"not null"`
}

func (AppliedMigration) TableName() string { return "migrations" }

// RunSQLMigrations executes the *.sql files of dir in name order, skipping
// the ones already recorded in the migrations table.
func RunSQLMigrations(db *gorm.DB, dir string, log *zap.Logger) ([]string, error) {
	log = logging.OrNop(log)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	if err := db.AutoMigrate(&AppliedMigration{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		var count int64
		if err := db.Model(&AppliedMigration{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Debug("Skipping migration (already applied)", zap.String("name", name))
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			return tx.Create(&AppliedMigration{Name: name, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return applied, err
		}

		log.Info("Applied migration", zap.String("name", name))
		applied = append(applied, name)
	}

	return applied, nil
}

// AppliedMigrations returns the recorded SQL migrations, oldest first.
func AppliedMigrations(db *gorm.DB) ([]AppliedMigration, error) {
	if !db.Migrator().HasTable(&AppliedMigration{}) {
		return nil, nil
	}
	var rows []AppliedMigration
	if err := db.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	return rows, nil
}

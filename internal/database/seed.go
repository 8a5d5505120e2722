package database

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/platewise/backend/internal/achievement"
	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
)

//go:embed seed.yaml
var seedCatalog []byte

// Catalog is the reference data every installation starts with.
type Catalog struct {
	ShoppingCategories []CategorySeed    `yaml:"shopping_categories"`
	AchievementTypes   []AchievementSeed `yaml:"achievement_types"`
}

type CategorySeed struct {
	Name      string `yaml:"name"`
	SortOrder int    `yaml:"sort_order"`
}

type AchievementSeed struct {
	Name         string       `yaml:"name"`
	Description  string       `yaml:"description"`
	Icon         string       `yaml:"icon"`
	Criteria     CriteriaSeed `yaml:"criteria"`
	RewardPoints int          `yaml:"reward_points"`
}

type CriteriaSeed struct {
	Type   string  `yaml:"type" json:"type"`
	Target float64 `yaml:"target" json:"target"`
}

// LoadCatalog parses a catalog and rejects unknown criteria kinds.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}
	for _, a := range c.AchievementTypes {
		if _, err := achievement.ParseKind(a.Criteria.Type); err != nil {
			return nil, fmt.Errorf("achievement %q: %w", a.Name, err)
		}
	}
	return &c, nil
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(seedCatalog)
}

// Seed upserts the catalog by name. Running it twice changes nothing.
func Seed(db *gorm.DB, c *Catalog, log *zap.Logger) error {
	log = logging.OrNop(log)
	return db.Transaction(func(tx *gorm.DB) error {
		for _, s := range c.ShoppingCategories {
			row := models.ShoppingCategory{Name: s.Name, SortOrder: s.SortOrder}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"sort_order", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("failed to seed category %q: %w", s.Name, err)
			}
		}

		for _, s := range c.AchievementTypes {
			criteria, err := json.Marshal(s.Criteria)
			if err != nil {
				return err
			}
			row := models.AchievementType{
				Name:         s.Name,
				Description:  s.Description,
				Icon:         s.Icon,
				Criteria:     datatypes.JSON(criteria),
				RewardPoints: s.RewardPoints,
			}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"description", "icon", "criteria", "reward_points", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("failed to seed achievement %q: %w", s.Name, err)
			}
		}

		log.Info("Seeded catalog",
			zap.Int("shopping_categories", len(c.ShoppingCategories)),
			zap.Int("achievement_types", len(c.AchievementTypes)))
		return nil
	})
}

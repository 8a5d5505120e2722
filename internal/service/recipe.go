package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/nutrition"
	"github.com/pageza/platewise/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db       *gorm.DB
	embedder Embedder
	logger   *zap.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, embedder Embedder, logger *zap.Logger) *RecipeService {
	if embedder == nil {
		embedder = HashEmbedder{}
	}
	return &RecipeService{
		db:       db,
		embedder: embedder,
		logger:   logging.OrNop(logger).Named("recipes"),
	}
}

func preloadIngredients(db *gorm.DB) *gorm.DB {
	return db.Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("recipe_ingredients.position")
	}).Preload("Ingredients.FoodItem")
}

// CreateRecipe creates a recipe with its ingredient lines.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe := &models.Recipe{UserID: userID}
	applyRecipeRequest(recipe, req)
	recipe.Ingredients = ingredientRows(req.Ingredients)
	recipe.Embedding = s.embed(recipe)

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, dbErr("create recipe", err)
	}
	return s.GetRecipe(ctx, userID, recipe.ID)
}

// GetRecipe returns a recipe the user owns or one shared publicly.
func (s *RecipeService) GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := preloadIngredients(s.db.WithContext(ctx)).
		Where("recipes.id = ?", id).
		Where("recipes.user_id = ? OR EXISTS (SELECT 1 FROM shared_recipes sr WHERE sr.recipe_id = recipes.id AND sr.is_public = ?)", userID, true).
		First(&recipe).Error
	if err != nil {
		return nil, dbErr("get recipe", err)
	}
	return &recipe, nil
}

func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := preloadIngredients(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, dbErr("list recipes", err)
	}
	return recipes, nil
}

// UpdateRecipe replaces the recipe fields and its ingredient lines.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&recipe).Error; err != nil {
			return dbErr("get recipe", err)
		}
		applyRecipeRequest(&recipe, req)
		recipe.Ingredients = ingredientRows(req.Ingredients)
		recipe.Embedding = s.embed(&recipe)

		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return dbErr("replace ingredients", err)
		}
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].RecipeID = id
		}
		if len(recipe.Ingredients) > 0 {
			if err := tx.Create(&recipe.Ingredients).Error; err != nil {
				return dbErr("replace ingredients", err)
			}
		}
		return dbErr("update recipe", tx.Omit("Ingredients").Save(&recipe).Error)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, userID, id)
}

// DeleteRecipe deletes a recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Recipe{})
		if res.Error != nil {
			return dbErr("delete recipe", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return dbErr("delete ingredients", err)
		}
		return dbErr("unshare recipe", tx.Where("recipe_id = ?", id).Delete(&models.SharedRecipe{}).Error)
	})
}

// Nutrition totals the recipe's resolved ingredients and divides by servings.
func (s *RecipeService) Nutrition(ctx context.Context, userID, id uuid.UUID) (*nutrition.RecipeNutrition, error) {
	recipe, err := s.GetRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	out := RecipeNutrition(recipe)
	return &out, nil
}

// RecipeNutrition computes nutrition for a recipe with its ingredients and
// food items loaded.
func RecipeNutrition(recipe *models.Recipe) nutrition.RecipeNutrition {
	lines := make([]nutrition.Ingredient, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		line := nutrition.Ingredient{Quantity: ing.Quantity, Unit: ing.Unit}
		if ing.FoodItem != nil {
			m := ing.FoodItem.Per100g().Macros()
			line.Food = &m
		}
		lines = append(lines, line)
	}
	return nutrition.ComputeRecipeNutrition(lines, recipe.Servings)
}

// SearchRecipes ranks the user's recipes by embedding distance on postgres
// and falls back to a name/description match elsewhere.
func (s *RecipeService) SearchRecipes(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.Recipe, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	q := preloadIngredients(s.db.WithContext(ctx)).Where("recipes.user_id = ?", userID).Limit(limit)

	query = strings.TrimSpace(query)
	switch {
	case query == "":
		q = q.Order("recipes.created_at DESC")
	case s.db.Dialector.Name() == "postgres":
		q = q.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "recipes.embedding <=> ?", Vars: []interface{}{s.embedder.Embed(query)}},
		})
	default:
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(recipes.name) LIKE ? OR LOWER(recipes.description) LIKE ? OR LOWER(recipes.tags) LIKE ?", like, like, like).
			Order("recipes.name")
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, dbErr("search recipes", err)
	}
	return recipes, nil
}

func (s *RecipeService) embed(recipe *models.Recipe) pgvector.Vector {
	names := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		names = append(names, ing.IngredientName)
	}
	return s.embedder.Embed(recipeText(recipe.Name, recipe.Description, recipe.Tags, names))
}

func applyRecipeRequest(recipe *models.Recipe, req *types.RecipeRequest) {
	recipe.Name = strings.TrimSpace(req.Name)
	recipe.Description = req.Description
	recipe.Servings = req.Servings
	if recipe.Servings < 1 {
		recipe.Servings = 1
	}
	recipe.PrepTimeMinutes = req.PrepTimeMinutes
	recipe.CookTimeMinutes = req.CookTimeMinutes
	recipe.Instructions = req.Instructions
	recipe.Tags = models.StringList(req.Tags)
	recipe.MealTimes = models.StringList(req.MealTimes)
}

func ingredientRows(reqs []types.IngredientRequest) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, 0, len(reqs))
	for i, r := range reqs {
		rows = append(rows, models.RecipeIngredient{
			FoodItemID:     r.FoodItemID,
			IngredientName: strings.TrimSpace(r.Name),
			Quantity:       r.Quantity,
			Unit:           r.Unit,
			Position:       i,
		})
	}
	return rows
}

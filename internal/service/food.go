package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/platewise/backend/internal/barcode"
	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/nutrition"
	"github.com/pageza/platewise/backend/internal/openfoodfacts"
	"github.com/pageza/platewise/backend/internal/types"
)

const defaultSearchLimit = 20

// ProductSource resolves packaged products from an external food database.
type ProductSource interface {
	LookupBarcode(ctx context.Context, code string) (*openfoodfacts.Product, error)
	Search(ctx context.Context, query string, limit int) ([]openfoodfacts.Product, error)
}

// FoodService is the query layer for food items. A user sees their own items,
// public items and imported items.
type FoodService struct {
	db       *gorm.DB
	products ProductSource
	logger   *zap.Logger
}

var _ IFoodService = (*FoodService)(nil)

func NewFoodService(db *gorm.DB, products ProductSource, logger *zap.Logger) *FoodService {
	return &FoodService{
		db:       db,
		products: products,
		logger:   logging.OrNop(logger).Named("food"),
	}
}

func visibleFoods(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Where("food_items.user_id = ? OR food_items.is_public = ? OR food_items.user_id IS NULL", userID, true)
}

func (s *FoodService) Create(ctx context.Context, userID uuid.UUID, req *types.FoodItemRequest) (*models.FoodItem, error) {
	item := &models.FoodItem{UserID: &userID, Source: "user"}
	if err := applyFoodRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, dbErr("create food item", err)
	}
	return item, nil
}

func (s *FoodService) Get(ctx context.Context, userID, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	err := visibleFoods(s.db.WithContext(ctx), userID).First(&item, "food_items.id = ?", id).Error
	if err != nil {
		return nil, dbErr("get food item", err)
	}
	return &item, nil
}

func (s *FoodService) Update(ctx context.Context, userID, id uuid.UUID, req *types.FoodItemRequest) (*models.FoodItem, error) {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item.UserID == nil || *item.UserID != userID {
		return nil, ErrForbidden
	}
	if err := applyFoodRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, dbErr("update food item", err)
	}
	return item, nil
}

func (s *FoodService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.FoodItem{})
	if res.Error != nil {
		return dbErr("delete food item", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches name or brand, case-insensitively.
func (s *FoodService) Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.FoodItem, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	q := visibleFoods(s.db.WithContext(ctx), userID)
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("(LOWER(food_items.name) LIKE ? OR LOWER(food_items.brand) LIKE ?)", like, like)
	}

	var items []models.FoodItem
	if err := q.Order("food_items.name").Limit(limit).Find(&items).Error; err != nil {
		return nil, dbErr("search food items", err)
	}
	return items, nil
}

// LookupBarcode validates a typed barcode and resolves it against local food
// items, then Open Food Facts. Remote hits are stored as public items.
func (s *FoodService) LookupBarcode(ctx context.Context, userID uuid.UUID, raw string) (*models.FoodItem, error) {
	code, err := barcode.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var item models.FoodItem
	err = visibleFoods(s.db.WithContext(ctx), userID).Where("food_items.barcode = ?", code).First(&item).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbErr("find food item by barcode", err)
	}

	if s.products == nil {
		return nil, ErrNotFound
	}
	product, err := s.products.LookupBarcode(ctx, code)
	if err != nil {
		if errors.Is(err, openfoodfacts.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Warn("barcode lookup failed", zap.String("barcode", code), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return s.importProduct(ctx, product)
}

// SearchProducts queries Open Food Facts without storing anything.
func (s *FoodService) SearchProducts(ctx context.Context, query string, limit int) ([]openfoodfacts.Product, error) {
	if s.products == nil {
		return nil, nil
	}
	products, err := s.products.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return products, nil
}

func (s *FoodService) importProduct(ctx context.Context, p *openfoodfacts.Product) (*models.FoodItem, error) {
	code := p.Code
	item := &models.FoodItem{
		Name:        p.Name,
		Brand:       p.Brand,
		Barcode:     &code,
		ServingSize: p.ServingSize,
		ServingUnit: p.ServingUnit,
		IsPublic:    true,
		Source:      "openfoodfacts",
	}
	if item.Name == "" {
		item.Name = "Product " + code
	}
	if item.ServingSize <= 0 {
		item.ServingSize = 100
	}
	if item.ServingUnit == "" {
		item.ServingUnit = "g"
	}
	item.SetPer100g(p.Per100g)

	db := s.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error; err != nil {
		return nil, dbErr("import product", err)
	}

	// A concurrent import may have won the insert.
	var stored models.FoodItem
	if err := db.Where("barcode = ?", code).First(&stored).Error; err != nil {
		return nil, dbErr("load imported product", err)
	}
	s.logger.Info("imported product", zap.String("barcode", code), zap.String("name", stored.Name))
	return &stored, nil
}

func applyFoodRequest(item *models.FoodItem, req *types.FoodItemRequest) error {
	item.Name = strings.TrimSpace(req.Name)
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	item.Brand = req.Brand
	item.Barcode = nil
	if strings.TrimSpace(req.Barcode) != "" {
		code, err := barcode.Parse(req.Barcode)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		item.Barcode = &code
	}
	item.ServingSize = req.ServingSize
	if item.ServingSize <= 0 {
		item.ServingSize = 100
	}
	item.ServingUnit = req.ServingUnit
	if item.ServingUnit == "" {
		item.ServingUnit = "g"
	}
	item.IsPublic = req.IsPublic
	item.SetPer100g(nutrition.Per100g{
		Calories: req.CaloriesPer100g,
		Protein:  req.ProteinPer100g,
		Carbs:    req.CarbsPer100g,
		Fat:      req.FatPer100g,
		Fiber:    req.FiberPer100g,
		Sugar:    req.SugarPer100g,
		Sodium:   req.SodiumPer100g,
	})
	return nil
}

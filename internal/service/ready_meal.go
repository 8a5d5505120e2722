package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/types"
)

// ReadyMealService tracks pre-cooked meals kept in stock.
type ReadyMealService struct {
	db *gorm.DB
}

var _ IReadyMealService = (*ReadyMealService)(nil)

func NewReadyMealService(db *gorm.DB) *ReadyMealService {
	return &ReadyMealService{db: db}
}

func (s *ReadyMealService) Create(ctx context.Context, userID uuid.UUID, req *types.ReadyMealRequest) (*models.ReadyMeal, error) {
	meal := &models.ReadyMeal{UserID: userID}
	if err := applyReadyMeal(meal, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, dbErr("create ready meal", err)
	}
	return meal, nil
}

func (s *ReadyMealService) Get(ctx context.Context, userID, id uuid.UUID) (*models.ReadyMeal, error) {
	var meal models.ReadyMeal
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&meal).Error; err != nil {
		return nil, dbErr("get ready meal", err)
	}
	return &meal, nil
}

func (s *ReadyMealService) List(ctx context.Context, userID uuid.UUID) ([]models.ReadyMeal, error) {
	var meals []models.ReadyMeal
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&meals).Error; err != nil {
		return nil, dbErr("list ready meals", err)
	}
	return meals, nil
}

func (s *ReadyMealService) Update(ctx context.Context, userID, id uuid.UUID, req *types.ReadyMealRequest) (*models.ReadyMeal, error) {
	meal, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyReadyMeal(meal, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(meal).Error; err != nil {
		return nil, dbErr("update ready meal", err)
	}
	return meal, nil
}

func (s *ReadyMealService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.ReadyMeal{})
	if res.Error != nil {
		return dbErr("delete ready meal", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock adds delta to the stock. Stock never goes below zero.
func (s *ReadyMealService) AdjustStock(ctx context.Context, userID, id uuid.UUID, delta int) (*models.ReadyMeal, error) {
	var meal models.ReadyMeal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&meal).Error; err != nil {
			return dbErr("get ready meal", err)
		}
		if meal.StockQuantity+delta < 0 {
			return fmt.Errorf("%w: only %d in stock", ErrInvalidInput, meal.StockQuantity)
		}
		meal.StockQuantity += delta
		return dbErr("adjust stock", tx.Model(&meal).Update("stock_quantity", meal.StockQuantity).Error)
	})
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// LowStock lists meals at or below their minimum stock.
func (s *ReadyMealService) LowStock(ctx context.Context, userID uuid.UUID) ([]models.ReadyMeal, error) {
	var meals []models.ReadyMeal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND stock_quantity <= minimum_stock", userID).
		Order("stock_quantity").
		Find(&meals).Error
	if err != nil {
		return nil, dbErr("list low stock", err)
	}
	return meals, nil
}

func applyReadyMeal(meal *models.ReadyMeal, req *types.ReadyMealRequest) error {
	meal.Name = strings.TrimSpace(req.Name)
	if meal.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	meal.Description = req.Description
	meal.StockQuantity = req.StockQuantity
	meal.MinimumStock = req.MinimumStock
	meal.Calories = req.Calories
	meal.Protein = req.Protein
	meal.Carbs = req.Carbs
	meal.Fat = req.Fat
	return nil
}

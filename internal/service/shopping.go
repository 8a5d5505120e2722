package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/shopping"
	"github.com/pageza/platewise/backend/internal/types"
)

// ShoppingListView is a list with its items grouped by category and totalled.
type ShoppingListView struct {
	models.ShoppingList
	shopping.Summary
}

// ShoppingService covers shopping lists, their items and the shared category
// catalog.
type ShoppingService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IShoppingService = (*ShoppingService)(nil)

func NewShoppingService(db *gorm.DB, logger *zap.Logger) *ShoppingService {
	return &ShoppingService{db: db, logger: logging.OrNop(logger).Named("shopping")}
}

func (s *ShoppingService) ListCategories(ctx context.Context) ([]models.ShoppingCategory, error) {
	var cats []models.ShoppingCategory
	if err := s.db.WithContext(ctx).Order("sort_order").Order("name").Find(&cats).Error; err != nil {
		return nil, dbErr("list categories", err)
	}
	return cats, nil
}

func (s *ShoppingService) CreateList(ctx context.Context, userID uuid.UUID, req *types.ShoppingListRequest) (*models.ShoppingList, error) {
	list := &models.ShoppingList{
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		MealPlanID: req.MealPlanID,
	}
	if list.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, dbErr("create shopping list", err)
	}
	return list, nil
}

func (s *ShoppingService) ListLists(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&lists).Error; err != nil {
		return nil, dbErr("list shopping lists", err)
	}
	return lists, nil
}

// GetList loads the list with its items, grouped and totalled.
func (s *ShoppingService) GetList(ctx context.Context, userID, id uuid.UUID) (*ShoppingListView, error) {
	var list models.ShoppingList
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("shopping_list_items.position").Order("shopping_list_items.created_at")
		}).
		Preload("Items.Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&list).Error
	if err != nil {
		return nil, dbErr("get shopping list", err)
	}

	return &ShoppingListView{
		ShoppingList: list,
		Summary:      shopping.Summarize(toShoppingItems(list.Items)),
	}, nil
}

func (s *ShoppingService) DeleteList(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.ShoppingList{})
		if res.Error != nil {
			return dbErr("delete shopping list", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return dbErr("delete items", tx.Where("shopping_list_id = ?", id).Delete(&models.ShoppingListItem{}).Error)
	})
}

func (s *ShoppingService) AddItem(ctx context.Context, userID, listID uuid.UUID, req *types.ShoppingItemRequest) (*models.ShoppingListItem, error) {
	if err := s.checkList(ctx, userID, listID); err != nil {
		return nil, err
	}

	var position int64
	if err := s.db.WithContext(ctx).Model(&models.ShoppingListItem{}).Where("shopping_list_id = ?", listID).Count(&position).Error; err != nil {
		return nil, dbErr("count items", err)
	}

	item := &models.ShoppingListItem{
		ShoppingListID: listID,
		ItemName:       strings.TrimSpace(req.ItemName),
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		CategoryID:     req.CategoryID,
		EstimatedCost:  req.EstimatedCost,
		ActualCost:     req.ActualCost,
		FoodItemID:     req.FoodItemID,
		ReadyMealID:    req.ReadyMealID,
		Position:       int(position),
	}
	if item.ItemName == "" {
		return nil, fmt.Errorf("%w: item_name is required", ErrInvalidInput)
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, dbErr("add item", err)
	}
	return item, nil
}

// TogglePurchased flips the purchased flag and returns the new value.
func (s *ShoppingService) TogglePurchased(ctx context.Context, userID, listID, itemID uuid.UUID) (*models.ShoppingListItem, error) {
	item, err := s.getItem(ctx, userID, listID, itemID)
	if err != nil {
		return nil, err
	}
	item.IsPurchased = !item.IsPurchased
	if err := s.db.WithContext(ctx).Model(item).Update("is_purchased", item.IsPurchased).Error; err != nil {
		return nil, dbErr("toggle purchased", err)
	}
	return item, nil
}

// UpdateCost sets the estimated and actual cost. A nil field clears the value.
func (s *ShoppingService) UpdateCost(ctx context.Context, userID, listID, itemID uuid.UUID, req *types.UpdateCostRequest) (*models.ShoppingListItem, error) {
	item, err := s.getItem(ctx, userID, listID, itemID)
	if err != nil {
		return nil, err
	}
	item.EstimatedCost = req.EstimatedCost
	item.ActualCost = req.ActualCost
	err = s.db.WithContext(ctx).Model(item).Select("estimated_cost", "actual_cost").Updates(item).Error
	if err != nil {
		return nil, dbErr("update cost", err)
	}
	return item, nil
}

func (s *ShoppingService) DeleteItem(ctx context.Context, userID, listID, itemID uuid.UUID) error {
	if err := s.checkList(ctx, userID, listID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ? AND shopping_list_id = ?", itemID, listID).Delete(&models.ShoppingListItem{})
	if res.Error != nil {
		return dbErr("delete item", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ShoppingService) checkList(ctx context.Context, userID, listID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ShoppingList{}).Where("id = ? AND user_id = ?", listID, userID).Count(&count).Error; err != nil {
		return dbErr("check shopping list", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ShoppingService) getItem(ctx context.Context, userID, listID, itemID uuid.UUID) (*models.ShoppingListItem, error) {
	if err := s.checkList(ctx, userID, listID); err != nil {
		return nil, err
	}
	var item models.ShoppingListItem
	if err := s.db.WithContext(ctx).Where("id = ? AND shopping_list_id = ?", itemID, listID).First(&item).Error; err != nil {
		return nil, dbErr("get item", err)
	}
	return &item, nil
}

func toShoppingItems(rows []models.ShoppingListItem) []shopping.Item {
	items := make([]shopping.Item, 0, len(rows))
	for _, r := range rows {
		it := shopping.Item{
			ID:            r.ID,
			Name:          r.ItemName,
			Quantity:      r.Quantity,
			Unit:          r.Unit,
			EstimatedCost: r.EstimatedCost,
			ActualCost:    r.ActualCost,
			Purchased:     r.IsPurchased,
		}
		if r.Category != nil {
			it.Category = &shopping.Category{
				ID:        r.Category.ID,
				Name:      r.Category.Name,
				SortOrder: r.Category.SortOrder,
			}
		}
		items = append(items, it)
	}
	return items
}

package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/openfoodfacts"
	"github.com/pageza/platewise/backend/internal/vision"
)

const matchesPerTerm = 5

// FoodIdentifier recognises foods in a photo. *vision.Chain implements it.
type FoodIdentifier interface {
	IdentifyFoods(ctx context.Context, img vision.Image, hint string) (*vision.Identification, error)
	EstimateMeal(ctx context.Context, img vision.Image, description string) (*vision.MealEstimate, error)
}

// TermMatches are the candidates found for one search term.
type TermMatches struct {
	Term      string                  `json:"term"`
	FoodItems []models.FoodItem       `json:"food_items"`
	Products  []openfoodfacts.Product `json:"products"`
}

// PhotoIdentification is the identification plus the search results of each
// suggested term.
type PhotoIdentification struct {
	*vision.Identification
	Matches []TermMatches `json:"matches"`
}

// IdentifyService maps a photo or a typed barcode to food items.
type IdentifyService struct {
	identifier FoodIdentifier
	foods      *FoodService
	logger     *zap.Logger
}

var _ IIdentifyService = (*IdentifyService)(nil)

func NewIdentifyService(identifier FoodIdentifier, foods *FoodService, logger *zap.Logger) *IdentifyService {
	return &IdentifyService{
		identifier: identifier,
		foods:      foods,
		logger:     logging.OrNop(logger).Named("identify"),
	}
}

// IdentifyPhoto asks the vision chain for search terms and searches local
// food items and Open Food Facts with each of them. A failed product search
// leaves that term's Products empty.
func (s *IdentifyService) IdentifyPhoto(ctx context.Context, userID uuid.UUID, img vision.Image, hint string) (*PhotoIdentification, error) {
	id, err := s.identifier.IdentifyFoods(ctx, img, hint)
	if err != nil {
		return nil, err
	}

	matches := make([]TermMatches, len(id.SearchTerms))
	g, gctx := errgroup.WithContext(ctx)
	for i, term := range id.SearchTerms {
		matches[i] = TermMatches{Term: term, FoodItems: []models.FoodItem{}, Products: []openfoodfacts.Product{}}
		g.Go(func() error {
			items, err := s.foods.Search(gctx, userID, term, matchesPerTerm)
			if err != nil {
				return err
			}
			matches[i].FoodItems = items
			return nil
		})
		g.Go(func() error {
			products, err := s.foods.SearchProducts(gctx, term, matchesPerTerm)
			if err != nil {
				s.logger.Warn("product search failed", zap.String("term", term), zap.Error(err))
				return nil
			}
			if products != nil {
				matches[i].Products = products
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PhotoIdentification{Identification: id, Matches: matches}, nil
}

// LookupBarcode resolves a code the user typed in.
func (s *IdentifyService) LookupBarcode(ctx context.Context, userID uuid.UUID, code string) (*models.FoodItem, error) {
	return s.foods.LookupBarcode(ctx, userID, code)
}

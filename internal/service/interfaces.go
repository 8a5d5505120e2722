package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/platewise/backend/internal/achievement"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/nutrition"
	"github.com/pageza/platewise/backend/internal/openfoodfacts"
	"github.com/pageza/platewise/backend/internal/planner"
	"github.com/pageza/platewise/backend/internal/types"
	"github.com/pageza/platewise/backend/internal/vision"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateGoals(ctx context.Context, userID uuid.UUID, req *types.UpdateGoalsRequest) (*models.Profile, error)
}

type IFoodService interface {
	Create(ctx context.Context, userID uuid.UUID, req *types.FoodItemRequest) (*models.FoodItem, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.FoodItem, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *types.FoodItemRequest) (*models.FoodItem, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.FoodItem, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]openfoodfacts.Product, error)
	LookupBarcode(ctx context.Context, userID uuid.UUID, code string) (*models.FoodItem, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, id uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error
	Nutrition(ctx context.Context, userID, id uuid.UUID) (*nutrition.RecipeNutrition, error)
	SearchRecipes(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.Recipe, error)
}

type IMealService interface {
	CreateMeal(ctx context.Context, userID uuid.UUID, req *types.MealRequest) (*models.Meal, error)
	GetMeal(ctx context.Context, userID, id uuid.UUID) (*models.Meal, error)
	ListMeals(ctx context.Context, userID uuid.UUID, from, to string) ([]models.Meal, error)
	UpdateMeal(ctx context.Context, userID, id uuid.UUID, req *types.MealRequest) (*models.Meal, error)
	DeleteMeal(ctx context.Context, userID, id uuid.UUID) error
	LogMealNutrition(ctx context.Context, userID, mealID uuid.UUID) (*models.NutritionLog, error)

	CreateNutritionLog(ctx context.Context, userID uuid.UUID, req *types.NutritionLogRequest) (*models.NutritionLog, error)
	GetNutritionLog(ctx context.Context, userID, id uuid.UUID) (*models.NutritionLog, error)
	UpdateNutritionLog(ctx context.Context, userID, id uuid.UUID, req *types.NutritionLogRequest) (*models.NutritionLog, error)
	DeleteNutritionLog(ctx context.Context, userID, id uuid.UUID) error
	DailyNutrition(ctx context.Context, userID uuid.UUID, day string) (*DailyNutrition, error)
	GoalProgress(ctx context.Context, userID uuid.UUID, day string) (*nutrition.GoalReport, error)
}

type IPlanService interface {
	CreatePlan(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*models.MealPlan, error)
	GetPlan(ctx context.Context, userID, id uuid.UUID) (*models.MealPlan, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error)
	UpdatePlan(ctx context.Context, userID, id uuid.UUID, req *types.MealPlanRequest) (*models.MealPlan, error)
	DeletePlan(ctx context.Context, userID, id uuid.UUID) error

	CreateEvent(ctx context.Context, userID uuid.UUID, req *types.MealPlanEventRequest) (*models.MealPlanEvent, error)
	UpdateEvent(ctx context.Context, userID, id uuid.UUID, req *types.MealPlanEventRequest) (*models.MealPlanEvent, error)
	DeleteEvent(ctx context.Context, userID, id uuid.UUID) error
	ListEvents(ctx context.Context, userID uuid.UUID, from, to string) ([]models.MealPlanEvent, error)
	Week(ctx context.Context, userID uuid.UUID, day string) ([]planner.Day, error)

	GenerateShoppingList(ctx context.Context, userID, planID uuid.UUID, name string) (*models.ShoppingList, error)
}

type IShoppingService interface {
	ListCategories(ctx context.Context) ([]models.ShoppingCategory, error)
	CreateList(ctx context.Context, userID uuid.UUID, req *types.ShoppingListRequest) (*models.ShoppingList, error)
	ListLists(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error)
	GetList(ctx context.Context, userID, id uuid.UUID) (*ShoppingListView, error)
	DeleteList(ctx context.Context, userID, id uuid.UUID) error
	AddItem(ctx context.Context, userID, listID uuid.UUID, req *types.ShoppingItemRequest) (*models.ShoppingListItem, error)
	TogglePurchased(ctx context.Context, userID, listID, itemID uuid.UUID) (*models.ShoppingListItem, error)
	UpdateCost(ctx context.Context, userID, listID, itemID uuid.UUID, req *types.UpdateCostRequest) (*models.ShoppingListItem, error)
	DeleteItem(ctx context.Context, userID, listID, itemID uuid.UUID) error
}

type IAchievementService interface {
	Definitions(ctx context.Context) ([]achievement.Definition, error)
	Counters(ctx context.Context, userID uuid.UUID) (achievement.Counters, error)
	Progress(ctx context.Context, userID uuid.UUID) (*AchievementReport, error)
	Evaluate(ctx context.Context, userID uuid.UUID) (*AchievementReport, error)
	Earned(ctx context.Context, userID uuid.UUID) ([]models.UserAchievement, error)
}

type ICommunityService interface {
	Share(ctx context.Context, userID uuid.UUID, req *types.ShareRecipeRequest) (*models.SharedRecipe, error)
	Unshare(ctx context.Context, userID, sharedID uuid.UUID) error
	Feed(ctx context.Context, limit, offset int) ([]models.SharedRecipe, error)
	GetShared(ctx context.Context, userID, sharedID uuid.UUID) (*models.SharedRecipe, error)
	Rate(ctx context.Context, userID, sharedID uuid.UUID, req *types.RateRecipeRequest) (*models.SharedRecipe, error)
	AddComment(ctx context.Context, userID, sharedID uuid.UUID, req *types.CommentRequest) (*models.RecipeComment, error)
	Comments(ctx context.Context, userID, sharedID uuid.UUID) ([]models.RecipeComment, error)
}

type IReadyMealService interface {
	Create(ctx context.Context, userID uuid.UUID, req *types.ReadyMealRequest) (*models.ReadyMeal, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.ReadyMeal, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.ReadyMeal, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *types.ReadyMealRequest) (*models.ReadyMeal, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	AdjustStock(ctx context.Context, userID, id uuid.UUID, delta int) (*models.ReadyMeal, error)
	LowStock(ctx context.Context, userID uuid.UUID) ([]models.ReadyMeal, error)
}

type IIdentifyService interface {
	IdentifyPhoto(ctx context.Context, userID uuid.UUID, img vision.Image, hint string) (*PhotoIdentification, error)
	LookupBarcode(ctx context.Context, userID uuid.UUID, code string) (*models.FoodItem, error)
}

type IPhotoService interface {
	Upload(ctx context.Context, userID uuid.UUID, up *PhotoUpload) (*models.MealPhoto, error)
	Analyze(ctx context.Context, userID, photoID uuid.UUID, logNutrition bool) (*PhotoAnalysis, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.MealPhoto, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.MealPhoto, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type IRecommendationService interface {
	Suggest(ctx context.Context, userID uuid.UUID, day string) (*Recommendations, error)
}

type IFitbitService interface {
	Start(ctx context.Context, userID uuid.UUID) (string, error)
	Callback(ctx context.Context, state, code string) (*FitbitStatus, error)
	Status(ctx context.Context, userID uuid.UUID) (*FitbitStatus, error)
	Disconnect(ctx context.Context, userID uuid.UUID) error
}

type IScheduleService interface {
	CreateSchedule(ctx context.Context, userID uuid.UUID, req *types.WorkScheduleRequest) (*models.WorkSchedule, error)
	GetSchedule(ctx context.Context, userID, id uuid.UUID) (*models.WorkSchedule, error)
	ListSchedules(ctx context.Context, userID uuid.UUID) ([]models.WorkSchedule, error)
	UpdateSchedule(ctx context.Context, userID, id uuid.UUID, req *types.WorkScheduleRequest) (*models.WorkSchedule, error)
	SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.WorkSchedule, error)
	DeleteSchedule(ctx context.Context, userID, id uuid.UUID) error
}

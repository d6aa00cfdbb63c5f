package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mealvine/mealvine-backend/api/controllers"
	"github.com/mealvine/mealvine-backend/api/middleware"
	"github.com/mealvine/mealvine-backend/internal/fooditems"
	"github.com/mealvine/mealvine-backend/internal/invitations"
	"github.com/mealvine/mealvine-backend/internal/mealplans"
	"github.com/mealvine/mealvine-backend/internal/notifications"
	"github.com/mealvine/mealvine-backend/internal/pantry"
	"github.com/mealvine/mealvine-backend/internal/purchasehistory"
	"github.com/mealvine/mealvine-backend/internal/realtime"
	"github.com/mealvine/mealvine-backend/internal/recipes"
	"github.com/mealvine/mealvine-backend/internal/shoppinglist"
	"github.com/mealvine/mealvine-backend/internal/stores"
	"github.com/mealvine/mealvine-backend/internal/users"
	"github.com/mealvine/mealvine-backend/pkg/config"
	"github.com/mealvine/mealvine-backend/pkg/logger"
	"github.com/mealvine/mealvine-backend/pkg/redis"
)

// Services bundles everything the HTTP layer serves.
type Services struct {
	Users           users.Service
	Stores          stores.Service
	Invitations     invitations.Service
	FoodItems       fooditems.Service
	ShoppingList    shoppinglist.Service
	PurchaseHistory purchasehistory.Service
	Pantry          pantry.Service
	Recipes         recipes.Service
	MealPlans       mealplans.Service
	Notifications   notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP, cacheP controllers.Pinger,
	idemStore redis.IdempotencyStore,
	registry *realtime.Registry,
	broadcaster *realtime.Broadcaster,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(dbP, cacheP, logg))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/users", func(r chi.Router) {
			r.Post("/sync", controllers.SyncProfile(svcs.Users, logg))
			r.Get("/me", controllers.GetMe(svcs.Users, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.CreateStore(svcs.Stores, logg))
			r.Get("/", controllers.ListStores(svcs.Stores, logg))

			r.Route("/{storeID}", func(r chi.Router) {
				r.Get("/", controllers.GetStore(svcs.Stores, logg))
				r.Patch("/", controllers.UpdateStore(svcs.Stores, logg))
				r.Delete("/", controllers.DeleteStore(svcs.Stores, logg))

				r.Route("/invitations", func(r chi.Router) {
					r.Post("/", controllers.InviteCollaborator(svcs.Invitations, logg))
					r.Get("/", controllers.ListStoreInvitations(svcs.Invitations, logg))
				})

				r.Route("/food-items", func(r chi.Router) {
					r.Post("/", controllers.CreateFoodItem(svcs.FoodItems, logg))
					r.Get("/", controllers.ListFoodItems(svcs.FoodItems, logg))
					r.Patch("/{foodItemID}", controllers.UpdateFoodItem(svcs.FoodItems, logg))
					r.Delete("/{foodItemID}", controllers.DeleteFoodItem(svcs.FoodItems, logg))
				})

				r.Route("/shopping-list", func(r chi.Router) {
					r.Get("/", controllers.GetShoppingList(svcs.ShoppingList, logg))
					r.Get("/stream", controllers.StreamShoppingList(svcs.Stores, registry, broadcaster, cfg.Realtime.KeepaliveInterval, logg))
					r.Post("/items", controllers.AddListItem(svcs.ShoppingList, logg))
					r.Patch("/items/{foodItemID}", controllers.UpdateListItem(svcs.ShoppingList, logg))
					r.Delete("/items/{foodItemID}", controllers.RemoveListItem(svcs.ShoppingList, logg))
					r.Patch("/items/{foodItemID}/toggle", controllers.ToggleListItem(svcs.ShoppingList, logg))
					r.Post("/finish", controllers.FinishShop(svcs.ShoppingList, logg))
				})

				r.Get("/purchase-history", controllers.ListPurchaseHistory(svcs.PurchaseHistory, logg))

				r.Route("/pantry", func(r chi.Router) {
					r.Post("/", controllers.CreatePantryItem(svcs.Pantry, logg))
					r.Get("/", controllers.ListPantry(svcs.Pantry, logg))
					r.Patch("/{pantryItemID}", controllers.UpdatePantryItem(svcs.Pantry, logg))
					r.Delete("/{pantryItemID}", controllers.DeletePantryItem(svcs.Pantry, logg))
				})
			})
		})

		r.Route("/invitations", func(r chi.Router) {
			r.Get("/", controllers.ListMyInvitations(svcs.Invitations, logg))
			r.Post("/{invitationID}/accept", controllers.AcceptInvitation(svcs.Invitations, logg))
			r.Post("/{invitationID}/reject", controllers.RejectInvitation(svcs.Invitations, logg))
			r.Delete("/{invitationID}", controllers.RevokeInvitation(svcs.Invitations, logg))
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Post("/", controllers.CreateRecipe(svcs.Recipes, logg))
			r.Get("/", controllers.ListRecipes(svcs.Recipes, logg))
			r.Route("/{recipeID}", func(r chi.Router) {
				r.Get("/", controllers.GetRecipe(svcs.Recipes, logg))
				r.Patch("/", controllers.UpdateRecipe(svcs.Recipes, logg))
				r.Delete("/", controllers.DeleteRecipe(svcs.Recipes, logg))
				r.Post("/add-to-list", controllers.AddRecipeToShoppingList(svcs.Recipes, logg))
			})
		})

		r.Route("/meal-plan", func(r chi.Router) {
			r.Post("/", controllers.CreateMealPlanEntry(svcs.MealPlans, logg))
			r.Get("/", controllers.ListMealPlan(svcs.MealPlans, logg))
			r.Patch("/{entryID}", controllers.UpdateMealPlanEntry(svcs.MealPlans, logg))
			r.Delete("/{entryID}", controllers.DeleteMealPlanEntry(svcs.MealPlans, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	return r
}

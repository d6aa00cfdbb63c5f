package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mealvine/mealvine-backend/api/routes"
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
	"github.com/mealvine/mealvine-backend/pkg/db"
	"github.com/mealvine/mealvine-backend/pkg/logger"
	"github.com/mealvine/mealvine-backend/pkg/migrate"
	"github.com/mealvine/mealvine-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()

	usersRepo := users.NewRepository(gormDB)
	storesRepo := stores.NewRepository(gormDB)
	invitationsRepo := invitations.NewRepository(gormDB)
	foodItemsRepo := fooditems.NewRepository(gormDB)
	listRepo := shoppinglist.NewRepository(gormDB)
	historyRepo := purchasehistory.NewRepository(gormDB)
	pantryRepo := pantry.NewRepository(gormDB)
	recipesRepo := recipes.NewRepository(gormDB)
	mealPlansRepo := mealplans.NewRepository(gormDB)
	notificationsRepo := notifications.NewRepository(gormDB)

	registry := realtime.NewRegistry()
	broadcaster := realtime.NewBroadcaster(registry, logg)

	notificationsSvc, err := notifications.NewService(notificationsRepo, logg)
	requireService(logg, "notifications", err)

	usersSvc, err := users.NewService(usersRepo)
	requireService(logg, "users", err)

	storesSvc, err := stores.NewService(storesRepo, invitationsRepo)
	requireService(logg, "stores", err)

	invitationsSvc, err := invitations.NewService(invitations.ServiceParams{
		Repo:     invitationsRepo,
		Stores:   storesRepo,
		Users:    usersRepo,
		Notifier: notificationsSvc,
	})
	requireService(logg, "invitations", err)

	foodItemsSvc, err := fooditems.NewService(foodItemsRepo, storesSvc)
	requireService(logg, "food items", err)

	historySvc, err := purchasehistory.NewService(historyRepo, storesSvc)
	requireService(logg, "purchase history", err)

	shoppingListSvc, err := shoppinglist.NewService(shoppinglist.ServiceParams{
		Repo:      listRepo,
		Access:    storesSvc,
		Resolver:  foodItemsSvc,
		History:   historySvc,
		Publisher: broadcaster,
		Stores:    storesRepo,
		Notifier:  notificationsSvc,
	})
	requireService(logg, "shopping list", err)

	recipesSvc, err := recipes.NewService(recipesRepo, shoppingListSvc)
	requireService(logg, "recipes", err)

	pantrySvc, err := pantry.NewService(pantryRepo, storesSvc)
	requireService(logg, "pantry", err)

	mealPlansSvc, err := mealplans.NewService(mealPlansRepo)
	requireService(logg, "meal plans", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, redisClient, registry, broadcaster, routes.Services{
			Users:           usersSvc,
			Stores:          storesSvc,
			Invitations:     invitationsSvc,
			FoodItems:       foodItemsSvc,
			ShoppingList:    shoppingListSvc,
			PurchaseHistory: historySvc,
			Pantry:          pantrySvc,
			Recipes:         recipesSvc,
			MealPlans:       mealPlansSvc,
			Notifications:   notificationsSvc,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}

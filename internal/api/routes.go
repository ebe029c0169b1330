package api

import (
	"net/http"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	catalogService service.CatalogService,
	resolverService service.ResolverService,
	planService service.PlanService,
	assistantService service.AssistantService,
) {

	authHandler := NewAuthHandler(authService)
	catalogHandler := NewCatalogHandler(catalogService, resolverService)
	planHandler := NewPlanHandler(planService, assistantService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Catalog Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			// GET /api/v1/exercises/resolve?name=... (static segment takes
			// priority over :id)
			exerciseGroup.GET("/resolve", catalogHandler.ResolveExercise)
			exerciseGroup.GET("", catalogHandler.ListExercises)
			exerciseGroup.GET("/:id", catalogHandler.GetExercise)

			// Seeding and media management are admin-only.
			exerciseGroup.POST("", RoleMiddleware(domain.RoleAdmin), catalogHandler.CreateExercise)
			exerciseGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin), catalogHandler.DeleteExercise)
			exerciseGroup.POST("/:id/media-upload-url", RoleMiddleware(domain.RoleAdmin), catalogHandler.GenerateMediaUploadURL)
		}

		// --- Weekly Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.GET("/:id", planHandler.GetPlan)
			planGroup.DELETE("/:id", planHandler.DeletePlan)

			// Structural edits. Every edit rewrites the full day array.
			planGroup.PUT("/:id/week", planHandler.ReplaceWeek)
			planGroup.POST("/:id/days/:day/exercises", planHandler.AddExercise)
			planGroup.DELETE("/:id/days/:day/exercises/:index", planHandler.RemoveExercise)
			planGroup.POST("/:id/days/:day/exercises/:index/move", planHandler.MoveExercise)
			planGroup.POST("/:id/days/:day/clear", planHandler.ClearDay)

			// Assistant chat over an existing plan.
			planGroup.POST("/:id/chat", planHandler.Chat)
		}
	}
}

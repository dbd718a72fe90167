package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/campusmetrics/ploboard/internal/app/controllers"
	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	programController *controllers.ProgramController,
	outcomeController *controllers.OutcomeController,
	termController *controllers.TermController,
	mappingController *controllers.MappingController,
	dashboardController *controllers.DashboardController,
	auditController *controllers.AuditController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Program routes
		programs := authenticated.Group("/programs")
		{
			programs.GET("", programController.GetAllPrograms)
			programs.GET("/:id", programController.GetProgramByID)
			programs.GET("/:id/plos", outcomeController.ListOutcomes)
			programs.GET("/:id/plo-dashboard", dashboardController.GetDashboard)

			// Staff-only routes within programs
			programsStaffProtected := programs.Group("")
			programsStaffProtected.Use(authMiddleware.RoleRequired(string(models.RoleStaff)))
			{
				programsStaffProtected.POST("", programController.CreateProgram)
				programsStaffProtected.PUT("/:id", programController.UpdateProgram)
				programsStaffProtected.POST("/:id/plos", outcomeController.CreateOutcome)
			}
		}

		// Program outcome routes addressed by outcome id
		plos := authenticated.Group("/plos")
		plos.Use(authMiddleware.RoleRequired(string(models.RoleStaff)))
		{
			plos.PUT("/:id", outcomeController.UpdateOutcome)
			plos.DELETE("/:id", outcomeController.DeleteOutcome)
		}

		// Term routes
		terms := authenticated.Group("/terms")
		{
			terms.GET("", termController.GetAllTerms)

			termsStaffProtected := terms.Group("")
			termsStaffProtected.Use(authMiddleware.RoleRequired(string(models.RoleStaff)))
			{
				termsStaffProtected.POST("/import", termController.ImportTerms)
			}
		}

		// Mapping routes - draft/publish workflow
		mappings := authenticated.Group("/plo-mappings")
		{
			mappings.GET("/:programId/unmapped-clos", mappingController.GetUnmappedClos)

			mappingsStaffProtected := mappings.Group("/draft")
			mappingsStaffProtected.Use(authMiddleware.RoleRequired(string(models.RoleStaff)))
			{
				mappingsStaffProtected.POST("", mappingController.EnsureDraft)
				mappingsStaffProtected.POST("/:draftId/entries", mappingController.AddEntry)
				mappingsStaffProtected.DELETE("/:draftId/entries", mappingController.RemoveEntry)
				mappingsStaffProtected.POST("/:draftId/publish", mappingController.Publish)
				mappingsStaffProtected.DELETE("/:draftId", mappingController.Discard)
			}
		}

		// Per-user preference slots
		me := authenticated.Group("/me")
		{
			me.GET("/preferences/:key", dashboardController.GetPreference)
			me.PUT("/preferences/:key", dashboardController.SetPreference)
		}

		// Audit trail
		authenticated.GET("/audit-events", auditController.ListEvents)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}

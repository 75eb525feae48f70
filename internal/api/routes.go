package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/refresh", handler.Refresh)

		v1.GET("/batches", handler.ListBatches)
		v1.POST("/batches", handler.CreateBatch)
		v1.PUT("/batches/:id", handler.UpdateBatch)
		v1.DELETE("/batches/:id", handler.DeleteBatch)

		v1.GET("/eligible-users", handler.EligibleUsers)
		v1.GET("/batches/:id/available-users", handler.AvailableUsers)

		v1.POST("/batches/:id/assign-students", handler.AssignStudents)
		v1.POST("/batches/:id/assign-teachers", handler.AssignTeachers)
		v1.DELETE("/batches/:id/remove-students", handler.RemoveStudents)
		v1.DELETE("/batches/:id/remove-teachers", handler.RemoveTeachers)

		v1.GET("/batches/:id/tests", handler.ListTests)
		v1.POST("/batches/:id/tests", handler.CreateTest)
		v1.PUT("/batches/:id/tests/:testId", handler.UpdateTest)
		v1.DELETE("/tests/:id", handler.DeleteTest)
		v1.PUT("/tests/:id/assign-students", handler.AssignTestStudents)
		v1.GET("/tests/:id/available-students", handler.TestAvailableStudents)

		v1.POST("/batches/:id/dpps", handler.CreateDPP)
		v1.PUT("/batches/:id/dpps/:dppId", handler.UpdateDPP)

		v1.GET("/journal", handler.RecentJournal)
	}
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the full HTTP surface onto router. Only task
// creation and application listing sit behind the auth middleware.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/", h.HandleLiveness)
	router.POST("/jwt", h.HandleIssueSession)
	router.POST("/register", h.HandleRegister)

	taskRouter := router.Group("/task")
	taskRouter.GET("", h.HandleListTasks)
	taskRouter.GET("/:id", h.HandleGetTask)
	taskRouter.POST("", h.HandleAuthMiddleware, h.HandleCreateTask)
	taskRouter.PUT("/:id", h.HandleUpdateTask)
	taskRouter.DELETE("/:id", h.HandleDeleteTask)
	router.GET("/recentTasks", h.HandleRecentTasks)

	bidRouter := router.Group("/bids")
	bidRouter.POST("", h.HandleCreateBid)
	bidRouter.GET("/check/:email/:taskId", h.HandleBidExists)
	bidRouter.GET("/count/:email", h.HandleBidCount)
	bidRouter.GET("/task/:taskId", h.HandleBidsByTask)
	bidRouter.GET("/user/:email", h.HandleBidsByUser)

	applicationRouter := router.Group("/applications")
	applicationRouter.GET("", h.HandleAuthMiddleware, h.HandleListApplications)
	applicationRouter.GET("/task/:taskId", h.HandleApplicationsByTask)
	applicationRouter.POST("", h.HandleCreateApplication)
	applicationRouter.DELETE("/:id", h.HandleDeleteApplication)
}

func (h *handlerImpl) HandleLiveness(c *gin.Context) {
	c.String(http.StatusOK, "SnapTasker server is up and running")
}

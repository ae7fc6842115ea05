package router

import (
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/config"
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
	}))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "fundify-service",
		})
	})

	api := r.Group("/api")
	{
		projectHandler := handler.NewProjectHandler(db)
		investmentHandler := handler.NewInvestmentHandler(db)
		userHandler := handler.NewUserHandler(db)

		// 项目发现与元数据发布
		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.SearchProjects)
			projects.POST("/publish/:address", projectHandler.PublishWithoutIndex)
			projects.POST("/publish/:address/:index", projectHandler.PublishProject)
		}

		// 按地址查询项目和投资
		users := api.Group("/users/:address")
		{
			users.GET("/projects", projectHandler.GetOwnerProjects)
			users.GET("/projects/count", projectHandler.CountOwnerProjects)
			users.GET("/projects/:index", projectHandler.GetOwnerProject)
			users.GET("/projects/:index/investments", investmentHandler.GetProjectInvestments)
			users.GET("/investments", investmentHandler.GetFunderInvestments)
		}

		// 用户档案
		api.GET("/user/:wallet", userHandler.GetUser)
		api.PUT("/user/:wallet", userHandler.UpdateUser)
		api.POST("/user", userHandler.ConnectUser)
	}

	return r
}

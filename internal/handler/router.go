package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/cardkeep/internal/middleware"
	"github.com/xxxsen/cardkeep/internal/pkg/response"
)

type RouterDeps struct {
	Auth   *AuthHandler
	Cards  *CardHandler
	Tokens middleware.TokenVerifier
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/healthz", Health)
	api.POST("/register", deps.Auth.Register)
	api.POST("/token", deps.Auth.Token)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.Tokens))
	authGroup.POST("/cards", deps.Cards.Create)
	authGroup.GET("/cards", deps.Cards.List)
	authGroup.GET("/cards/:id", deps.Cards.Get)
	authGroup.DELETE("/cards/:id", deps.Cards.Delete)
}

func Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/eebmagic/lagnuage-immersion-app/controllers"
	"github.com/eebmagic/lagnuage-immersion-app/services"
)

// Services groups the wired service handles the route table needs.
type Services struct {
	Retrieval *services.Retrieval
	Users     *services.Users
	Loader    *services.Loader
}

func SetupRoutes(router *gin.RouterGroup, svc Services) {
	router.GET("/snippets", controllers.GetSnippets(svc.Retrieval))
	router.GET("/next_media_snippet", controllers.GetNextMediaSnippet(svc.Retrieval))

	router.GET("/user", controllers.GetUser(svc.Users))
	router.PUT("/user", controllers.PutUser(svc.Users))
	router.POST("/user", controllers.PostUser(svc.Users))

	router.GET("/rep", controllers.GetRep(svc.Retrieval))
	router.POST("/rep", controllers.PostRep(svc.Retrieval))

	router.POST("/ingest", controllers.PostIngest(svc.Loader))
	router.POST("/flush", controllers.PostFlush(svc.Loader))
}

package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fmejia/bloggo/config"
	"github.com/fmejia/bloggo/controllers"
	"github.com/fmejia/bloggo/middleware"
	"github.com/fmejia/bloggo/render"
	"github.com/fmejia/bloggo/session"
	"github.com/fmejia/bloggo/store"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))

	// The renderer is a collaborator: HTML when a template set is configured,
	// JSON otherwise. Controllers only ever hand it a mapping.
	var view render.Renderer = render.JSON{}
	if cfg.TemplateGlob != "" {
		r.LoadHTMLGlob(cfg.TemplateGlob)
		view = render.HTML{}
	}

	codec := session.NewCodec(cfg.CookieSecret)
	sessions := session.NewManager(codec)
	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)

	r.Use(middleware.SessionLoader(sessions))

	authController := controllers.NewAuthController(users, sessions, view)
	postController := controllers.NewPostController(posts, sessions, view)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", postController.Home)
	r.GET("/signup", authController.SignupPage)
	r.POST("/signup", authController.Signup)
	r.GET("/login", authController.LoginPage)
	r.POST("/login", authController.Login)
	r.GET("/logout", authController.Logout)
	r.GET("/articles/:id", postController.ShowPost)

	authed := r.Group("")
	authed.Use(middleware.LoginRequired(sessions))
	authed.GET("/posts", postController.NewPostPage)
	authed.POST("/posts", postController.CreatePost)
	authed.GET("/posts/edit", postController.EditPostPage)
	authed.POST("/posts/edit", postController.UpdatePost)
	authed.GET("/posts/delete", postController.DeletePost)
	authed.POST("/comments", postController.CreateComment)
	authed.GET("/upvote", postController.UpVote)
	authed.GET("/downvote", postController.DownVote)

	r.NoRoute(func(ctx *gin.Context) {
		render.NotFound(ctx)
	})

	return r
}

package router

import (
	"time"

	"forum/internal/models"
	"forum/internal/router/handlers"
	"forum/internal/router/middleware"
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"
	"go.uber.org/zap"
)

type Handlers struct {
	Comments      *handlers.CommentHandler
	Likes         *handlers.LikeHandler
	Notifications *handlers.NotificationHandler
	Channels      *handlers.ChannelHandler
}

type Router struct {
	rout     *ginext.Engine
	handlers Handlers
	log      *zap.Logger
}

func NewRouter(mode string, h Handlers, log *zap.Logger) *Router {
	router := Router{
		rout:     ginext.New(mode),
		handlers: h,
		log:      log.Named("router"),
	}
	router.setupRouter()
	return &router
}

func (r *Router) setupRouter() {
	r.rout.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	r.rout.Use(middleware.LoggingMiddleware(r.log))

	comments := r.handlers.Comments
	r.rout.GET("/posts/:id/comments", comments.GetPostComments)
	r.rout.POST("/posts/:id/comments", comments.CreateComment)
	r.rout.PUT("/comments/:id", comments.EditComment)

	likes := r.handlers.Likes
	r.rout.POST("/posts/:id/like", likes.Like(models.SubjectPost))
	r.rout.DELETE("/posts/:id/like", likes.Unlike(models.SubjectPost))
	r.rout.GET("/posts/:id/likes", likes.Likers(models.SubjectPost))
	r.rout.POST("/comments/:id/like", likes.Like(models.SubjectComment))
	r.rout.DELETE("/comments/:id/like", likes.Unlike(models.SubjectComment))
	r.rout.GET("/comments/:id/likes", likes.Likers(models.SubjectComment))

	notifications := r.handlers.Notifications
	r.rout.GET("/users/:id/notifications", notifications.Unread)
	r.rout.PUT("/notifications/:id/read", notifications.MarkRead)

	channels := r.handlers.Channels
	r.rout.POST("/channels/:id/followers", channels.Follow)
	r.rout.DELETE("/channels/:id/followers", channels.Unfollow)
	r.rout.GET("/channels/:id/followers/:user_id", channels.IsFollowing)
	r.rout.POST("/channels/:id/announcements", channels.Announce)
}

func (r *Router) GetEngine() *ginext.Engine {
	return r.rout
}

func (r *Router) Start(addr string) error {
	return r.rout.Run(addr)
}

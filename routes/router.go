package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/moneybridge/moneybridge/config"
	"github.com/moneybridge/moneybridge/controllers"
	"github.com/moneybridge/moneybridge/middleware"
	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/utils"
)

// Controllers groups the handlers the router mounts.
type Controllers struct {
	Board       *controllers.BoardController
	BackOffice  *controllers.BackOfficeController
	Reservation *controllers.ReservationController
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, c Controllers) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	if cfg.StorageDriver == "local" && cfg.LocalUploadDir != "" {
		r.Static(cfg.LocalUploadURL, cfg.LocalUploadDir)
	}

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	// Anonymous visitors may browse; a valid token adds bookmark flags.
	public := api.Group("")
	public.Use(middleware.OptionalAuth())
	public.GET("/boards", c.Board.SearchBoards)
	public.GET("/boards/pb", c.Board.SearchBoardsByPBName)
	public.GET("/boards/new", c.Board.GetNewBoards)
	public.GET("/boards/hot", c.Board.GetHotBoards)
	public.GET("/boards/two", c.Board.GetTwoBoards)
	public.GET("/boards/:id", c.Board.GetBoardDetail)
	public.GET("/main/contents", c.Board.GetMainContents)
	public.GET("/pbs/:id/boards", c.Board.GetPBBoards)
	public.GET("/notices", c.BackOffice.GetNotices)
	public.GET("/notices/:id", c.BackOffice.GetNotice)
	public.GET("/faqs", c.BackOffice.GetFAQs)
	public.GET("/faqs/:id", c.BackOffice.GetFAQ)

	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	auth.GET("/boards/:id/replies", c.Board.GetReplies)
	auth.POST("/boards/:id/replies", c.Board.SaveReply)
	auth.POST("/boards/:id/bookmark", c.Board.BookmarkBoard)
	auth.DELETE("/boards/:id/bookmark", c.Board.DeleteBookmarkBoard)
	auth.GET("/bookmarks/boards", c.Board.GetBookmarkBoards)
	auth.PATCH("/replies/:id", c.Board.UpdateReply)
	auth.DELETE("/replies/:id", c.Board.DeleteReply)
	auth.POST("/replies/:id/rereplies", c.Board.SaveReReply)
	auth.PATCH("/rereplies/:id", c.Board.UpdateReReply)
	auth.DELETE("/rereplies/:id", c.Board.DeleteReReply)

	user := api.Group("/user")
	user.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleUser))
	user.GET("/boards/recommend", c.Board.GetRecommendedBoards)
	user.GET("/reservations/pbs/:id", c.Reservation.GetReservationBase)
	user.POST("/reservations/pbs/:id", c.Reservation.ApplyReservation)

	pb := api.Group("/pb")
	pb.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RolePB))
	pb.POST("/boards", c.Board.SaveBoard)
	pb.POST("/boards/temp", c.Board.SaveTempBoard)
	pb.GET("/boards/temp", c.Board.GetTempBoards)
	pb.GET("/boards/:id", c.Board.GetBoard)
	pb.PUT("/boards/:id", c.Board.PutBoard)
	pb.DELETE("/boards/:id", c.Board.DeleteBoard)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.POST("/branches", c.BackOffice.AddBranch)
	admin.POST("/pbs/:id/approve", c.BackOffice.ApprovePB)
	admin.GET("/pbs/pending", c.BackOffice.GetPBPending)
	admin.DELETE("/boards/:id", c.BackOffice.DeleteBoard)
	admin.DELETE("/replies/:id", c.BackOffice.DeleteReply)
	admin.DELETE("/rereplies/:id", c.BackOffice.DeleteReReply)
	admin.GET("/members", c.BackOffice.GetMembers)
	admin.GET("/members/count", c.BackOffice.GetMembersCount)
	admin.DELETE("/members/:id", c.BackOffice.ForceWithdraw)
	admin.PATCH("/users/:id/authority", c.BackOffice.AuthorizeAdmin)
	admin.GET("/reservations", c.BackOffice.GetReservations)
	admin.GET("/reservations/count", c.BackOffice.GetReservationsCount)
	admin.POST("/notices", c.BackOffice.AddNotice)
	admin.PATCH("/notices/:id", c.BackOffice.UpdateNotice)
	admin.DELETE("/notices/:id", c.BackOffice.DeleteNotice)
	admin.POST("/faqs", c.BackOffice.AddFAQ)
	admin.PATCH("/faqs/:id", c.BackOffice.UpdateFAQ)
	admin.DELETE("/faqs/:id", c.BackOffice.DeleteFAQ)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}

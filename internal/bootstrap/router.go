package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mvp-studio/mvp-planner-backend/config"
	httpapi "github.com/mvp-studio/mvp-planner-backend/internal/api/http"
	"github.com/mvp-studio/mvp-planner-backend/internal/api/http/middleware"
	"github.com/mvp-studio/mvp-planner-backend/internal/auth"
	"github.com/mvp-studio/mvp-planner-backend/internal/export"
	"github.com/mvp-studio/mvp-planner-backend/internal/generation"
	"github.com/mvp-studio/mvp-planner-backend/internal/mvpplans"
	"github.com/mvp-studio/mvp-planner-backend/internal/planning"
	"github.com/mvp-studio/mvp-planner-backend/internal/projects"
	"github.com/mvp-studio/mvp-planner-backend/internal/users"
)

const serviceName = "mvp-planner-backend"

type RouterDeps struct {
	Cfg *config.Config
	DB  *pgxpool.Pool
	RDB *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(serviceName, dep.Cfg.App.Version, dep.DB, dep.RDB)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)
	projectRepo := projects.NewRepo(dep.DB)
	planningRepo := planning.NewRepo(dep.DB)
	planRepo := mvpplans.NewRepo(dep.DB)

	sessions := auth.NewSessionStore(dep.RDB, dep.Cfg.Session.TTL)
	cookie := dep.Cfg.Session.CookieName

	api := r.Group("/api")

	// Register/login/logout stay public; /api/user carries its own guard.
	auth.NewHandler(userRepo, sessions, cookie, dep.Cfg.Session.Secure).Register(api)

	guarded := api.Group("")
	guarded.Use(auth.RequireUser(sessions, cookie))
	guarded.Use(middleware.ValidateIDs())

	projectsGroup := guarded.Group("/projects")
	projects.Register(projectsGroup, projectRepo)
	export.Register(projectsGroup, export.NewCollector(projectRepo, planningRepo))

	planning.Register(guarded, planningRepo)
	mvpplans.NewHandler(planRepo, dep.Cfg.App.AdminUsername).Register(guarded)

	llm := generation.NewClient(dep.Cfg.LLM.BaseURL, dep.Cfg.LLM.APIKey, dep.Cfg.LLM.Model, dep.Cfg.LLM.HTTPTimeout)
	ai := guarded.Group("/ai")
	ai.Use(middleware.RateLimit(dep.Cfg.LLM.RateLimit, dep.Cfg.LLM.RateBurst))
	generation.NewHandler(generation.NewService(llm), mvpplans.NewSaver(planRepo)).Register(ai)

	return r
}

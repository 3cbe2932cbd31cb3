package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpapi "github.com/tenderops/procurement-backend/internal/api/http"
	"github.com/tenderops/procurement-backend/internal/api/http/middleware"
	mastershttp "github.com/tenderops/procurement-backend/internal/masters/http"
	mastersrepo "github.com/tenderops/procurement-backend/internal/masters/repository"
	"github.com/tenderops/procurement-backend/internal/projects/codegen"
	projectshttp "github.com/tenderops/procurement-backend/internal/projects/http"
	projectsrepo "github.com/tenderops/procurement-backend/internal/projects/repository"
	projectssvc "github.com/tenderops/procurement-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Redis       *goredis.Client // nil disables the masters cache
	Logger      *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(dep.Logger))
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	mastersRepo := mastersrepo.New(dep.DB)
	var mastersStore mastersrepo.Store = mastersRepo
	if dep.Redis != nil {
		mastersStore = mastersrepo.NewCached(mastersRepo, dep.Redis, time.Hour)
	}

	projectRepo := projectsrepo.New(dep.DB)
	generator := codegen.NewGenerator(mastersStore, projectRepo)
	projectService := projectssvc.New(projectRepo, generator, dep.Logger)

	projectshttp.NewHandler(projectService).Register(api.Group("/projects"))
	mastershttp.NewHandler(mastersStore).Register(api.Group("/masters"))

	return r
}

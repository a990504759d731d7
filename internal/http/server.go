package http

import (
	"context"
	"fmt"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"media-library/internal/config"
	"media-library/internal/http/handler"
	"media-library/internal/http/middleware"
	"media-library/internal/repository/sqlite"
	"media-library/internal/storage/library"
	"media-library/internal/storage/staging"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"
)

type ServerDependencies struct {
	Config      *config.Config
	Log         zerolog.Logger
	ProjectRepo *sqlite.ProjectRepository
	TagRepo     *sqlite.TagRepository
	AssetRepo   *sqlite.AssetRepository
	Importer    *sqlite.ImportCoordinator
	Library     *library.Library
	Staging     *staging.Staging
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%d", deps.Config.App.MaxUploadSize)))

	rateLimiter := middleware.NewRateLimiter(deps.Config.App.RatePerSecond, deps.Config.App.RateBurst)
	e.Use(rateLimiter.Middleware())

	projectHandler := handler.NewProjectHandler(deps.ProjectRepo, deps.AssetRepo, deps.Importer)
	tagHandler := handler.NewTagHandler(deps.TagRepo)
	bundleHandler := handler.NewBundleHandler(deps.Staging)

	e.GET("/api/health", healthCheck)

	api := e.Group("/api")

	api.GET("/projects", projectHandler.ListProjects)
	api.POST("/projects", projectHandler.CreateProject)
	api.GET("/projects/:id", projectHandler.GetProject)
	api.PATCH("/projects/:id", projectHandler.UpdateProject)
	api.DELETE("/projects/:id", projectHandler.DeleteProject)
	api.POST("/projects/:id/import", projectHandler.ImportBundle)
	api.DELETE("/projects/:id/assets/:asset_id", projectHandler.DeleteAsset)

	api.GET("/tags", tagHandler.ListTags)
	api.POST("/tags", tagHandler.CreateTag)

	api.POST("/bundles", bundleHandler.CreateBundle)
	api.DELETE("/bundles/:id", bundleHandler.DeleteBundle)

	// Asset files are served straight from the library tree.
	e.Static("/media/library", deps.Library.Root())

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}

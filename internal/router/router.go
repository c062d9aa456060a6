package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"                     // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware" // echo's bundled CORS, recover and request-id middleware
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/program-selection/internal/config"
	"github.com/iliyamo/program-selection/internal/handler"
	"github.com/iliyamo/program-selection/internal/middleware"
)

// APIPrefix is the common prefix of every catalog and selection route.
const APIPrefix = "/api"

// Deps bundles what the routes need.  Redis may be nil, in which case the
// program responses are not cached.
type Deps struct {
	Programs    *handler.ProgramHandler
	Selections  *handler.SelectionHandler
	DB          handler.Pinger
	Redis       *redis.Client
	Cache       config.CacheConfig
	CORSOrigins []string
	Log         logrus.FieldLogger
}

// New builds the Echo instance with global middleware and all routes.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Metrics())
	e.Use(CORS(d.CORSOrigins))

	RegisterRoutes(e, d.DB)
	RegisterAPI(e, d)
	return e
}

// CORS permits the given origins with every method and header, and allows
// credentialed requests.  With the wildcard origin the request Origin is
// echoed back, since browsers reject "*" on credentialed responses.
func CORS(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowCredentials:                         true,
		UnsafeWildcardOriginWithAllowCredentials: true,
	})
}

// RegisterRoutes registers operational routes outside the API prefix: a
// store-backed health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", middleware.MetricsHandler())
}

// RegisterAPI registers the catalog and selection endpoints under /api.  Only
// the program reads go through the response cache; selections must always
// reflect the latest writes.
func RegisterAPI(e *echo.Echo, d Deps) {
	api := e.Group(APIPrefix)
	api.GET("/", handler.Root)
	api.GET("", handler.Root)

	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)
	api.GET("/programs", d.Programs.ListPrograms, cache)
	api.GET("/programs/:id", d.Programs.GetProgram, cache)

	api.POST("/select-program", d.Selections.SelectProgram)
	api.GET("/selections", d.Selections.ListSelections)
}

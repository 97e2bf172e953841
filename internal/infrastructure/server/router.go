package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/config"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/auth"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/metrics"
	accountController "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/controller/account"
	catalogController "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/controller/catalog"
	homeController "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/controller/home"
	orderController "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/controller/orders"
	authMiddleware "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/middleware"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/view"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/logger"
)

const apiPrefix = "/api/"

// Handlers groups the controllers mounted by NewRouter.
type Handlers struct {
	Account *accountController.AccountHandler
	Catalog *catalogController.CatalogHandler
	Orders  *orderController.OrderHandler
	Home    *homeController.HomeHandler
}

// NewRouter builds the echo instance with middleware and every route
// mounted under cfg.Server.PathBase.
func NewRouter(cfg *config.Config, log logger.Logger, m *metrics.Metrics, sessions *auth.SessionManager, h Handlers) (*echo.Echo, error) {
	pathBase := cfg.Server.PathBase

	renderer, err := view.NewRenderer(pathBase)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.IsDevelopment()
	e.Renderer = renderer
	e.HTTPErrorHandler = view.NewHTTPErrorHandler(log, e.Debug, pathBase+apiPrefix, e.DefaultHTTPErrorHandler)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(m.Middleware())

	requireAuth := authMiddleware.RequireAuth(sessions, pathBase, pathBase+apiPrefix)

	// Orders is the default controller and Index its default action.
	e.GET(pathBase+"/", h.Orders.Index, requireAuth)
	if pathBase != "" {
		e.GET(pathBase, h.Orders.Index, requireAuth)
	}
	e.GET(pathBase+"/orders", h.Orders.Index, requireAuth)
	e.GET(pathBase+"/orders/index", h.Orders.Index, requireAuth)
	e.GET(pathBase+"/orders/details/:id", h.Orders.Details, requireAuth)

	e.GET(pathBase+"/api/catalog/items", h.Catalog.GetItems, requireAuth)
	e.GET(pathBase+"/api/catalog/items/:id", h.Catalog.GetItem, requireAuth)
	e.GET(pathBase+"/api/catalog/brands", h.Catalog.GetBrands, requireAuth)
	e.GET(pathBase+"/api/catalog/types", h.Catalog.GetTypes, requireAuth)

	e.GET(pathBase+"/account/signin", h.Account.SignIn)
	e.GET(pathBase+cfg.AzureAd.CallbackPath, h.Account.Callback)
	e.GET(pathBase+"/account/signout", h.Account.SignOut)

	e.GET(pathBase+"/home/error", h.Home.Error)
	e.GET(pathBase+"/healthz", h.Home.Healthz)
	e.GET(pathBase+"/metrics", echo.WrapHandler(m.Handler()))
	e.StaticFS(pathBase+"/static", echo.MustSubFS(view.StaticFS, "static"))

	return e, nil
}

func requestLogger(log logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []logger.Field{
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.Duration("latency", v.Latency.Round(time.Microsecond)),
				logger.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, logger.Error(v.Error))
			}
			if v.Status >= http.StatusInternalServerError {
				log.Warn("request", fields...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

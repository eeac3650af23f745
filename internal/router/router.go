package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"shopcore/internal/auth"
	"shopcore/internal/config"
	apperrors "shopcore/internal/errors"
	"shopcore/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	catalogHandler *handler.CatalogHandler,
	seedHandler *handler.SeedHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/otp/request", authHandler.RequestOTP)
	api.POST("/otp/verify", authHandler.VerifyOTP)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/seed/catalog", seedHandler.SeedCatalog)

	// Catalog reads are open to anonymous callers.
	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/categories/:id", catalogHandler.GetCategory)
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		// Absent and invalid tokens are both 401, not echojwt's default 400.
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		},
	}))

	// Profile routes
	secured.GET("/profile", profileHandler.GetProfile)
	secured.PUT("/profile/update", profileHandler.UpdateProfile, requireRole(auth.OpProfileWrite))

	// Category mutations (admin only)
	secured.POST("/categories", catalogHandler.CreateCategory, requireRole(auth.OpCategoryWrite))
	secured.PUT("/categories/:id", catalogHandler.UpdateCategory, requireRole(auth.OpCategoryWrite))
	secured.DELETE("/categories/:id", catalogHandler.DeleteCategory, requireRole(auth.OpCategoryWrite))

	// Product mutations (seller or admin)
	secured.POST("/products", catalogHandler.CreateProduct, requireRole(auth.OpProductWrite))
	secured.PUT("/products/:id", catalogHandler.UpdateProduct, requireRole(auth.OpProductWrite))
	secured.DELETE("/products/:id", catalogHandler.DeleteProduct, requireRole(auth.OpProductWrite))
	secured.POST("/products/:id/images", catalogHandler.AddProductImage, requireRole(auth.OpProductWrite))
}

// requireRole rejects callers whose role is outside the operation's allow-set.
func requireRole(op auth.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			}
			if !auth.Can(claims.Role, op) {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

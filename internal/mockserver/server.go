package mockserver

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// NewServer builds the echo instance serving the mock product store.
func NewServer(store *FileStore) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	NewHandlers(store).Register(e)
	return e
}

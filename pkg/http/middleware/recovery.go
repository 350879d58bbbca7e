package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	applogger "YTM4A/pkg/logger"
)

// Recover turns a handler panic into the uniform 500 error body.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				l.Error("panic recovered",
					applogger.Error(fmt.Errorf("%v", r)),
					applogger.String("uri", c.Request().RequestURI),
					applogger.String("stack", string(debug.Stack())),
				)
				if c.Response().Committed {
					err = nil
					return
				}
				err = c.JSON(http.StatusInternalServerError, map[string]string{
					"status":  "error",
					"message": "Internal Server Error",
				})
			}()
			return next(c)
		}
	}
}

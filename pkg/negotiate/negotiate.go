// Package negotiate decides between HTML and JSON responses.
package negotiate

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// WantsJSON is true for XHR requests and clients that accept JSON.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.EqualFold(req.Header.Get(echo.HeaderXRequestedWith), "XMLHttpRequest") {
		return true
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

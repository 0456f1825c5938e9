package httpx

import "github.com/labstack/echo/v4"

// Success is the standard wrapper for successful API responses whose payload is
// produced by this service itself (e.g. health checks). Proxied upstream bodies
// are sent unwrapped so their shape stays identical to the provider's
type Success struct {
	Data any `json:"data"`
}

// NewSuccess creates a new Success response structure, wrapping the provided data
func NewSuccess(data any) *Success {
	return &Success{Data: data}
}

// SendSuccess wraps the data in the Success structure and sends it with the given status code
func SendSuccess(c echo.Context, code int, data any) error {
	return c.JSON(code, NewSuccess(data))
}

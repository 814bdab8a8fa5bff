// Package respond renders the success envelope shared by every endpoint.
package respond

import "github.com/labstack/echo/v4"

// Payload is the body of every successful response.
type Payload struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK writes a success envelope with the given status, message and data.
func OK(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Payload{Success: true, Message: message, Data: data})
}

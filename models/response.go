package models

import "github.com/gofiber/fiber/v2"

// Response is the uniform envelope every endpoint answers with.
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// RespondSuccess writes a success envelope with the given payload.
func RespondSuccess(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(Response{
		Status:  "success",
		Data:    data,
		Message: message,
	})
}

// RespondError writes an error envelope with a null data payload.
func RespondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{
		Status:  "error",
		Data:    nil,
		Message: message,
	})
}

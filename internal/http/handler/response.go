package handler

import (
	"github.com/labstack/echo/v4"
)

type messageBody struct {
	Message string `json:"message"`
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, messageBody{Message: message})
}

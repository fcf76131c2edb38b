package bookingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the success body shared by every order endpoint.
type Envelope struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{OK: true, Message: message, Data: data})
}

func respondPage(c *gin.Context, message string, data, pagination any) {
	c.JSON(http.StatusOK, Envelope{OK: true, Message: message, Data: data, Pagination: pagination})
}

package handler

import (
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, errorResponse{
		Error:   "processing_error",
		Message: message,
	})
}

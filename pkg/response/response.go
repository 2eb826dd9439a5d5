package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}

// Fail sends a translated error. A raw byte body (an upstream response
// mirrored back) is written as-is so the caller sees exactly what upstream
// returned; anything else goes through the envelope.
func Fail(c *gin.Context, status int, body interface{}) {
	if raw, ok := body.([]byte); ok {
		contentType := "application/json; charset=utf-8"
		c.Data(status, contentType, raw)
		return
	}
	c.JSON(status, Body{Success: false, Error: fmt.Sprint(body)})
}

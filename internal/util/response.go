package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the data part of the common envelope.
type Response map[string]interface{}

// Business error codes.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeNotFound     = 40401
	CodeServerErr    = 50001
)

// Success writes {"code":0,"data":...}.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes {"code":...,"message":...}.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

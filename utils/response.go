package utils

import "github.com/gin-gonic/gin"

// ErrorDetail writes the error body the mobile client surfaces verbatim:
// a single "detail" message with the given HTTP status.
func ErrorDetail(ctx *gin.Context, status int, detail string) {
	ctx.JSON(status, gin.H{"detail": detail})
}

// AbortDetail writes an error body and stops the middleware chain.
func AbortDetail(ctx *gin.Context, status int, detail string) {
	ctx.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

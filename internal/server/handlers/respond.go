// Package handlers implements the HTTP handlers behind the gin router.
package handlers

import "github.com/gin-gonic/gin"

// All responses share one envelope: {status:true, data/message} on success,
// {status:false, message} on failure.

func respondData(c *gin.Context, httpStatus int, data any) {
	c.JSON(httpStatus, gin.H{"status": true, "data": data})
}

func respondDataMessage(c *gin.Context, httpStatus int, data any, message string) {
	c.JSON(httpStatus, gin.H{"status": true, "data": data, "message": message})
}

func respondMessage(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"status": true, "message": message})
}

func respondError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"status": false, "message": message})
}

func respondInternal(c *gin.Context) {
	respondError(c, 500, "Internal Server Error")
}

package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK answers {"success": true, "<key>": data}.
func OK(c *gin.Context, key string, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, key: data})
}

func Created(c *gin.Context, key string, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, key: data})
}

// Done answers {"success": true} for operations with nothing to return.
func Done(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// List keeps empty results as [] rather than null.
func List[T any](c *gin.Context, key string, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, key: data, "total": len(data)})
}

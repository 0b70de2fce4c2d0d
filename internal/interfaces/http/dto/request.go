package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// BindIndex 从 URI 读取非负下标
func BindIndex(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// BindBookID 从 URI 读取书籍 ID
func BindBookID(c *gin.Context) string {
	return c.Param("bookId")
}

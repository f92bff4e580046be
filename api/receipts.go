package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// ReceiptHandler serves generated receipt documents for the download
// links embedded in confirmation emails.
type ReceiptHandler struct {
	dir string
}

func NewReceiptHandler(dir string) *ReceiptHandler {
	return &ReceiptHandler{dir: dir}
}

func (h *ReceiptHandler) Register(router *gin.Engine) {
	router.GET("/receipts/:filename", h.download)
}

func (h *ReceiptHandler) download(c *gin.Context) {
	filename := c.Param("filename")
	// Only bare generated names are servable; anything with path
	// separators or a foreign extension is rejected outright.
	if filename != filepath.Base(filename) || filepath.Ext(filename) != ".pdf" {
		c.String(http.StatusBadRequest, "invalid filename")
		return
	}

	path := filepath.Join(h.dir, filename)
	if _, err := os.Stat(path); err != nil {
		c.String(http.StatusNotFound, "receipt not found")
		return
	}

	c.FileAttachment(path, filename)
}

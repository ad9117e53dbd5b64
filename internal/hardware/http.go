package hardware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) library(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Library())
}

type shoppingReq struct {
	ComponentIDs []string `json:"component_ids"`
}

func (h *Handler) shoppingList(c *gin.Context) {
	var req shoppingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "components": h.catalog.ShoppingList(req.ComponentIDs)})
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/hardware", h.library)
	rg.POST("/shopping-list", h.shoppingList)
}

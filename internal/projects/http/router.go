package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)

	rg.PUT("/:id/components", h.setComponents)
	rg.POST("/:id/stages/:stage/approve", h.approve)

	rg.GET("/:id/export/markdown", h.exportMarkdown)
	rg.GET("/:id/export/json", h.exportJSON)
}

// RegisterGenerate wires the generation route separately so the caller can
// put rate limiting in front of the one endpoint that costs money.
func (h *Handler) RegisterGenerate(rg *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	handlers := append([]gin.HandlerFunc{}, middleware...)
	handlers = append(handlers, h.generate)
	rg.POST("/:id/generate", handlers...)
}

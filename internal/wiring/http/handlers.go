package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esp32-copilot/go-copilot-backend/internal/hardware"
	projdomain "github.com/esp32-copilot/go-copilot-backend/internal/projects/domain"
	"github.com/esp32-copilot/go-copilot-backend/internal/wiring"
	"github.com/esp32-copilot/go-copilot-backend/internal/wiring/repository"
)

// ProjectSource loads the project whose selected components drive a
// project-bound allocation.
type ProjectSource interface {
	Get(ctx context.Context, id string) (*projdomain.Project, error)
}

type Handler struct {
	catalog  *hardware.Catalog
	projects ProjectSource
	snaps    *repository.SnapshotRepository
}

func NewHandler(catalog *hardware.Catalog, projects ProjectSource, snaps *repository.SnapshotRepository) *Handler {
	return &Handler{catalog: catalog, projects: projects, snaps: snaps}
}

type allocateReq struct {
	ComponentIDs []string `json:"component_ids"`
}

// allocate produces a wiring result from an explicit component list without
// touching any stored state.
func (h *Handler) allocate(c *gin.Context) {
	var req allocateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res := wiring.Allocate(h.catalog, req.ComponentIDs)
	c.JSON(http.StatusOK, gin.H{"ok": true, "wiring": res})
}

// allocateProject wires the project's selected components and persists the
// result as a new snapshot version.
func (h *Handler) allocateProject(c *gin.Context) {
	projectID := c.Param("id")

	p, err := h.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, projdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	res := wiring.Allocate(h.catalog, p.SelectedComponents)

	snap, err := h.snaps.CreateVersion(c.Request.Context(), projectID, res)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "wiring": res, "snapshot": snap})
}

func (h *Handler) listSnapshots(c *gin.Context) {
	items, err := h.snaps.ListByProject(c.Request.Context(), c.Param("id"), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "snapshots": items})
}

// Register attaches the stateless allocation route.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.allocate)
}

// RegisterProject attaches the project-bound wiring routes.
func (h *Handler) RegisterProject(rg *gin.RouterGroup) {
	rg.POST("/:id/wiring", h.allocateProject)
	rg.GET("/:id/wiring", h.listSnapshots)
}

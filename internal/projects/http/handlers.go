package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/esp32-copilot/go-copilot-backend/internal/export"
	"github.com/esp32-copilot/go-copilot-backend/internal/llm"
	"github.com/esp32-copilot/go-copilot-backend/internal/projects/domain"
	"github.com/esp32-copilot/go-copilot-backend/internal/projects/service"
)

// fail writes the shared error envelope with a status derived from the error
// kind: validation problems are the client's, provider failures are upstream.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, domain.ErrUnknownStage):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, llm.ErrMissingAPIKey):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		var perr *llm.ProviderError
		if errors.As(err, &perr) {
			c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": perr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Idea) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(),
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Idea),
		strings.TrimSpace(req.Description), strings.TrimSpace(req.TargetHardware))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), service.UpdatePatch{
		Name:           req.Name,
		Description:    req.Description,
		TargetHardware: req.TargetHardware,
		Status:         req.Status,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) setComponents(c *gin.Context) {
	var req componentsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.SetComponents(c.Request.Context(), c.Param("id"), req.ComponentIDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) approve(c *gin.Context) {
	var req approveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, next, err := h.pipeline.Approve(c.Request.Context(), c.Param("id"), c.Param("stage"), req.Approved, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}

	resp := gin.H{"ok": true, "message": "Stage approval updated", "project": p}
	if next != "" {
		resp["next_stage"] = next
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) generate(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Stage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	// Requests without an explicit provider pick up the saved preferences.
	if req.Provider == "" && h.settings != nil {
		if s, err := h.settings.Get(c.Request.Context()); err == nil {
			req.Provider = s.Provider
			if req.Model == "" {
				req.Model = s.Model
			}
		}
	}

	p, content, err := h.pipeline.Generate(c.Request.Context(), c.Param("id"), service.GenerateInput{
		Stage:       req.Stage,
		UserMessage: req.UserMessage,
		Provider:    req.Provider,
		Model:       req.Model,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "content": content, "stage": req.Stage, "project": p})
}

func (h *Handler) exportMarkdown(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(p, "md")+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(export.Markdown(p)))
}

func (h *Handler) exportJSON(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	b, err := export.JSON(p)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(p, "json")+`"`)
	c.Data(http.StatusOK, "application/json", b)
}

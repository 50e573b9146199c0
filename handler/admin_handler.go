package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/line-assistant-be/service"
	"github.com/tieubaoca/line-assistant-be/types"
)

type AdminHandler interface {
	HandleListHumanSessions(c *gin.Context)
	HandleToggleSession(c *gin.Context)
	HandleRefreshKnowledge(c *gin.Context)
	HandleKnowledgePreview(c *gin.Context)
	HandleTestBot(c *gin.Context)
}

type adminHandler struct {
	sessions  service.SessionService
	knowledge service.KnowledgeService
	generator service.GenerateService
}

func NewAdminHandler(
	sessions service.SessionService,
	knowledge service.KnowledgeService,
	generator service.GenerateService,
) AdminHandler {
	return &adminHandler{
		sessions:  sessions,
		knowledge: knowledge,
		generator: generator,
	}
}

// HandleListHumanSessions backs the operator queue: every conversation in
// Human mode, most recently active first.
func (h *adminHandler) HandleListHumanSessions(c *gin.Context) {
	sessions, err := h.sessions.ListHumanSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   sessions,
	})
}

func (h *adminHandler) HandleToggleSession(c *gin.Context) {
	var req types.ToggleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LineUserID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	mode, err := h.sessions.Toggle(c.Request.Context(), req.LineUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.ToggleSessionResponse{
			LineUserID: req.LineUserID,
			Mode:       mode,
		},
	})
}

// HandleRefreshKnowledge marks the snapshot stale; the next inbound message
// (or preview) refills it.
func (h *adminHandler) HandleRefreshKnowledge(c *gin.Context) {
	h.knowledge.Invalidate()
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "knowledge cache invalidated",
	})
}

func (h *adminHandler) HandleKnowledgePreview(c *gin.Context) {
	snapshot, err := h.knowledge.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	titles := make([]string, 0, len(snapshot.Pages))
	for _, page := range snapshot.Pages {
		titles = append(titles, page.Title)
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.KnowledgePreview{
			PageTitles:  titles,
			FetchedAt:   snapshot.FetchedAt.Unix(),
			ContextSize: len(snapshot.CombinedContext),
		},
	})
}

// HandleTestBot runs the full pipeline out-of-band so an admin can try the
// bot without going through LINE.
func (h *adminHandler) HandleTestBot(c *gin.Context) {
	var req types.TestBotRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	start := time.Now()

	knowledgeContext := ""
	var pages []string
	snapshot, err := h.knowledge.Snapshot(c.Request.Context())
	if err == nil {
		knowledgeContext = snapshot.CombinedContext
		for _, page := range snapshot.Pages {
			pages = append(pages, page.Title)
		}
	}

	result := h.generator.Generate(c.Request.Context(), req.Message, knowledgeContext)

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.TestBotResponse{
			Response:  result.Text,
			Context:   knowledgeContext,
			Provider:  result.Provider,
			Model:     result.Model,
			PageCount: len(pages),
			Pages:     pages,
			LatencyMs: time.Since(start).Milliseconds(),
		},
	})
}

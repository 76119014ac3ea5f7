package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"charette-lab/domain"
	apperrors "charette-lab/errors"
	"charette-lab/observability"
	"charette-lab/repositories"
	"charette-lab/services"
)

type CharetteHandler struct {
	svc        services.ICharetteService
	monitoring *observability.Monitoring
	log        *slog.Logger
}

func NewCharetteHandler(svc services.ICharetteService, monitoring *observability.Monitoring, log *slog.Logger) *CharetteHandler {
	return &CharetteHandler{svc: svc, monitoring: monitoring, log: log}
}

type CreateCharetteReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpsertParticipantReq struct {
	UserName string `json:"userName" binding:"required"`
	Role     string `json:"role"`
}

type AddAnalysisReq struct {
	Type       string   `json:"type" binding:"required,oneof=constraint assumption opportunity"`
	Content    string   `json:"content" binding:"required"`
	Keywords   []string `json:"keywords"`
	Confidence float64  `json:"confidence" binding:"min=0,max=1"`
}

func (h *CharetteHandler) CreateCharette(c *gin.Context) {
	var req CreateCharetteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := h.svc.CreateCharette(req.Title, req.Description)
	c.JSON(http.StatusCreated, toCharetteDTO(session))
}

func (h *CharetteHandler) ListCharettes(c *gin.Context) {
	sessions := h.svc.ListCharettes()
	c.JSON(http.StatusOK, lo.Map(sessions, func(s domain.Session, _ int) CharetteDTO { return toCharetteDTO(s) }))
}

func (h *CharetteHandler) GetCharette(c *gin.Context) {
	session, err := h.svc.GetCharette(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCharetteDTO(session))
}

func (h *CharetteHandler) UpsertParticipant(c *gin.Context) {
	var req UpsertParticipantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	participant, err := h.svc.UpsertParticipant(c.Param("id"), req.UserName, req.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toParticipantDTO(participant))
}

func (h *CharetteHandler) AddAnalysis(c *gin.Context) {
	var req AddAnalysisReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.svc.AddAnalysis(c.Param("id"), domain.AnalysisEntry{
		Type:       req.Type,
		Content:    req.Content,
		Keywords:   req.Keywords,
		Confidence: req.Confidence,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAnalysisDTO(entry))
}

func (h *CharetteHandler) ListMessages(c *gin.Context) {
	messages, err := h.svc.ListMessages(c.Param("id"), c.Query("roomId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) MessageDTO { return toMessageDTO(m) }))
}

func (h *CharetteHandler) GetReport(c *gin.Context) {
	generated, err := h.svc.GenerateReport(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportDTO(generated))
}

type SearchReq struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit,default=10" binding:"min=1,max=100"`
}

func (h *CharetteHandler) SearchMessages(c *gin.Context) {
	var req SearchReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hits, total, err := h.svc.SearchMessages(c.Request.Context(), c.Param("id"), req.Query, req.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"hits":  lo.Map(hits, func(hit repositories.SearchHit, _ int) SearchHitDTO { return toSearchHitDTO(hit) }),
	})
}

func (h *CharetteHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitoring.GetLatest())
}

func (h *CharetteHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrCharetteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Charette not found"})
	case errors.Is(err, apperrors.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Breakout room not found"})
	default:
		h.log.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

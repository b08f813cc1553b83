package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/application/dto"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

// BlacklistStore is the banned-value store the handler administers.
type BlacklistStore interface {
	Check(ctx context.Context, t risk.BlacklistType, value string) (bool, *risk.BlacklistEntry)
	Add(ctx context.Context, entry *risk.BlacklistEntry) error
	Remove(ctx context.Context, t risk.BlacklistType, value string) error
}

// BlacklistHandler serves the blacklist administration endpoints.
type BlacklistHandler struct {
	store  BlacklistStore
	logger *zap.Logger
}

// NewBlacklistHandler creates the blacklist handler.
func NewBlacklistHandler(store BlacklistStore, logger *zap.Logger) *BlacklistHandler {
	return &BlacklistHandler{store: store, logger: logger}
}

func parseBlacklistType(raw string) (risk.BlacklistType, bool) {
	t := risk.BlacklistType(raw)
	switch t {
	case risk.BlacklistIP, risk.BlacklistCardBIN, risk.BlacklistEmailDomain:
		return t, true
	}
	return "", false
}

// Add serves POST /api/v1/blacklist.
func (h *BlacklistHandler) Add(c *gin.Context) {
	var req dto.BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if _, ok := parseBlacklistType(string(req.Type)); !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: risk.ErrInvalidBlacklistType.Error()})
		return
	}

	entry := risk.NewBlacklistEntry(req.Type, req.Value, req.ThreatLevel, req.Reason)
	if err := h.store.Add(c.Request.Context(), entry); err != nil {
		if errors.Is(err, risk.ErrInvalidThreatLevel) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("blacklist add failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "blacklist store unavailable"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Check serves GET /api/v1/blacklist/:type/:value.
func (h *BlacklistHandler) Check(c *gin.Context) {
	t, ok := parseBlacklistType(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: risk.ErrInvalidBlacklistType.Error()})
		return
	}

	hit, entry := h.store.Check(c.Request.Context(), t, c.Param("value"))
	if !hit {
		c.JSON(http.StatusOK, gin.H{"blacklisted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blacklisted": true, "entry": entry})
}

// Remove serves DELETE /api/v1/blacklist/:type/:value.
func (h *BlacklistHandler) Remove(c *gin.Context) {
	t, ok := parseBlacklistType(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: risk.ErrInvalidBlacklistType.Error()})
		return
	}

	if err := h.store.Remove(c.Request.Context(), t, c.Param("value")); err != nil {
		h.logger.Error("blacklist remove failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "blacklist store unavailable"})
		return
	}

	c.Status(http.StatusNoContent)
}

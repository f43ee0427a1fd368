package handler

import (
	"encoding/json"
	"net/http"

	"style-learn-go/internal/service"
	"style-learn-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// SessionHandler 处理会话上下文相关的 API 请求。
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建一个新的 SessionHandler。
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

type updateContextRequest struct {
	Context []json.RawMessage `json:"context" binding:"required"`
}

// GetContext 返回指定会话缓存的上下文条目，没有时返回空数组。
func (h *SessionHandler) GetContext(c *gin.Context) {
	sessionID := c.Param("sessionId")

	entries := h.sessionSvc.GetContext(c.Request.Context(), sessionID)

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "成功",
		"data": gin.H{
			"session_id": sessionID,
			"context":    entries,
		},
	})
}

// UpdateContext 整体替换指定会话的上下文条目。
func (h *SessionHandler) UpdateContext(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req updateContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的上下文格式",
			"data":    nil,
		})
		return
	}

	if err := h.sessionSvc.UpdateContext(c.Request.Context(), sessionID, req.Context); err != nil {
		log.Error("更新会话上下文失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "更新会话上下文失败",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "成功",
		"data":    nil,
	})
}

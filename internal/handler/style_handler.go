package handler

import (
	"net/http"

	"style-learn-go/internal/service"

	"github.com/gin-gonic/gin"
)

// StyleHandler 处理风格提示词相关的 API 请求。
type StyleHandler struct {
	promptSvc  service.PromptService
	sessionSvc service.SessionService
}

// NewStyleHandler 创建一个新的 StyleHandler。
func NewStyleHandler(promptSvc service.PromptService, sessionSvc service.SessionService) *StyleHandler {
	return &StyleHandler{promptSvc: promptSvc, sessionSvc: sessionSvc}
}

// GetStylePrompt 根据用户已学到的风格画像生成提示词。
// 用户尚无画像时 prompt 为空字符串。
func (h *StyleHandler) GetStylePrompt(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "user_id 不能为空",
			"data":    nil,
		})
		return
	}
	sessionID := c.Query("session_id")

	entries := h.sessionSvc.GetContext(c.Request.Context(), sessionID)
	prompt := h.promptSvc.GetStylePrompt(userID, sessionID, entries)

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "成功",
		"data": gin.H{
			"user_id": userID,
			"prompt":  prompt,
		},
	})
}

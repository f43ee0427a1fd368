package handler

import (
	"net/http"

	"style-learn-go/internal/config"
	"style-learn-go/internal/pipeline"
	"style-learn-go/internal/service"
	"style-learn-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AdminHandler 处理需要管理员权限的运维类 API 请求。
type AdminHandler struct {
	processor *pipeline.Processor
	statsSvc  service.StatisticService
	importSvc service.ImportService
}

// NewAdminHandler 创建一个新的 AdminHandler。
func NewAdminHandler(
	processor *pipeline.Processor,
	statsSvc service.StatisticService,
	importSvc service.ImportService,
) *AdminHandler {
	return &AdminHandler{
		processor: processor,
		statsSvc:  statsSvc,
		importSvc: importSvc,
	}
}

// Statistics 返回全部持久化的统计指标快照。
func (h *AdminHandler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "成功",
		"data":    h.statsSvc.GetAll(),
	})
}

// Status 返回插件的运行状态摘要。
func (h *AdminHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "成功",
		"data":    h.processor.Status(),
	})
}

type importRequest struct {
	FilePath  string `json:"file_path" binding:"required"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	SessionID string `json:"session_id"`
}

// Import 同步导入一份聊天记录文件并返回逐行统计结果。
// 未提供的身份字段回落到配置中的导入默认值。
func (h *AdminHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "file_path 不能为空",
			"data":    nil,
		})
		return
	}

	if req.UserID == "" {
		req.UserID = config.Conf.Import.UserID
	}
	if req.UserName == "" {
		req.UserName = config.Conf.Import.UserName
	}
	if req.SessionID == "" {
		req.SessionID = config.Conf.Import.SessionID
	}

	log.Infof("管理员触发聊天记录导入, file=%s, user=%s", req.FilePath, req.UserID)
	result := h.importSvc.ImportChatHistory(c.Request.Context(), req.FilePath, req.UserID, req.UserName, req.SessionID)

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "成功",
		"data":    result,
	})
}

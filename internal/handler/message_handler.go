// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"encoding/json"
	"net/http"

	"style-learn-go/internal/pipeline"
	"style-learn-go/pkg/log"
	"style-learn-go/pkg/tasks"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// MessageHandler 处理消息接入相关的 API 请求。
type MessageHandler struct {
	processor *pipeline.Processor
}

// NewMessageHandler 创建一个新的 MessageHandler。
func NewMessageHandler(processor *pipeline.Processor) *MessageHandler {
	return &MessageHandler{processor: processor}
}

// Ingest 处理单条消息的 HTTP 接入。接入是即发即忘的：
// 无论消息最终被接受还是被过滤，都返回 202。
func (h *MessageHandler) Ingest(c *gin.Context) {
	var event tasks.MessageEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的消息格式",
			"data":    nil,
		})
		return
	}

	h.processor.HandleMessage(event)

	c.JSON(http.StatusAccepted, gin.H{
		"code":    http.StatusAccepted,
		"message": "accepted",
		"data":    nil,
	})
}

// HandleWS 处理一个传入的 WebSocket 连接，把连接上的每帧 JSON
// 作为一条消息事件喂给管线。
func (h *MessageHandler) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 消息通道已建立, remote=%s", conn.RemoteAddr())

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			break
		}

		var event tasks.MessageEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Warnf("无法解析 WebSocket 消息: %v", err)
			// 格式错误的帧直接丢弃，连接保留
			continue
		}

		h.processor.HandleMessage(event)
	}
}

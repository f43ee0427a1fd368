// Package kafka 提供了把聊天消息流接入核心管线的 Kafka 通道。
package kafka

import (
	"context"
	"encoding/json"

	"style-learn-go/internal/config"
	"style-learn-go/pkg/log"
	"style-learn-go/pkg/tasks"

	"github.com/segmentio/kafka-go"
)

// MessageIngestor 是能消费入站消息的组件接口，
// 用于把消费者与具体的管线实现解耦。
type MessageIngestor interface {
	HandleMessage(event tasks.MessageEvent)
}

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// ProduceMessageEvent 发送一条入站消息事件到 Kafka。
func ProduceMessageEvent(event tasks.MessageEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return producer.WriteMessages(context.Background(),
		kafka.Message{
			Value: eventBytes,
		},
	)
}

// StartConsumer 启动一个 Kafka 消费者，把主题上的消息事件喂给核心管线。
// 消息递交是即发即忘的，处理后立即提交 offset。
func StartConsumer(cfg config.KafkaConfig, ingestor MessageIngestor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "style-learn-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("从 Kafka 读取消息失败", err)
			break // 退出循环，交由进程级重启策略处理
		}

		var event tasks.MessageEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交错误消息失败: %v", err)
			}
			continue
		}

		// 入库链路吞掉一切失败，消费侧无需重试
		ingestor.HandleMessage(event)

		if err := r.CommitMessages(context.Background(), m); err != nil {
			log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("关闭 Kafka 消费者失败: %v", err)
	}
}

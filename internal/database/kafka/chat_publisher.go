package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// ChatTurnEvent 描述了一次完成的对话回合，用于下游分析。
type ChatTurnEvent struct {
	UserID         uint      `json:"user_id"`
	ConversationID uint      `json:"conversation_id"`
	Timestamp      time.Time `json:"timestamp"`
	LatencyMS      int64     `json:"latency_ms"`
	UsedRetrieval  bool      `json:"used_retrieval"`
	UsedTool       bool      `json:"used_tool"`
	ModelCalls     int       `json:"model_calls"`
}

// ChatEventPublisher 封装了向 Kafka 发送对话事件的逻辑。
// 发送是尽力而为的，失败不影响对话本身。
type ChatEventPublisher struct {
	writer *kafka.Writer
}

// NewChatEventPublisher 创建一个新的 ChatEventPublisher 实例。
func NewChatEventPublisher(client *KafkaClient) *ChatEventPublisher {
	return &ChatEventPublisher{writer: client.Writer}
}

// PublishTurn 将事件序列化为 JSON 并发送到 Kafka。
func (p *ChatEventPublisher) PublishTurn(ctx context.Context, event *ChatTurnEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal chat event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.ConversationID), 10)),
		Value: jsonData,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

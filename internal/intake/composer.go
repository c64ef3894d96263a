package intake

import (
	"encoding/json"
	"fmt"

	"github.com/run-bigpig/sorb/internal/models"
)

// compose 在会话历史末尾追加本轮 AI 回复
// 这是历史唯一的增长点：只追加一条，绝不改动已有轮次
func (s *Service) compose(st *State) error {
	payload, err := s.marshalOrder(st)
	if err != nil {
		return fmt.Errorf("compose payload: %w", err)
	}

	st.ConversationMessages = append(st.ConversationMessages, models.ConversationMessage{
		DataType:    models.DataTypeAI,
		Data:        st.Extraction.Comment,
		PayloadType: st.ConversationType,
		Payload:     string(payload),
	})
	return nil
}

// marshalOrder 序列化本轮订单对象：已提升则输出完整订单，否则输出草稿
func (s *Service) marshalOrder(st *State) ([]byte, error) {
	if st.Validated != nil {
		return json.Marshal(st.Validated)
	}
	return json.Marshal(&st.Extraction.OrderInitiation)
}

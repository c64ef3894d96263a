package intake

import (
	"golang.org/x/text/width"
	"google.golang.org/genai"

	"github.com/run-bigpig/sorb/internal/models"
)

// normalizeHistory 将会话历史展开为模型可消费的内容序列
// 每轮消息：先输出附件文本（若有），再输出消息正文，顺序与会话一致
func normalizeHistory(history []models.ConversationMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for i := range history {
		msg := &history[i]
		role := convertRole(msg.DataType)

		if msg.HasPayload() {
			contents = append(contents, &genai.Content{
				Role:  role,
				Parts: []*genai.Part{genai.NewPartFromText(msg.Payload)},
			})
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(foldWidth(msg.Data))},
		})
	}
	return contents
}

// convertRole 会话角色映射为模型角色
func convertRole(dt models.DataType) string {
	if dt == models.DataTypeAI {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// foldWidth 全角字符折叠为半角，用户用全角数字输入的编号也能匹配字段格式
// 只作用于送入模型的文本，不回写任何字段值
func foldWidth(s string) string {
	return width.Narrow.String(s)
}

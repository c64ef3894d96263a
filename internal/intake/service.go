package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/run-bigpig/sorb/internal/logger"
	"github.com/run-bigpig/sorb/internal/models"
)

var log = logger.New("Intake")

// ErrMalformedHistory 请求携带的会话历史违反消息不变式
var ErrMalformedHistory = errors.New("malformed conversation history")

// State 单次请求的流水线状态
// 每次请求新建，四个阶段依次读写，响应返回后即丢弃，不跨请求持久化
type State struct {
	ConversationMessages []models.ConversationMessage // 原始会话历史
	Contents             []*genai.Content             // 规整后的模型输入
	Extraction           *models.ExtractionResult     // 当前抽取结果
	Validated            *models.ValidatedOrder       // 校验通过后的订单
	ConversationType     models.PayloadType           // 会话类别标记
}

// Service 订单受理流水线：Normalizer → Extractor → Validator → Composer
// 四个阶段严格顺序执行，核心内部没有分支和重试，重试由调用方重新提交完成
type Service struct {
	extractLLM model.LLM // 抽取能力
	clarifyLLM model.LLM // 追问能力
}

// NewService 创建订单受理流水线
func NewService(extractLLM, clarifyLLM model.LLM) *Service {
	return &Service{
		extractLLM: extractLLM,
		clarifyLLM: clarifyLLM,
	}
}

// Run 执行一次完整的流水线
// 输入完整会话历史，输出追加了一条 AI 回复的历史
func (s *Service) Run(ctx context.Context, history []models.ConversationMessage) ([]models.ConversationMessage, error) {
	if err := models.ValidateHistory(history); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}

	st := &State{
		ConversationMessages: append([]models.ConversationMessage(nil), history...),
		ConversationType:     models.PayloadTypeOrderInitiation,
	}

	st.Contents = normalizeHistory(st.ConversationMessages)
	log.Debug("normalized %d message(s) into %d content(s)", len(history), len(st.Contents))

	if err := s.extract(ctx, st); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, st); err != nil {
		return nil, err
	}
	if err := s.compose(st); err != nil {
		return nil, err
	}

	return st.ConversationMessages, nil
}

// invoke 调用 LLM 并聚合为单个响应内容
func invoke(ctx context.Context, llm model.LLM, req *model.LLMRequest) (*genai.Content, error) {
	aggregated := &genai.Content{Role: genai.RoleModel}
	for resp, err := range llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return nil, err
		}
		if resp == nil || resp.Content == nil || resp.Partial {
			continue
		}
		aggregated.Parts = append(aggregated.Parts, resp.Content.Parts...)
	}
	if len(aggregated.Parts) == 0 {
		return nil, fmt.Errorf("model %s returned no content", llm.Name())
	}
	return aggregated, nil
}

// contentText 拼接内容中的可见文本，跳过 thinking 片段
func contentText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if part.Thought {
			continue
		}
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

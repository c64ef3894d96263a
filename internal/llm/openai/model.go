package openai

import (
	"context"
	"errors"
	"iter"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/adk/model"

	"github.com/run-bigpig/sorb/internal/logger"
)

var modelLog = logger.New("openai:model")

var _ model.LLM = &Model{}

// ErrNoChoices OpenAI 响应中没有候选
var ErrNoChoices = errors.New("no choices in OpenAI response")

// Model 实现 model.LLM 接口的 OpenAI 兼容模型
// 订单受理管线只做同步的请求/响应调用，不支持流式输出
type Model struct {
	client    *openai.Client
	modelName string
}

// NewModel 创建 OpenAI 兼容模型
func NewModel(modelName string, cfg openai.ClientConfig) *Model {
	return &Model{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}
}

// Name 返回模型名称
func (m *Model) Name() string {
	return m.modelName
}

// GenerateContent 实现 model.LLM 接口
func (m *Model) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		if stream {
			modelLog.Debug("stream requested, falling back to blocking call")
		}

		openaiReq, err := toChatCompletionRequest(req, m.modelName)
		if err != nil {
			yield(nil, err)
			return
		}

		resp, err := m.client.CreateChatCompletion(ctx, openaiReq)
		if err != nil {
			yield(nil, err)
			return
		}

		llmResp, err := fromChatCompletionResponse(&resp)
		if err != nil {
			yield(nil, err)
			return
		}

		yield(llmResp, nil)
	}
}

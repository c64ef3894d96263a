package intake

import (
	"context"
	"iter"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// fakeLLM 测试用模型：回放预置响应并记录请求
type fakeLLM struct {
	name      string
	responses []*model.LLMResponse
	err       error
	lastReq   *model.LLMRequest
	calls     int
}

func (f *fakeLLM) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeLLM) GenerateContent(_ context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	f.lastReq = req
	f.calls++
	return func(yield func(*model.LLMResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		for _, resp := range f.responses {
			if !yield(resp, nil) {
				return
			}
		}
	}
}

// fakeToolCallLLM 返回一次 AiAnalysis 工具调用
func fakeToolCallLLM(args map[string]any) *fakeLLM {
	return &fakeLLM{
		responses: []*model.LLMResponse{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{{
					FunctionCall: &genai.FunctionCall{
						ID:   "call_1",
						Name: extractionToolName,
						Args: args,
					},
				}},
			},
			TurnComplete: true,
		}},
	}
}

// fakeTextLLM 返回一段纯文本
func fakeTextLLM(text string) *fakeLLM {
	return &fakeLLM{
		responses: []*model.LLMResponse{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{genai.NewPartFromText(text)},
			},
			TurnComplete: true,
		}},
	}
}

// draftArgs 构造工具调用参数
func draftArgs(order map[string]any, comment string) map[string]any {
	return map[string]any{
		"orderInitiation": order,
		"comment":         comment,
	}
}

package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/run-bigpig/sorb/internal/models"
)

// extractionToolName 抽取工具名，模型被强制调用该工具
const extractionToolName = "AiAnalysis"

// ErrNoExtraction 抽取能力未返回可用候选，对当前请求是致命错误
var ErrNoExtraction = errors.New("extraction returned no usable candidate")

// extractionInstruction 抽取指令：模板默认值、单 token 单字段、禁止改写输入
const extractionInstruction = `Populate an OrderInitiation object using AI-human chat interaction, adhering strictly to handling unclear or incomplete order details without altering the original inputs or using one input for multiple fields. Always verify and clarify missing information based on the template default and on your educated guesses, and ensure that each field input complies with the schema requirements including format and length. But NEVER use an input to complete two different fields (example intervenant and security) in the order and NEVER truncate or change an input. If an input is ambiguous (for example its length matches no field format), flag the ambiguity in your comment instead of guessing. Only claim a field is filled when the conversation contains direct textual evidence for it.

Interpret the structure provided to accurately identify and manage missing fields:

%s

Example Process:

Received User Input: '12334567 2000 50'
Analysis: Fields are missing. Based on the schema orderClass and orderType are missing. Use the template defaults ('N' and 'BUY') and ask the user to provide the security id.
Expected response: Thank you for initiating your order. It looks like we're missing some information to proceed: Could you please provide the intervenant ID and confirm that the other fields are correct? Your cooperation is greatly appreciated.`

// extract 调用抽取能力，从会话内容中得到订单草稿与评论
func (s *Service) extract(ctx context.Context, st *State) error {
	req := &model.LLMRequest{
		Contents: st.Contents,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Role: "system",
				Parts: []*genai.Part{genai.NewPartFromText(
					fmt.Sprintf(extractionInstruction, models.RenderOrderSchema()),
				)},
			},
			Tools: []*genai.Tool{{
				FunctionDeclarations: []*genai.FunctionDeclaration{{
					Name:                 extractionToolName,
					Description:          "Report the best-effort order initiation extracted from the conversation, plus a comment for the user.",
					ParametersJsonSchema: models.OrderInitiationJSONSchema(),
				}},
			}},
			ToolConfig: &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{
					Mode:                 genai.FunctionCallingConfigModeAny,
					AllowedFunctionNames: []string{extractionToolName},
				},
			},
		},
	}

	content, err := invoke(ctx, s.extractLLM, req)
	if err != nil {
		return fmt.Errorf("extraction call: %w", err)
	}

	result, err := parseExtraction(content)
	if err != nil {
		return err
	}

	result.OrderInitiation.ApplyDefaults()
	st.Extraction = result
	log.Debug("extracted draft: %+v, comment: %s", result.OrderInitiation, truncate(result.Comment, 120))
	return nil
}

// parseExtraction 解析模型响应：优先工具调用参数，退回文本 JSON
func parseExtraction(content *genai.Content) (*models.ExtractionResult, error) {
	if content == nil {
		return nil, ErrNoExtraction
	}

	var text strings.Builder
	for _, part := range content.Parts {
		if part.FunctionCall != nil && part.FunctionCall.Name == extractionToolName {
			return decodeExtractionArgs(part.FunctionCall.Args)
		}
		if part.Thought {
			continue
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	jsonStr := extractJSON(text.String())
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoExtraction, truncate(text.String(), 200))
	}

	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %v", ErrNoExtraction, truncate(jsonStr, 200), err)
	}
	return &result, nil
}

// decodeExtractionArgs 工具调用参数转为抽取结果
func decodeExtractionArgs(args map[string]any) (*models.ExtractionResult, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal tool args: %v", ErrNoExtraction, err)
	}
	var result models.ExtractionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: decode tool args: %v", ErrNoExtraction, err)
	}
	return &result, nil
}

// extractJSON 从自由文本中提取第一个完整的 JSON 对象
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "{") && strings.HasSuffix(content, "}") {
		return content
	}

	// ```json 代码块
	if idx := strings.Index(content, "```"); idx != -1 {
		start := idx + 3
		if newline := strings.Index(content[start:], "\n"); newline != -1 {
			start += newline + 1
		}
		if end := strings.Index(content[start:], "```"); end != -1 {
			candidate := strings.TrimSpace(content[start : start+end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	// 括号配对扫描
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}
	depth, inString, escape := 0, false, false
	for i := start; i < len(content); i++ {
		c := content[i]
		if escape {
			escape = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escape = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}

// truncate 截断字符串用于日志输出
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

package intake

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/run-bigpig/sorb/internal/models"
)

var (
	intervenantPattern = regexp.MustCompile(`^[0-9A-Za-z]{7}$`)
	securityIDPattern  = regexp.MustCompile(`^[0-9A-Za-z]{6}\.[0-9A-Za-z]{3}$`)
)

// Violation 单条字段校验失败，消息面向用户、不含技术词汇
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Promote 将订单草稿提升为已校验订单
// 纯函数：收集全部违规而不是遇错即返；无违规时逐字段复制、不做任何改写
func Promote(d models.OrderDraft) (*models.ValidatedOrder, []Violation) {
	var violations []Violation

	if d.Intervenant == nil || !intervenantPattern.MatchString(*d.Intervenant) {
		violations = append(violations, Violation{
			Field:   "intervenant",
			Message: "It seems that the intervenant is missing or incomplete, please correct",
		})
	}
	if d.SecurityID == nil || !securityIDPattern.MatchString(*d.SecurityID) {
		violations = append(violations, Violation{
			Field:   "security_id",
			Message: "It seems that the security is missing or incomplete, please correct",
		})
	}
	if d.OrderType == nil || !d.OrderType.Valid() {
		violations = append(violations, Violation{
			Field:   "orderType",
			Message: "Please indicate whether the order is a BUY or a SELL",
		})
	}
	if d.Quantity == nil || *d.Quantity <= 0 {
		violations = append(violations, Violation{
			Field:   "quantity",
			Message: "Quantity must be greater than zero, please correct",
		})
	}
	if d.OrderClass == nil || !d.OrderClass.Valid() {
		violations = append(violations, Violation{
			Field:   "orderClass",
			Message: "The order class is not recognized, please correct",
		})
	}

	if len(violations) > 0 {
		return nil, violations
	}

	return &models.ValidatedOrder{
		OrderConfirmed: d.OrderConfirmed,
		Intervenant:    *d.Intervenant,
		SecurityID:     *d.SecurityID,
		OrderType:      *d.OrderType,
		Quantity:       *d.Quantity,
		OrderClass:     *d.OrderClass,
	}, nil
}

// clarificationInstruction 追问指令：口语化、不用类型名、同一字段不重复追问
const clarificationInstruction = `Given a user's initial input related to initiating an order and a list of validation errors pertaining to missing or incorrect required fields, create a response that politely prompts the user to address these errors in a functional, non-technical manner. NEVER use variable types (like string, boolean, number, integer) in your response, use the field meanings instead. Don't ask two times for information about the same field.

Parameters:
- initial_message:
%s

- validation_errors:
%s`

// validate 校验订单草稿：通过则提升并保留原评论，失败则生成合并追问
func (s *Service) validate(ctx context.Context, st *State) error {
	validated, violations := Promote(st.Extraction.OrderInitiation)
	if validated != nil {
		// 校验通过：不生成追问，评论原样保留；重复校验是幂等的
		st.Validated = validated
		log.Info("order promoted: intervenant=%s security=%s %s %g %s",
			validated.Intervenant, validated.SecurityID, validated.OrderType,
			validated.Quantity, validated.OrderClass)
		return nil
	}

	log.Info("order draft rejected, %d violation(s)", len(violations))
	comment, err := s.clarify(ctx, st.Extraction.Comment, violations)
	if err != nil {
		// 不伪造回退文案，避免丢失具体的违规字段信息
		return fmt.Errorf("clarification call: %w", err)
	}
	st.Extraction.Comment = comment
	return nil
}

// clarify 调用追问能力，把违规集合汇总为一条面向用户的追问
func (s *Service) clarify(ctx context.Context, initialMessage string, violations []Violation) (string, error) {
	var sb strings.Builder
	for _, v := range violations {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", v.Field, v.Message))
	}

	req := &model.LLMRequest{
		Contents: []*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{genai.NewPartFromText(
				fmt.Sprintf(clarificationInstruction, initialMessage, sb.String()),
			)},
		}},
	}

	content, err := invoke(ctx, s.clarifyLLM, req)
	if err != nil {
		return "", err
	}

	text := contentText(content)
	if text == "" {
		return "", fmt.Errorf("clarification returned empty response")
	}
	return text, nil
}

package intake

import (
	"context"
	"strings"
	"testing"

	"github.com/run-bigpig/sorb/internal/models"
)

func strPtr(s string) *string                         { return &s }
func floatPtr(f float64) *float64                     { return &f }
func typePtr(t models.OrderType) *models.OrderType    { return &t }
func classPtr(c models.OrderClass) *models.OrderClass { return &c }

// completeDraft 构造一份全部字段合法的草稿
func completeDraft() models.OrderDraft {
	return models.OrderDraft{
		OrderConfirmed: true,
		Intervenant:    strPtr("AB12345"),
		SecurityID:     strPtr("123456.ABC"),
		OrderType:      typePtr(models.OrderTypeBuy),
		Quantity:       floatPtr(100.0),
		OrderClass:     classPtr(models.OrderClassNormal),
	}
}

// TestPromote 测试草稿到已校验订单的提升
func TestPromote(t *testing.T) {
	t.Run("完整草稿逐字段提升", func(t *testing.T) {
		d := completeDraft()
		validated, violations := Promote(d)
		if len(violations) != 0 {
			t.Fatalf("不应有违规: %v", violations)
		}
		if validated == nil {
			t.Fatal("应得到已校验订单")
		}
		if validated.Intervenant != *d.Intervenant ||
			validated.SecurityID != *d.SecurityID ||
			validated.OrderType != *d.OrderType ||
			validated.Quantity != *d.Quantity ||
			validated.OrderClass != *d.OrderClass ||
			validated.OrderConfirmed != d.OrderConfirmed {
			t.Errorf("字段被改写: %+v vs %+v", validated, d)
		}
	})

	t.Run("全部违规一次收集", func(t *testing.T) {
		validated, violations := Promote(models.OrderDraft{})
		if validated != nil {
			t.Fatal("空草稿不应通过")
		}
		if len(violations) != 5 {
			t.Errorf("期望 5 条违规，实际 %d: %v", len(violations), violations)
		}
	})

	t.Run("负数量被拒绝", func(t *testing.T) {
		d := completeDraft()
		d.Quantity = floatPtr(-5)
		_, violations := Promote(d)
		if len(violations) != 1 || violations[0].Field != "quantity" {
			t.Fatalf("期望仅 quantity 违规: %v", violations)
		}
		if !strings.Contains(violations[0].Message, "greater than zero") {
			t.Errorf("提示应说明数量必须为正: %s", violations[0].Message)
		}
	})

	t.Run("证券编号格式错误被拒绝", func(t *testing.T) {
		d := completeDraft()
		d.SecurityID = strPtr("12.345")
		_, violations := Promote(d)
		if len(violations) != 1 || violations[0].Field != "security_id" {
			t.Fatalf("期望仅 security_id 违规: %v", violations)
		}
	})

	t.Run("参与方编号长度必须为7", func(t *testing.T) {
		for _, bad := range []string{"12334567", "123456", "ABC-123", ""} {
			d := completeDraft()
			d.Intervenant = strPtr(bad)
			if _, violations := Promote(d); len(violations) == 0 {
				t.Errorf("intervenant=%q 不应通过", bad)
			}
		}
	})

	t.Run("违规消息不含类型名", func(t *testing.T) {
		_, violations := Promote(models.OrderDraft{Quantity: floatPtr(-1)})
		forbidden := []string{"string", "boolean", "number", "integer"}
		for _, v := range violations {
			msg := strings.ToLower(v.Message)
			for _, word := range forbidden {
				if strings.Contains(msg, word) {
					t.Errorf("字段 %s 的提示包含类型名 %q: %s", v.Field, word, v.Message)
				}
			}
		}
	})

	t.Run("幂等：已校验订单再次校验不变", func(t *testing.T) {
		d := completeDraft()
		first, violations := Promote(d)
		if len(violations) != 0 {
			t.Fatalf("首次校验不应失败: %v", violations)
		}
		second, violations := Promote(first.Draft())
		if len(violations) != 0 {
			t.Fatalf("重复校验不应失败: %v", violations)
		}
		if *first != *second {
			t.Errorf("重复校验结果不一致: %+v vs %+v", first, second)
		}
	})
}

// TestValidateStage 测试校验阶段的评论处理
func TestValidateStage(t *testing.T) {
	t.Run("通过时评论原样保留", func(t *testing.T) {
		clarify := fakeTextLLM("should not be called")
		s := NewService(fakeTextLLM(""), clarify)
		st := &State{Extraction: &models.ExtractionResult{
			OrderInitiation: completeDraft(),
			Comment:         "Thank you, your order is complete.",
		}}

		if err := s.validate(context.Background(), st); err != nil {
			t.Fatalf("校验不应失败: %v", err)
		}
		if st.Validated == nil {
			t.Fatal("应得到已校验订单")
		}
		if st.Extraction.Comment != "Thank you, your order is complete." {
			t.Errorf("评论被改写: %s", st.Extraction.Comment)
		}
		if clarify.calls != 0 {
			t.Errorf("通过时不应调用追问能力, calls=%d", clarify.calls)
		}
	})

	t.Run("失败时评论被替换", func(t *testing.T) {
		clarify := fakeTextLLM("Could you please provide the security identifier?")
		s := NewService(fakeTextLLM(""), clarify)
		d := completeDraft()
		d.SecurityID = nil
		st := &State{Extraction: &models.ExtractionResult{
			OrderInitiation: d,
			Comment:         "original comment",
		}}

		if err := s.validate(context.Background(), st); err != nil {
			t.Fatalf("校验阶段不应报错: %v", err)
		}
		if st.Validated != nil {
			t.Fatal("缺字段的草稿不应被提升")
		}
		if st.Extraction.Comment == "original comment" {
			t.Error("失败时评论必须被替换")
		}
		if clarify.calls != 1 {
			t.Errorf("应调用追问能力一次, calls=%d", clarify.calls)
		}
		// 追问 prompt 必须带上违规字段与原评论
		prompt := contentText(clarify.lastReq.Contents[0])
		if !strings.Contains(prompt, "security_id") {
			t.Errorf("追问 prompt 未包含违规字段: %s", prompt)
		}
		if !strings.Contains(prompt, "original comment") {
			t.Errorf("追问 prompt 未包含原评论: %s", prompt)
		}
	})

	t.Run("追问能力失败则请求失败", func(t *testing.T) {
		clarify := &fakeLLM{err: context.DeadlineExceeded}
		s := NewService(fakeTextLLM(""), clarify)
		st := &State{Extraction: &models.ExtractionResult{OrderInitiation: models.OrderDraft{}}}

		if err := s.validate(context.Background(), st); err == nil {
			t.Fatal("追问能力失败必须上抛，不允许伪造回退文案")
		}
	})
}

package models

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestConversationMessageValidate 测试消息不变式
func TestConversationMessageValidate(t *testing.T) {
	t.Run("payload与payload_type成对", func(t *testing.T) {
		cases := []struct {
			name string
			msg  ConversationMessage
			ok   bool
		}{
			{"都缺失", ConversationMessage{DataType: DataTypeHuman, Data: "hi"}, true},
			{"都存在", ConversationMessage{DataType: DataTypeAI, Data: "ok", PayloadType: PayloadTypeOrderInitiation, Payload: `{}`}, true},
			{"只有payload", ConversationMessage{DataType: DataTypeHuman, Data: "hi", Payload: `{}`}, false},
			{"只有payload_type", ConversationMessage{DataType: DataTypeHuman, Data: "hi", PayloadType: PayloadTypeFinancialPosition}, false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				err := tc.msg.Validate()
				if tc.ok && err != nil {
					t.Errorf("不应报错: %v", err)
				}
				if !tc.ok && !errors.Is(err, ErrPayloadMismatch) {
					t.Errorf("期望 ErrPayloadMismatch，实际: %v", err)
				}
			})
		}
	})

	t.Run("未知角色被拒绝", func(t *testing.T) {
		msg := ConversationMessage{DataType: "Robot", Data: "hi"}
		if err := msg.Validate(); err == nil {
			t.Error("未知 data_type 应报错")
		}
	})

	t.Run("wire字段名", func(t *testing.T) {
		raw := `{"data_type":"Human","data":"buy 100","payload_type":"OrderInitiation","payload":"{}"}`
		var msg ConversationMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			t.Fatalf("反序列化失败: %v", err)
		}
		if msg.DataType != DataTypeHuman || msg.Data != "buy 100" {
			t.Errorf("字段映射错误: %+v", msg)
		}
		if msg.PayloadType != PayloadTypeOrderInitiation {
			t.Errorf("payload_type 映射错误: %s", msg.PayloadType)
		}
	})
}

// TestValidatedOrderDraft 测试已校验订单还原为草稿
func TestValidatedOrderDraft(t *testing.T) {
	v := ValidatedOrder{
		OrderConfirmed: true,
		Intervenant:    "0001091",
		SecurityID:     "507170.000",
		OrderType:      OrderTypeSell,
		Quantity:       1000.5,
		OrderClass:     OrderClassNormal,
	}
	d := v.Draft()
	if *d.Intervenant != v.Intervenant || *d.SecurityID != v.SecurityID ||
		*d.OrderType != v.OrderType || *d.Quantity != v.Quantity ||
		*d.OrderClass != v.OrderClass || d.OrderConfirmed != v.OrderConfirmed {
		t.Errorf("还原草稿字段不一致: %+v", d)
	}
}

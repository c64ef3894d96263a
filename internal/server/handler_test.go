package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/run-bigpig/sorb/internal/intake"
	"github.com/run-bigpig/sorb/internal/models"
)

// fakePipeline 测试用流水线：追加一条固定 AI 回复或返回错误
type fakePipeline struct {
	err error
}

func (f *fakePipeline) Run(_ context.Context, history []models.ConversationMessage) ([]models.ConversationMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append(history, models.ConversationMessage{
		DataType:    models.DataTypeAI,
		Data:        "ok",
		PayloadType: models.PayloadTypeOrderInitiation,
		Payload:     `{"order_confirmed":false}`,
	}), nil
}

// TestHandleOrderInitiation 测试订单受理接口
func TestHandleOrderInitiation(t *testing.T) {
	t.Run("正常请求返回追加后的历史", func(t *testing.T) {
		h := NewOrderHandler(&fakePipeline{})
		body := `[{"data_type":"Human","data":"buy 100"}]`
		req := httptest.NewRequest("POST", "/orderinitiation/", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.HandleOrderInitiation(rec, req)

		if rec.Code != 200 {
			t.Fatalf("期望 200，实际 %d: %s", rec.Code, rec.Body.String())
		}
		var updated []models.ConversationMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("响应解析失败: %v", err)
		}
		if len(updated) != 2 || updated[1].DataType != models.DataTypeAI {
			t.Errorf("响应历史错误: %+v", updated)
		}
	})

	t.Run("请求体不是JSON返回400", func(t *testing.T) {
		h := NewOrderHandler(&fakePipeline{})
		req := httptest.NewRequest("POST", "/orderinitiation/", strings.NewReader("not json"))
		rec := httptest.NewRecorder()

		h.HandleOrderInitiation(rec, req)
		if rec.Code != 400 {
			t.Errorf("期望 400，实际 %d", rec.Code)
		}
	})

	t.Run("历史违反不变式返回400", func(t *testing.T) {
		h := NewOrderHandler(&fakePipeline{
			err: fmt.Errorf("%w: payload without type", intake.ErrMalformedHistory),
		})
		req := httptest.NewRequest("POST", "/orderinitiation/", strings.NewReader("[]"))
		rec := httptest.NewRecorder()

		h.HandleOrderInitiation(rec, req)
		if rec.Code != 400 {
			t.Errorf("期望 400，实际 %d", rec.Code)
		}
	})

	t.Run("能力不可用返回502", func(t *testing.T) {
		h := NewOrderHandler(&fakePipeline{err: fmt.Errorf("capability down")})
		req := httptest.NewRequest("POST", "/orderinitiation/", strings.NewReader("[]"))
		rec := httptest.NewRecorder()

		h.HandleOrderInitiation(rec, req)
		if rec.Code != 502 {
			t.Errorf("期望 502，实际 %d", rec.Code)
		}
	})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/run-bigpig/sorb/internal/intake"
	"github.com/run-bigpig/sorb/internal/models"
)

// Pipeline 订单受理流水线的调用面
type Pipeline interface {
	Run(ctx context.Context, history []models.ConversationMessage) ([]models.ConversationMessage, error)
}

// OrderHandler 订单受理接口处理器
type OrderHandler struct {
	pipeline Pipeline
}

// NewOrderHandler 创建订单受理处理器
func NewOrderHandler(pipeline Pipeline) *OrderHandler {
	return &OrderHandler{pipeline: pipeline}
}

// HandleOrderInitiation POST /orderinitiation/
// 请求体为完整会话历史，响应为追加了一条 AI 回复的历史
func (h *OrderHandler) HandleOrderInitiation(w http.ResponseWriter, r *http.Request) {
	var history []models.ConversationMessage
	if err := json.NewDecoder(r.Body).Decode(&history); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.pipeline.Run(r.Context(), history)
	if err != nil {
		switch {
		case errors.Is(err, intake.ErrMalformedHistory):
			log.Warn("malformed history: %v", err)
			sendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, context.Canceled):
			// 客户端断开，无需响应
			log.Debug("request canceled: %v", err)
		default:
			// 抽取/追问能力不可用，对本次请求是硬失败
			log.Error("pipeline failed: %v", err)
			sendJSONError(w, "order intake is temporarily unavailable", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		log.Error("encode response: %v", err)
	}
}

// HandleHealthz GET /healthz
func (h *OrderHandler) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// sendJSONError 以 JSON 形式返回错误
func sendJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

package models

import (
	"errors"
	"fmt"
)

// DataType 会话消息的角色类型
type DataType string

const (
	DataTypeHuman  DataType = "Human"
	DataTypeSystem DataType = "System"
	DataTypeAI     DataType = "AI"
)

// PayloadType 结构化附件类型
type PayloadType string

const (
	PayloadTypeFinancialPosition PayloadType = "FinancialPosition"
	PayloadTypeOrderInitiation   PayloadType = "OrderInitiation"
)

// ErrPayloadMismatch payload 与 payload_type 必须同时存在或同时缺失
var ErrPayloadMismatch = errors.New("payload and payload_type must be set together")

// ConversationMessage 会话中的一轮消息，可携带结构化附件
type ConversationMessage struct {
	DataType    DataType    `json:"data_type"`
	Data        string      `json:"data"`
	PayloadType PayloadType `json:"payload_type,omitempty"`
	Payload     string      `json:"payload,omitempty"`
}

// HasPayload 是否携带结构化附件
func (m *ConversationMessage) HasPayload() bool {
	return m.PayloadType != ""
}

// Validate 校验消息不变式：payload 与 payload_type 成对出现
func (m *ConversationMessage) Validate() error {
	if (m.Payload == "") != (m.PayloadType == "") {
		return fmt.Errorf("message %q: %w", m.DataType, ErrPayloadMismatch)
	}
	switch m.DataType {
	case DataTypeHuman, DataTypeSystem, DataTypeAI:
	default:
		return fmt.Errorf("unknown data_type: %q", m.DataType)
	}
	if m.PayloadType != "" {
		switch m.PayloadType {
		case PayloadTypeFinancialPosition, PayloadTypeOrderInitiation:
		default:
			return fmt.Errorf("unknown payload_type: %q", m.PayloadType)
		}
	}
	return nil
}

// ValidateHistory 校验整段会话历史
func ValidateHistory(history []ConversationMessage) error {
	for i := range history {
		if err := history[i].Validate(); err != nil {
			return fmt.Errorf("history[%d]: %w", i, err)
		}
	}
	return nil
}

package models

import (
	"fmt"
	"strings"
)

// FieldSpec 订单字段描述：用于生成抽取指令，与校验规则表相互独立
type FieldSpec struct {
	Name        string // 字段名（与 JSON 字段一致）
	Type        string // 语义类型描述
	Format      string // 格式要求，空表示无格式约束
	Default     string // 模板默认值，空表示无安全默认值
	Example     string // 示例值
	Description string // 字段含义
}

// OrderFieldSpecs OrderInitiation 各字段的抽取描述
var OrderFieldSpecs = []FieldSpec{
	{
		Name:        "order_confirmed",
		Type:        "confirmation flag",
		Default:     "false",
		Example:     "false",
		Description: "Indicates if the order is confirmed by the user",
	},
	{
		Name:        "intervenant",
		Type:        "party identifier",
		Format:      "exactly 7 alphanumeric characters",
		Example:     "0001091",
		Description: "The identifier (not the name) for the intervening party in the order process",
	},
	{
		Name:        "security_id",
		Type:        "security identifier",
		Format:      "6 alphanumeric characters, a dot, then 3 alphanumeric characters",
		Example:     "507170.000",
		Description: "The identifier of the financial security",
	},
	{
		Name:        "orderType",
		Type:        "order direction",
		Format:      "one of BUY, SELL",
		Default:     "BUY",
		Example:     "BUY",
		Description: "The type of order being placed",
	},
	{
		Name:        "quantity",
		Type:        "trade quantity",
		Format:      "strictly positive",
		Example:     "1000.5",
		Description: "The quantity of the financial security being traded",
	},
	{
		Name:        "orderClass",
		Type:        "order classification",
		Format:      "a recognized class code",
		Default:     "N",
		Example:     "N",
		Description: "The class of the order, such as N for a normal order",
	},
}

// RenderOrderSchema 渲染字段描述清单，作为抽取指令的一部分
func RenderOrderSchema() string {
	var sb strings.Builder
	sb.WriteString("OrderInitiation fields:\n")
	for _, f := range OrderFieldSpecs {
		sb.WriteString(fmt.Sprintf("- %s (%s)", f.Name, f.Type))
		if f.Format != "" {
			sb.WriteString(", format: " + f.Format)
		}
		if f.Default != "" {
			sb.WriteString(", template default: " + f.Default)
		} else {
			sb.WriteString(", no safe default, must be asked for when missing")
		}
		sb.WriteString(fmt.Sprintf(", example: %s — %s\n", f.Example, f.Description))
	}
	return sb.String()
}

// OrderInitiationJSONSchema AiAnalysis 工具的参数 JSON Schema
// 仅供模型端结构化输出使用，严格校验另见 intake 包的规则表
func OrderInitiationJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"orderInitiation": map[string]any{
				"type":        "object",
				"description": "The initial details of the order provided. May be incomplete and require further information.",
				"properties": map[string]any{
					"order_confirmed": map[string]any{
						"type":        "boolean",
						"description": "Indicates if the order is confirmed",
						"default":     false,
					},
					"intervenant": map[string]any{
						"type":        []string{"string", "null"},
						"description": "The identifier (not the name) for the intervening party in the order process. It is a 7-character alphanumeric string.",
					},
					"security_id": map[string]any{
						"type":        []string{"string", "null"},
						"description": "The identifier of the financial security. The format is 6 alphanumeric characters, a dot, followed by 3 alphanumeric characters (e.g., '507170.000').",
					},
					"orderType": map[string]any{
						"type":        []string{"string", "null"},
						"enum":        []string{"BUY", "SELL"},
						"description": "The type of order being placed, can be either BUY or SELL",
						"default":     "BUY",
					},
					"quantity": map[string]any{
						"type":        []string{"number", "null"},
						"description": "The quantity of the financial security being traded",
					},
					"orderClass": map[string]any{
						"type":        []string{"string", "null"},
						"description": "The class of the order, such as N for normal order",
						"default":     "N",
					},
				},
				"required":             []string{"order_confirmed"},
				"additionalProperties": false,
			},
			"comment": map[string]any{
				"type":        "string",
				"description": "Question or comment from the AI prompting for additional details to complete the order initiation if needed.",
			},
		},
		"required": []string{"orderInitiation", "comment"},
	}
}

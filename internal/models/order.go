package models

// OrderType 订单方向
type OrderType string

const (
	OrderTypeBuy  OrderType = "BUY"
	OrderTypeSell OrderType = "SELL"
)

// Valid 是否为合法的订单方向
func (t OrderType) Valid() bool {
	return t == OrderTypeBuy || t == OrderTypeSell
}

// OrderClass 订单类别
type OrderClass string

const (
	// OrderClassNormal 普通订单，模板默认值
	OrderClassNormal OrderClass = "N"
)

// Valid 是否为已登记的订单类别
func (c OrderClass) Valid() bool {
	return c == OrderClassNormal
}

// OrderDraft 抽取阶段的订单草稿，除确认标记外所有字段均可缺失
type OrderDraft struct {
	OrderConfirmed bool        `json:"order_confirmed"`
	Intervenant    *string     `json:"intervenant,omitempty"`
	SecurityID     *string     `json:"security_id,omitempty"`
	OrderType      *OrderType  `json:"orderType,omitempty"`
	Quantity       *float64    `json:"quantity,omitempty"`
	OrderClass     *OrderClass `json:"orderClass,omitempty"`
}

// ApplyDefaults 填充模板默认值（orderClass 默认 N）
func (d *OrderDraft) ApplyDefaults() {
	if d.OrderClass == nil {
		c := OrderClassNormal
		d.OrderClass = &c
	}
}

// ValidatedOrder 通过全部字段校验后的订单，所有字段必填
type ValidatedOrder struct {
	OrderConfirmed bool       `json:"order_confirmed"`
	Intervenant    string     `json:"intervenant"`
	SecurityID     string     `json:"security_id"`
	OrderType      OrderType  `json:"orderType"`
	Quantity       float64    `json:"quantity"`
	OrderClass     OrderClass `json:"orderClass"`
}

// Draft 将已校验订单还原为草稿形态（用于重新校验等场景）
func (v *ValidatedOrder) Draft() OrderDraft {
	intervenant := v.Intervenant
	securityID := v.SecurityID
	orderType := v.OrderType
	quantity := v.Quantity
	orderClass := v.OrderClass
	return OrderDraft{
		OrderConfirmed: v.OrderConfirmed,
		Intervenant:    &intervenant,
		SecurityID:     &securityID,
		OrderType:      &orderType,
		Quantity:       &quantity,
		OrderClass:     &orderClass,
	}
}

// ExtractionResult 抽取结果：订单草稿 + 面向用户的评论或追问
type ExtractionResult struct {
	OrderInitiation OrderDraft `json:"orderInitiation"`
	Comment         string     `json:"comment"`
}

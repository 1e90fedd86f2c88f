package model

import "strings"

// Coupon 折扣券。總帳（遠端表格）是唯一的真實來源，used_at 非空即視為已消耗。
type Coupon struct {
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
	UsedAt string `json:"used_at"`
	UsedBy string `json:"used_by"`
	Row    int    `json:"row"` // 總帳中的列號，回寫 used_at/used_by 時使用
}

// IsUsed 檢查折扣券是否已被兌換
func (c *Coupon) IsUsed() bool {
	return c.UsedAt != ""
}

// Discount 折抵金額：不得超過訂單總額，總額永不為負
func Discount(amount, orderTotal int64) int64 {
	if amount < 0 {
		return 0
	}
	if amount > orderTotal {
		return orderTotal
	}
	return amount
}

// NormalizeCode 正規化折扣碼：轉大寫並移除非英數字元
func NormalizeCode(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

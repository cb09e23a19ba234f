package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var minorUnitsFactor = decimal.NewFromInt(100)

// ToMinorUnits แปลงจำนวนเงินเป็นหน่วยย่อย (x100) ปัดครึ่งขึ้น
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsFactor).Round(0).IntPart()
}

// FromMinorUnits แปลงกลับจากหน่วยย่อย
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// FormatPrice จัดรูปแบบราคาคั่นหลักพันด้วยช่องว่าง เช่น 12500 -> "12 500"
// เศษสตางค์แสดงเมื่อไม่เป็นศูนย์ เช่น 999.5 -> "999.50"
func FormatPrice(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	amount = amount.Abs().Round(2)

	intPart := amount.Truncate(0).String()
	frac := amount.Sub(amount.Truncate(0))

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if !frac.IsZero() {
		b.WriteString(strings.TrimPrefix(frac.StringFixed(2), "0"))
	}
	return b.String()
}

package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 伝票種別。番号のプレフィックスと採番カウンタのキーを兼ねる。
type DocumentKind string

const (
	DocumentKindSale          DocumentKind = "SALE"
	DocumentKindPurchaseOrder DocumentKind = "PURCHASE_ORDER"
	DocumentKindReceiving     DocumentKind = "RECEIVING"
)

func (k DocumentKind) Prefix() string {
	switch k {
	case DocumentKindSale:
		return "INV"
	case DocumentKindPurchaseOrder:
		return "PO"
	case DocumentKindReceiving:
		return "IR"
	}
	return ""
}

// FormatDocumentNumberは {prefix}{yyyyMMdd}{連番3桁} を組み立てる。
// 連番は日次で1始まり。999を超えると桁が伸びるが一意性は保たれる。
func FormatDocumentNumber(kind DocumentKind, day time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%03d", kind.Prefix(), day.Format("20060102"), seq)
}

// ParseDocumentNumberは伝票番号から連番部分を取り出す
func ParseDocumentNumber(kind DocumentKind, day time.Time, number string) (int64, error) {
	prefix := kind.Prefix() + day.Format("20060102")
	if !strings.HasPrefix(number, prefix) {
		return 0, fmt.Errorf("document number %q does not match prefix %q", number, prefix)
	}
	seq, err := strconv.ParseInt(number[len(prefix):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("document number %q has invalid sequence: %w", number, err)
	}
	return seq, nil
}

// DayKeyは採番カウンタの日付キー（yyyyMMdd）
func DayKey(day time.Time) string {
	return day.Format("20060102")
}

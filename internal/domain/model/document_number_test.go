package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDocumentNumber(t *testing.T) {
	day := time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "INV20250314001", FormatDocumentNumber(DocumentKindSale, day, 1))
	assert.Equal(t, "PO20250314042", FormatDocumentNumber(DocumentKindPurchaseOrder, day, 42))
	assert.Equal(t, "IR20250314999", FormatDocumentNumber(DocumentKindReceiving, day, 999))

	// 999を超えても桁が伸びるだけで衝突しない
	assert.Equal(t, "INV202503141000", FormatDocumentNumber(DocumentKindSale, day, 1000))
}

func TestParseDocumentNumber(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	seq, err := ParseDocumentNumber(DocumentKindSale, day, "INV20250314007")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)

	// 種別違い
	_, err = ParseDocumentNumber(DocumentKindReceiving, day, "INV20250314007")
	assert.Error(t, err)

	// 日付違い
	_, err = ParseDocumentNumber(DocumentKindSale, day.AddDate(0, 0, 1), "INV20250314007")
	assert.Error(t, err)

	_, err = ParseDocumentNumber(DocumentKindSale, day, "INV20250314abc")
	assert.Error(t, err)
}

// 日付が変わると連番は1に戻る前提なので、番号自体は日付で区別される
func TestDocumentNumber_DayBoundary(t *testing.T) {
	d1 := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 15, 0, 1, 0, 0, time.UTC)

	assert.NotEqual(t,
		FormatDocumentNumber(DocumentKindSale, d1, 1),
		FormatDocumentNumber(DocumentKindSale, d2, 1),
	)
}

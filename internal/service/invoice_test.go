package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceNumberFormat(t *testing.T) {
	now := time.Date(2025, 3, 7, 18, 45, 0, 0, time.Local)

	cases := []struct {
		count int64
		want  string
	}{
		{0, "INV-20250307-0001"},
		{1, "INV-20250307-0002"},
		{41, "INV-20250307-0042"},
		{998, "INV-20250307-0999"},
		{9998, "INV-20250307-9999"},
	}
	for _, tc := range cases {
		got, err := invoiceNumber(now, tc.count)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestInvoiceNumberSequenceExhausted(t *testing.T) {
	now := time.Date(2025, 3, 7, 18, 45, 0, 0, time.Local)

	_, err := invoiceNumber(now, 9999)
	assert.ErrorIs(t, err, ErrInvoiceSequenceExhausted)

	_, err = invoiceNumber(now, 25000)
	assert.ErrorIs(t, err, ErrInvoiceSequenceExhausted)
}

func TestInvoiceNumberResetsAcrossMidnight(t *testing.T) {
	beforeMidnight := time.Date(2025, 3, 7, 23, 59, 59, 0, time.Local)
	afterMidnight := time.Date(2025, 3, 8, 0, 0, 1, 0, time.Local)

	late, err := invoiceNumber(beforeMidnight, 120)
	require.NoError(t, err)
	early, err := invoiceNumber(afterMidnight, 0)
	require.NoError(t, err)

	assert.Equal(t, "INV-20250307-0121", late)
	assert.Equal(t, "INV-20250308-0001", early)
}

func TestDayWindow(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 14, 30, 0, 0, ist)
	from, to := dayWindow(now)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, ist), from)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, ist), to)
	assert.True(t, !now.Before(from) && now.Before(to))

	// A timestamp one second before midnight belongs to the closing day.
	edge := time.Date(2025, 6, 15, 23, 59, 59, 0, ist)
	from, to = dayWindow(edge)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, ist), from)
	assert.True(t, edge.Before(to))
}

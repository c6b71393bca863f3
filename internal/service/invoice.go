package service

import (
	"fmt"
	"time"
)

// Invoice numbers look like INV-20250101-0001: date prefix plus a 4-digit
// sequence that restarts each calendar day. The sequence is derived from a
// count of the day's purchases, which is a read-then-write race under
// concurrency — the allocator only proposes a candidate. Uniqueness is
// enforced by the unique index on purchases.invoice_number plus the retry
// loop in CompletePurchase.
//
// The day boundary uses the timestamp's own location. Callers pass server
// local time, preserving the original shop-clock behavior; tests pin a zone.

const (
	invoicePrefix      = "INV"
	invoiceDateLayout  = "20060102"
	maxInvoiceSequence = 9999
)

// invoiceNumber formats the candidate number for the (countToday+1)-th
// purchase of the day. Past 9999 it fails loudly rather than widening the
// field or truncating.
func invoiceNumber(now time.Time, countToday int64) (string, error) {
	seq := countToday + 1
	if seq > maxInvoiceSequence {
		return "", ErrInvoiceSequenceExhausted
	}
	return fmt.Sprintf("%s-%s-%04d", invoicePrefix, now.Format(invoiceDateLayout), seq), nil
}

// dayWindow returns [startOfDay, startOfDay+24h) in now's location.
func dayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Guru6163/hotspot-sarees/internal/infra"

	"github.com/rs/zerolog/log"
)

// LowStockItem is one item that fell to or below its minimum after a sale.
type LowStockItem struct {
	HumanCode string `json:"humanCode"`
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
	Minimum   int    `json:"minimum"`
}

// LowStockAlertPayload is the job envelope sent to QueueLowStock.
type LowStockAlertPayload struct {
	InvoiceNumber string         `json:"invoiceNumber"`
	Items         []LowStockItem `json:"items"`
}

// LowStockWorker emails the shop owner when a sale leaves items at or below
// their minimum quantity. Alerts are best-effort: a failed mail is logged and
// dropped, never retried against the committed purchase.
type LowStockWorker struct {
	mailer     *infra.Mailer
	alertEmail string
}

func NewLowStockWorker(mailer *infra.Mailer, alertEmail string) *LowStockWorker {
	return &LowStockWorker{mailer: mailer, alertEmail: alertEmail}
}

func (w *LowStockWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload LowStockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("lowstock_worker: invalid payload")
		return
	}
	if w.alertEmail == "" || len(payload.Items) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "After sale %s the following items are at or below minimum stock:\n\n", payload.InvoiceNumber)
	for _, item := range payload.Items {
		fmt.Fprintf(&b, "  %s  %s — %d left (minimum %d)\n",
			item.HumanCode, item.Name, item.Remaining, item.Minimum)
	}

	subject := fmt.Sprintf("Low stock alert — %d item(s)", len(payload.Items))
	if err := w.mailer.Send(w.alertEmail, subject, b.String()); err != nil {
		log.Error().Err(err).Str("invoice", payload.InvoiceNumber).Msg("lowstock_worker: failed to send alert")
		return
	}
	log.Info().Str("invoice", payload.InvoiceNumber).Int("items", len(payload.Items)).Msg("lowstock_worker: alert sent")
}

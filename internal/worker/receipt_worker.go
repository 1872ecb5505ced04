package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the sale receipt PDF
// into the storage directory and, when the customer left an email, mails it.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/infra"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
)

// TransactionSource looks up committed sales.
type TransactionSource interface {
	Get(ctx context.Context, id string) (model.Transaction, bool)
}

// ProfileSource provides the store header printed on receipts.
type ProfileSource interface {
	GetProfile(ctx context.Context) model.StoreProfile
}

// ReceiptMailer sends a rendered receipt.
type ReceiptMailer interface {
	Enabled() bool
	SendReceipt(to, storeName, transactionID, pdfPath string) error
}

type ReceiptWorker struct {
	transactions TransactionSource
	profile      ProfileSource
	mailer       ReceiptMailer
	storagePath  string
	loc          *time.Location
}

func NewReceiptWorker(transactions TransactionSource, profile ProfileSource, mailer ReceiptMailer, storagePath string, loc *time.Location) *ReceiptWorker {
	return &ReceiptWorker{
		transactions: transactions,
		profile:      profile,
		mailer:       mailer,
		storagePath:  storagePath,
		loc:          loc,
	}
}

// Process renders and optionally mails one receipt. A transaction voided
// before the job ran is skipped without error.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// retrying cannot fix a bad payload
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil
	}
	tx, ok := w.transactions.Get(ctx, payload.TransactionID)
	if !ok {
		log.Warn().Str("transaction_id", payload.TransactionID).Msg("receipt_worker: transaction gone, skipping")
		return nil
	}
	profile := w.profile.GetProfile(ctx)

	path, err := infra.SaveReceiptPDF(tx, profile, w.loc, w.storagePath)
	if err != nil {
		return fmt.Errorf("render receipt %s: %w", tx.ID, err)
	}
	log.Info().Str("transaction_id", tx.ID).Str("path", path).Msg("receipt_worker: receipt stored")

	if payload.Email == "" {
		return nil
	}
	if w.mailer == nil || !w.mailer.Enabled() {
		log.Warn().Str("transaction_id", tx.ID).Msg("receipt_worker: SMTP not configured, email skipped")
		return nil
	}
	if err := w.mailer.SendReceipt(payload.Email, profile.Name, tx.ID, path); err != nil {
		return fmt.Errorf("mail receipt %s: %w", tx.ID, err)
	}
	log.Info().Str("transaction_id", tx.ID).Str("to", payload.Email).Msg("receipt_worker: receipt mailed")
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const defaultAuditInterval = 10 * time.Minute

// IntegrityAuditWorker periodically verifies that every vault record still
// decrypts and logs the ones that do not. Unreadable records are reported,
// never touched.
type IntegrityAuditWorker struct {
	verifier Verifier
	interval time.Duration
	logger   *logger.Logger
	onReport func(models.IntegrityReport)
}

// NewIntegrityAuditWorker creates an audit worker. If interval is zero or
// negative it defaults to 10 minutes. onReport may be nil.
func NewIntegrityAuditWorker(verifier Verifier, interval time.Duration, logger *logger.Logger, onReport func(models.IntegrityReport)) *IntegrityAuditWorker {
	if interval <= 0 {
		interval = defaultAuditInterval
	}
	return &IntegrityAuditWorker{
		verifier: verifier,
		interval: interval,
		logger:   logger,
		onReport: onReport,
	}
}

// Run audits once right away and then on every tick until ctx is cancelled.
// A failed pass is logged and retried on the next tick.
func (w *IntegrityAuditWorker) Run(ctx context.Context) error {
	w.logger.Info().
		Str("func", "IntegrityAuditWorker.Run").
		Dur("interval", w.interval).
		Msg("integrity audit started")

	w.audit(ctx)

	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("func", "IntegrityAuditWorker.Run").Msg("integrity audit stopped")
			return nil
		case <-t.C:
			w.audit(ctx)
		}
	}
}

func (w *IntegrityAuditWorker) audit(ctx context.Context) {
	report, err := w.verifier.Verify(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Err(err).Str("func", "IntegrityAuditWorker.audit").Msg("integrity audit failed")
		}
		return
	}

	for _, item := range report.Unreadable {
		w.logger.Warn().
			Str("func", "IntegrityAuditWorker.audit").
			Str("id", item.ID).
			Str("title", item.Title).
			Msg("vault item is unreadable")
	}
	w.logger.Debug().
		Str("func", "IntegrityAuditWorker.audit").
		Int("checked", report.Checked).
		Int("unreadable", len(report.Unreadable)).
		Msg("integrity audit finished")

	if w.onReport != nil {
		w.onReport(report)
	}
}

// internal/core/services/migration.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// Migration phases, run in this order.
const (
	PhaseInventory = "inventory"
	PhaseRequests  = "requests"
)

const maxReportedFailures = 20

// MigrationService copies inventory items and item requests from a source
// store into a destination backend, one record at a time.
type MigrationService struct {
	source     ports.MigrationSource
	sourceName string
	dest       ports.BackendAdapter
	logger     *slog.Logger
}

// NewMigrationService creates the migration utility
func NewMigrationService(source ports.MigrationSource, sourceName string, dest ports.BackendAdapter, logger *slog.Logger) *MigrationService {
	return &MigrationService{
		source:     source,
		sourceName: sourceName,
		dest:       dest,
		logger:     logger.With(slog.String("service", "migration")),
	}
}

// Run migrates inventory then requests. Record failures are tallied and never
// abort a phase; a phase whose source cannot be read is reported and the run
// continues. The returned error joins source read failures and cancellation.
func (s *MigrationService) Run(ctx context.Context) (*MigrationReport, error) {
	report := &MigrationReport{
		Source:      s.sourceName,
		Destination: s.dest.Name(),
		StartedAt:   time.Now().UTC(),
	}
	s.logger.InfoContext(ctx, "migration started",
		slog.String("source", report.Source),
		slog.String("destination", report.Destination))

	var errs []error
	for _, run := range []func(context.Context) (PhaseReport, error){s.migrateInventory, s.migrateRequests} {
		phase, err := run(ctx)
		if err != nil {
			phase.Error = err.Error()
			errs = append(errs, fmt.Errorf("%s phase: %w", phase.Phase, err))
		}
		report.Phases = append(report.Phases, phase)

		s.logger.InfoContext(ctx, "migration phase finished",
			slog.String("phase", phase.Phase),
			slog.String("summary", fmt.Sprintf("%d/%d", phase.Migrated, phase.Total)),
			slog.Int("failed", phase.Failed))

		if ctx.Err() != nil {
			break
		}
	}

	report.Duration = time.Since(report.StartedAt)
	return report, errors.Join(errs...)
}

func (s *MigrationService) migrateInventory(ctx context.Context) (PhaseReport, error) {
	phase := PhaseReport{Phase: PhaseInventory}
	records, err := s.source.InventorySource(ctx)
	if err != nil {
		return phase, err
	}
	phase.Total = len(records)

	importer, canImport := s.dest.(ports.RecordImporter)
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return phase, err
		}

		item, err := rec.ToDomain()
		if err == nil {
			if canImport {
				_, err = importer.ImportInventoryItem(ctx, item)
			} else {
				_, err = s.dest.CreateInventoryItem(ctx, item)
			}
		}
		if err != nil {
			phase.fail(rec.SourceID(), err)
			s.logger.WarnContext(ctx, "inventory item not migrated",
				slog.String("source_id", rec.SourceID()),
				slog.String("error", err.Error()))
			continue
		}
		phase.Migrated++
	}
	return phase, nil
}

func (s *MigrationService) migrateRequests(ctx context.Context) (PhaseReport, error) {
	phase := PhaseReport{Phase: PhaseRequests}
	records, err := s.source.RequestSource(ctx)
	if err != nil {
		return phase, err
	}
	phase.Total = len(records)

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return phase, err
		}

		req, err := rec.ToDomain()
		if err == nil {
			err = s.writeRequest(ctx, req)
		}
		if err != nil {
			phase.fail(rec.SourceID(), err)
			s.logger.WarnContext(ctx, "item request not migrated",
				slog.String("source_id", rec.SourceID()),
				slog.String("error", err.Error()))
			continue
		}
		phase.Migrated++
	}
	return phase, nil
}

// writeRequest keeps the source status. Destinations that cannot import
// verbatim get a create followed by a status update.
func (s *MigrationService) writeRequest(ctx context.Context, req domain.ItemRequest) error {
	if importer, ok := s.dest.(ports.RecordImporter); ok {
		_, err := importer.ImportItemRequest(ctx, req)
		return err
	}

	created, err := s.dest.CreateItemRequest(ctx, req)
	if err != nil {
		return err
	}
	if req.Status == domain.RequestPending || req.Status == "" {
		return nil
	}
	if _, err := s.dest.UpdateItemRequestStatus(ctx, created.ID, req.Status); err != nil {
		return fmt.Errorf("created as %s but status not restored: %w", created.ID, err)
	}
	return nil
}

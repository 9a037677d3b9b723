package registrations

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/internal/auditlog"
	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox/payloads"
)

// importDateLayouts are the accepted installation date formats, most
// specific first.
var importDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02-01-2006",
}

// ImportRowResult reports the outcome of one CSV row.
type ImportRowResult struct {
	Row            int        `json:"row"`
	RegistrationID *uuid.UUID `json:"registration_id,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// ImportSummary aggregates a full import run.
type ImportSummary struct {
	Total    int               `json:"total"`
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Results  []ImportRowResult `json:"results"`
}

// Importer ingests legacy registration exports. Rows land unlinked
// (no installer uid) with source "import" until an admin claims them.
type Importer struct {
	tx      Transactor
	repo    Repository
	outbox  OutboxEmitter
	audit   auditlog.Service
	watcher *Watcher
	cfg     config.ImportConfig
	logg    *logger.Logger
}

// NewImporter wires the bulk importer.
func NewImporter(tx Transactor, repo Repository, emitter OutboxEmitter, audit auditlog.Service, watcher *Watcher, cfg config.ImportConfig, logg *logger.Logger) (*Importer, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if repo == nil {
		return nil, fmt.Errorf("registrations repository required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	return &Importer{tx: tx, repo: repo, outbox: emitter, audit: audit, watcher: watcher, cfg: cfg, logg: logg}, nil
}

// ParseCSV reads an export file into row DTOs. The first record must be the
// header row.
func ParseCSV(r io.Reader) ([]CreateRegistrationDTO, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "import file has no header row")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"installer_email", "installer_name", "customer_name", "customer_address", "product_brand", "product_model", "product_serial_number"} {
		if _, ok := index[required]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("import file misses column %q", required))
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	optional := func(record []string, name string) *string {
		v := field(record, name)
		if v == "" {
			return nil
		}
		return &v
	}

	var rows []CreateRegistrationDTO
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed import row")
		}

		dto := CreateRegistrationDTO{
			InstallerEmail:      field(record, "installer_email"),
			InstallerName:       field(record, "installer_name"),
			InstallerCompany:    optional(record, "installer_company"),
			CustomerName:        field(record, "customer_name"),
			CustomerAddress:     field(record, "customer_address"),
			CustomerCity:        optional(record, "customer_city"),
			CustomerZipcode:     optional(record, "customer_zipcode"),
			CustomerEmail:       optional(record, "customer_email"),
			CustomerPhone:       optional(record, "customer_phone"),
			ProductBrand:        field(record, "product_brand"),
			ProductModel:        field(record, "product_model"),
			ProductSerialNumber: field(record, "product_serial_number"),
			Source:              enums.RegistrationSourceImport,
		}
		if raw := field(record, "product_installation_date"); raw != "" {
			if parsed, ok := parseImportDate(raw); ok {
				dto.ProductInstallationDate = &parsed
			}
		}
		rows = append(rows, dto)
	}
	return rows, nil
}

func parseImportDate(raw string) (time.Time, bool) {
	for _, layout := range importDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Import stores the rows in batches. Rows inside a batch run concurrently
// with all-settled semantics: a failing row never aborts its siblings, and
// the summary carries every per-row outcome plus an aggregate error.
func (imp *Importer) Import(ctx context.Context, rows []CreateRegistrationDTO, actor AdminActor) (*ImportSummary, error) {
	summary := &ImportSummary{
		Total:   len(rows),
		Results: make([]ImportRowResult, len(rows)),
	}

	var mu sync.Mutex
	var aggregate error

	for start := 0; start < len(rows); start += imp.cfg.BatchSize {
		end := start + imp.cfg.BatchSize
		if end > len(rows) {
			end = len(rows)
		}

		group, groupCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			row := rows[i]
			rowIdx := i
			group.Go(func() error {
				id, err := imp.importRow(groupCtx, row)

				mu.Lock()
				defer mu.Unlock()
				result := ImportRowResult{Row: rowIdx + 1}
				if err != nil {
					result.Error = err.Error()
					summary.Failed++
					aggregate = multierr.Append(aggregate, fmt.Errorf("row %d: %w", rowIdx+1, err))
				} else {
					result.RegistrationID = &id
					summary.Imported++
				}
				summary.Results[rowIdx] = result
				// All-settled: row failures are collected, never returned.
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return summary, err
		}
	}

	if imp.audit != nil && actor.UID != uuid.Nil {
		imp.audit.Record(ctx, auditlog.RecordInput{
			Type:           enums.AdminActionRegistrationImport,
			Description:    fmt.Sprintf("%d van %d registraties geïmporteerd", summary.Imported, summary.Total),
			CollectionName: "registrations",
			AdminUID:       actor.UID,
			AdminEmail:     actor.Email,
		})
	}

	if imp.watcher != nil && summary.Imported > 0 {
		imp.watcher.Refresh(ctx)
	}
	return summary, aggregate
}

func (imp *Importer) importRow(ctx context.Context, dto CreateRegistrationDTO) (uuid.UUID, error) {
	if dto.InstallerEmail == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "installer email is required")
	}
	if dto.ProductSerialNumber == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "serial number is required")
	}

	dto.InstallerUID = nil
	dto.Source = enums.RegistrationSourceImport
	reg := dto.ToModel()

	err := imp.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := imp.repo.WithTx(tx).Create(ctx, reg); err != nil {
			return err
		}
		return imp.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRegistrationImported,
			AggregateType: enums.AggregateRegistration,
			AggregateID:   reg.ID,
			Version:       1,
			Data: payloads.RegistrationImportedEvent{
				RegistrationID: reg.ID,
				SerialNumber:   reg.ProductSerialNumber,
			},
		})
	})
	if err != nil {
		return uuid.Nil, err
	}
	return reg.ID, nil
}

// Package ledger records income and expense entries, the only input of the
// financial statistics.
package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"society-billing-backend/internal/logger"
	"society-billing-backend/internal/models"
	"society-billing-backend/internal/money"
	"society-billing-backend/internal/repository"
)

var (
	ErrInvalidType   = errors.New("type must be \"income\" or \"expense\"")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrMissingDate   = errors.New("date is required")
	ErrNotFound      = errors.New("ledger entry not found")
)

var dateLayouts = []string{"2006-01-02", "02-01-2006", time.RFC3339}

type Service struct {
	entries *repository.LedgerRepository
	loc     *time.Location
	log     zerolog.Logger
}

// NewService builds the ledger service. Date-only input is read as a civil
// date in loc, the society's time zone.
func NewService(entries *repository.LedgerRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{entries: entries, loc: loc, log: logger.WithComponent("ledger")}
}

type NewEntry struct {
	Type        models.LedgerType
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	MemberID    *uuid.UUID
	CreatedBy   string
}

func (in NewEntry) validate() (*models.LedgerEntry, error) {
	t := models.LedgerType(strings.ToLower(strings.TrimSpace(string(in.Type))))
	if !t.Valid() {
		return nil, ErrInvalidType
	}
	amount := money.Round(in.Amount)
	if !money.Positive(amount) {
		return nil, ErrInvalidAmount
	}
	if in.Date.IsZero() {
		return nil, ErrMissingDate
	}
	return &models.LedgerEntry{
		ID:          uuid.New(),
		Type:        t,
		Amount:      amount,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date.UTC(),
		MemberID:    in.MemberID,
		CreatedBy:   in.CreatedBy,
	}, nil
}

// Record appends one entry.
func (s *Service) Record(ctx context.Context, in NewEntry) (*models.LedgerEntry, error) {
	e, err := in.validate()
	if err != nil {
		return nil, err
	}
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.entries.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) List(ctx context.Context, f repository.LedgerFilter) ([]models.LedgerEntry, error) {
	return s.entries.List(ctx, f)
}

type ImportResult struct {
	Inserted int
	Skipped  int
	Problems []string
}

// ImportCSV reads rows of date,type,amount,description[,member_id] after a
// header line. Bad rows are skipped and reported; good rows are inserted
// together.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, createdBy string) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}

	result := &ImportResult{}
	var batch []models.LedgerEntry

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				result.skip(perr.Line, perr.Err.Error())
			} else {
				result.skip(0, err.Error())
			}
			continue
		}
		if strings.Join(record, "") == "" {
			continue
		}
		line, _ := reader.FieldPos(0)

		entry, reason := s.parseRow(record, createdBy)
		if reason != "" {
			result.skip(line, reason)
			continue
		}
		batch = append(batch, *entry)
	}

	if err := s.entries.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to insert ledger entries: %w", err)
	}
	result.Inserted = len(batch)

	s.log.Info().Int("inserted", result.Inserted).Int("skipped", result.Skipped).Msg("ledger CSV imported")
	return result, nil
}

func (r *ImportResult) skip(row int, reason string) {
	r.Skipped++
	r.Problems = append(r.Problems, fmt.Sprintf("row %d: %s", row, reason))
}

func (s *Service) parseRow(record []string, createdBy string) (*models.LedgerEntry, string) {
	if len(record) < 4 {
		return nil, "insufficient columns"
	}

	date, err := s.ParseDate(record[0])
	if err != nil {
		return nil, fmt.Sprintf("invalid date %q", record[0])
	}
	amount, err := money.Parse(record[2])
	if err != nil {
		return nil, fmt.Sprintf("invalid amount %q", record[2])
	}

	in := NewEntry{
		Type:        models.LedgerType(record[1]),
		Amount:      amount,
		Description: record[3],
		Date:        date,
		CreatedBy:   createdBy,
	}
	if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
		id, err := uuid.Parse(strings.TrimSpace(record[4]))
		if err != nil {
			return nil, fmt.Sprintf("invalid member id %q", record[4])
		}
		in.MemberID = &id
	}

	e, err := in.validate()
	if err != nil {
		return nil, err.Error()
	}
	return e, ""
}

// ParseDate reads YYYY-MM-DD, DD-MM-YYYY or RFC 3339.
func (s *Service) ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, value, s.loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

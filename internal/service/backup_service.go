package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
)

// BackupArchiver stores an exported backup document somewhere durable and
// returns where it went.
type BackupArchiver interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
}

type BackupService interface {
	Export(ctx context.Context) dto.BackupDocument
	// ExportFile renders the export document as indented JSON with its download name.
	ExportFile(ctx context.Context) (filename string, data []byte, err error)
	// Import replaces products, transactions and the store profile wholesale.
	// It is refused unless confirmed is true.
	Import(ctx context.Context, raw []byte, confirmed bool) error
	Archive(ctx context.Context) (*dto.ArchiveResponse, error)
}

type backupService struct {
	state    *State
	archiver BackupArchiver
	loc      *time.Location
	now      func() time.Time
}

func NewBackupService(state *State, archiver BackupArchiver, loc *time.Location) BackupService {
	if loc == nil {
		loc = time.Local
	}
	return &backupService{state: state, archiver: archiver, loc: loc, now: time.Now}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// BackupFilename is "<store-name-with-dashes>-Backup-<YYYY-MM-DD>.json".
func BackupFilename(storeName string, date time.Time) string {
	return fmt.Sprintf("%s-Backup-%s.json", whitespaceRun.ReplaceAllString(storeName, "-"), date.Format("2006-01-02"))
}

func (s *backupService) Export(_ context.Context) dto.BackupDocument {
	doc := dto.BackupDocument{
		ExportDate: s.now().UTC(),
		Version:    dto.BackupVersion,
	}
	s.state.read(func(snap *repository.Snapshot) {
		c := snap.Clone()
		doc.Products = c.Products
		doc.Transactions = c.Transactions
		doc.StoreProfile = c.Profile
	})
	return doc
}

func (s *backupService) ExportFile(ctx context.Context) (string, []byte, error) {
	doc := s.Export(ctx)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("encode backup: %w", err)
	}
	return BackupFilename(doc.StoreProfile.Name, doc.ExportDate.In(s.loc)), data, nil
}

// parseBackup checks only that the three sections are present and decode.
// The version field and nested shapes are not validated.
func parseBackup(raw []byte) (*dto.BackupDocument, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	for _, name := range []string{"products", "transactions", "storeProfile"} {
		section, ok := sections[name]
		if !ok || len(section) == 0 || bytes.Equal(bytes.TrimSpace(section), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidBackup, name)
		}
	}

	doc := &dto.BackupDocument{}
	if err := json.Unmarshal(sections["products"], &doc.Products); err != nil {
		return nil, fmt.Errorf("%w: products: %v", ErrInvalidBackup, err)
	}
	if err := json.Unmarshal(sections["transactions"], &doc.Transactions); err != nil {
		return nil, fmt.Errorf("%w: transactions: %v", ErrInvalidBackup, err)
	}
	if err := json.Unmarshal(sections["storeProfile"], &doc.StoreProfile); err != nil {
		return nil, fmt.Errorf("%w: storeProfile: %v", ErrInvalidBackup, err)
	}
	return doc, nil
}

func (s *backupService) Import(ctx context.Context, raw []byte, confirmed bool) error {
	doc, err := parseBackup(raw)
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	err = s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		next.Products = append([]model.Product{}, doc.Products...)
		next.Transactions = append([]model.Transaction{}, doc.Transactions...)
		next.Profile = doc.StoreProfile
		return []repository.Key{repository.KeyProducts, repository.KeyTransactions, repository.KeyStoreProfile}, nil
	})
	if err != nil {
		return err
	}
	log.Warn().
		Int("products", len(doc.Products)).
		Int("transactions", len(doc.Transactions)).
		Msg("backup imported, previous data replaced")
	return nil
}

func (s *backupService) Archive(ctx context.Context) (*dto.ArchiveResponse, error) {
	if s.archiver == nil {
		return nil, fmt.Errorf("backup archive is not configured")
	}
	filename, data, err := s.ExportFile(ctx)
	if err != nil {
		return nil, err
	}
	location, err := s.archiver.Store(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("archive backup: %w", err)
	}
	log.Info().Str("location", location).Int("bytes", len(data)).Msg("backup archived")
	return &dto.ArchiveResponse{Filename: filename, Location: location, Size: len(data)}, nil
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/pkg/metrics"
	"github.com/vermy/vermy/internal/pkg/objectstore"
)

// CollectionStore is the bulk access a backup needs for one collection
type CollectionStore[T any] interface {
	All(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, rec *T) error
	DeleteAll(ctx context.Context) error
}

// BackupStores groups the collection stores a backup reads and writes
type BackupStores struct {
	Properties         CollectionStore[domain.Property]
	Tenants            CollectionStore[domain.Tenant]
	Leases             CollectionStore[domain.Lease]
	Bookings           CollectionStore[domain.Booking]
	UtilityStatements  CollectionStore[domain.UtilityStatement]
	MaintenanceTickets CollectionStore[domain.MaintenanceTicket]
	DunningNotices     CollectionStore[domain.DunningNotice]
	Documents          CollectionStore[domain.Document]
}

// DocumentInliner embeds externally stored document content
type DocumentInliner interface {
	Inline(ctx context.Context, d domain.Document) (domain.Document, error)
}

// BackupArchive keeps exported bundles
type BackupArchive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]objectstore.Object, error)
}

// BackupService exports and restores the complete dataset
type BackupService struct {
	stores      BackupStores
	tx          Transactor
	inliner     DocumentInliner
	archive     BackupArchive
	prefix      string
	afterImport func(ctx context.Context)
	now         func() time.Time
}

// NewBackupService creates a new backup service. inliner and archive may be nil.
func NewBackupService(stores BackupStores, tx Transactor, inliner DocumentInliner, archive BackupArchive, prefix string) *BackupService {
	if prefix == "" {
		prefix = "backups/"
	}
	return &BackupService{
		stores:  stores,
		tx:      tx,
		inliner: inliner,
		archive: archive,
		prefix:  prefix,
		now:     nowUTC,
	}
}

// OnImport registers fn to run after every successful import
func (s *BackupService) OnImport(fn func(ctx context.Context)) {
	s.afterImport = fn
}

// Export reads every record of every collection, soft deleted ones included
func (s *BackupService) Export(ctx context.Context) (*domain.BackupBundle, error) {
	bundle := &domain.BackupBundle{
		Meta: domain.BackupMeta{
			App:        domain.BackupApp,
			Version:    domain.BackupVersion,
			ExportedAt: s.now(),
		},
	}

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		d := &bundle.Data
		var err error
		if d.Properties, err = readAll(ctx, domain.CollectionProperties, s.stores.Properties); err != nil {
			return err
		}
		if d.Tenants, err = readAll(ctx, domain.CollectionTenants, s.stores.Tenants); err != nil {
			return err
		}
		if d.Leases, err = readAll(ctx, domain.CollectionLeases, s.stores.Leases); err != nil {
			return err
		}
		if d.Bookings, err = readAll(ctx, domain.CollectionBookings, s.stores.Bookings); err != nil {
			return err
		}
		if d.UtilityStatements, err = readAll(ctx, domain.CollectionUtilityStatements, s.stores.UtilityStatements); err != nil {
			return err
		}
		if d.MaintenanceTickets, err = readAll(ctx, domain.CollectionMaintenanceTickets, s.stores.MaintenanceTickets); err != nil {
			return err
		}
		if d.DunningNotices, err = readAll(ctx, domain.CollectionDunningNotices, s.stores.DunningNotices); err != nil {
			return err
		}
		d.Documents, err = readAll(ctx, domain.CollectionDocuments, s.stores.Documents)
		return err
	})
	if err != nil {
		metrics.RecordBackup("export", err, nil)
		return nil, err
	}

	s.inlineDocuments(ctx, bundle.Data.Documents)

	counts := bundle.Data.Counts()
	metrics.RecordBackup("export", nil, counts)
	logger.Info("backup exported", zap.Any("counts", counts))
	return bundle, nil
}

// Import replaces the whole dataset with the bundle inside one transaction.
// Rows are deleted children first and inserted parents first; any failure
// leaves the previous data untouched.
func (s *BackupService) Import(ctx context.Context, bundle *domain.BackupBundle) (*domain.ImportResult, error) {
	if err := validateBundle(bundle); err != nil {
		return nil, err
	}

	properties, err := parentsFirst(bundle.Data.Properties)
	if err != nil {
		return nil, err
	}

	documents := make([]domain.Document, len(bundle.Data.Documents))
	for i, d := range bundle.Data.Documents {
		// inline content wins over a key that may not exist in this store
		if d.ContentBase64 != "" {
			d.StorageKey = ""
		}
		documents[i] = d
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		for _, clear := range []struct {
			name string
			fn   func(context.Context) error
		}{
			{domain.CollectionDocuments, s.stores.Documents.DeleteAll},
			{domain.CollectionDunningNotices, s.stores.DunningNotices.DeleteAll},
			{domain.CollectionMaintenanceTickets, s.stores.MaintenanceTickets.DeleteAll},
			{domain.CollectionUtilityStatements, s.stores.UtilityStatements.DeleteAll},
			{domain.CollectionBookings, s.stores.Bookings.DeleteAll},
			{domain.CollectionLeases, s.stores.Leases.DeleteAll},
			{domain.CollectionTenants, s.stores.Tenants.DeleteAll},
			{domain.CollectionProperties, s.stores.Properties.DeleteAll},
		} {
			if err := clear.fn(ctx); err != nil {
				return fmt.Errorf("failed to clear %s: %w", clear.name, err)
			}
		}

		if err := insertAll(ctx, domain.CollectionProperties, s.stores.Properties, properties); err != nil {
			return err
		}
		if err := insertAll(ctx, domain.CollectionTenants, s.stores.Tenants, bundle.Data.Tenants); err != nil {
			return err
		}
		if err := insertAll(ctx, domain.CollectionLeases, s.stores.Leases, bundle.Data.Leases); err != nil {
			return err
		}
		if err := insertAll(ctx, domain.CollectionBookings, s.stores.Bookings, bundle.Data.Bookings); err != nil {
			return err
		}
		if err := insertAll(ctx, domain.CollectionUtilityStatements, s.stores.UtilityStatements, bundle.Data.UtilityStatements); err != nil {
			return err
		}
		if err := insertAll(ctx, domain.CollectionMaintenanceTickets, s.stores.MaintenanceTickets, bundle.Data.MaintenanceTickets); err != nil {
			return err
		}
		if err := insertAll(ctx, domain.CollectionDunningNotices, s.stores.DunningNotices, bundle.Data.DunningNotices); err != nil {
			return err
		}
		return insertAll(ctx, domain.CollectionDocuments, s.stores.Documents, documents)
	})

	counts := bundle.Data.Counts()
	metrics.RecordBackup("import", err, counts)
	if err != nil {
		logger.Error("backup import failed", zap.Error(err))
		return nil, err
	}

	logger.Info("backup imported",
		zap.Time("exported_at", bundle.Meta.ExportedAt),
		zap.Any("counts", counts),
	)
	if s.afterImport != nil {
		s.afterImport(ctx)
	}
	return &domain.ImportResult{Counts: counts, ImportedAt: s.now()}, nil
}

// Archive exports the dataset and stores the bundle in the object store
func (s *BackupService) Archive(ctx context.Context) (*domain.BackupFile, error) {
	if s.archive == nil {
		return nil, apperrors.Unavailable("object store")
	}

	bundle, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	data, err := EncodeBundle(bundle)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%svermy-%s.json", s.prefix, bundle.Meta.ExportedAt.Format("20060102T150405Z"))
	if err := s.archive.Put(ctx, key, data, "application/json"); err != nil {
		return nil, fmt.Errorf("failed to upload backup: %w", err)
	}

	logger.Info("backup archived", zap.String("key", key), zap.Int("size_bytes", len(data)))
	return &domain.BackupFile{Key: key, Size: int64(len(data)), LastModified: bundle.Meta.ExportedAt}, nil
}

// Files lists archived bundles, newest first
func (s *BackupService) Files(ctx context.Context) ([]domain.BackupFile, error) {
	if s.archive == nil {
		return nil, apperrors.Unavailable("object store")
	}
	objects, err := s.archive.List(ctx, s.prefix)
	if err != nil {
		return nil, err
	}
	files := make([]domain.BackupFile, 0, len(objects))
	for _, o := range objects {
		if !strings.HasSuffix(o.Key, ".json") {
			continue
		}
		files = append(files, domain.BackupFile{Key: o.Key, Size: o.Size, LastModified: o.LastModified})
	}
	return files, nil
}

// ImportFile restores an archived bundle
func (s *BackupService) ImportFile(ctx context.Context, key string) (*domain.ImportResult, error) {
	if s.archive == nil {
		return nil, apperrors.Unavailable("object store")
	}
	if !strings.HasPrefix(key, s.prefix) {
		return nil, apperrors.BadRequest("key is not a backup file")
	}
	data, err := s.archive.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	bundle, err := DecodeBundle(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, bundle)
}

// Prune deletes all but the newest keep archived bundles and returns how
// many were removed.
func (s *BackupService) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	files, err := s.Files(ctx)
	if err != nil {
		return 0, err
	}
	if len(files) <= keep {
		return 0, nil
	}

	removed := 0
	for _, f := range files[keep:] {
		if err := s.archive.Delete(ctx, f.Key); err != nil {
			return removed, fmt.Errorf("failed to delete backup %s: %w", f.Key, err)
		}
		removed++
	}
	logger.Info("pruned old backups", zap.Int("removed", removed), zap.Int("kept", keep))
	return removed, nil
}

func (s *BackupService) inlineDocuments(ctx context.Context, docs []domain.Document) {
	if s.inliner == nil {
		return
	}
	for i := range docs {
		inlined, err := s.inliner.Inline(ctx, docs[i])
		if err != nil {
			logger.Warn("document content left out of backup",
				zap.String("document_id", docs[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		docs[i] = inlined
	}
}

// EncodeBundle renders a bundle as indented JSON
func EncodeBundle(bundle *domain.BackupBundle) ([]byte, error) {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// DecodeBundle parses a bundle, rejecting malformed JSON
func DecodeBundle(r io.Reader) (*domain.BackupBundle, error) {
	var bundle domain.BackupBundle
	dec := json.NewDecoder(r)
	if err := dec.Decode(&bundle); err != nil {
		return nil, apperrors.Validation("backup file is not valid JSON").WithError(err)
	}
	return &bundle, nil
}

func validateBundle(bundle *domain.BackupBundle) error {
	if bundle == nil {
		return apperrors.Validation("backup bundle is empty")
	}
	if bundle.Meta.App != domain.BackupApp {
		return apperrors.Validation(fmt.Sprintf("backup was not produced by %s (app %q)", domain.BackupApp, bundle.Meta.App))
	}
	if bundle.Meta.Version < 1 || bundle.Meta.Version > domain.BackupVersion {
		return apperrors.Validation(fmt.Sprintf("unsupported backup version %d", bundle.Meta.Version))
	}
	return nil
}

// parentsFirst orders properties so every parent precedes its units
func parentsFirst(props []domain.Property) ([]domain.Property, error) {
	ids := make(map[uuid.UUID]bool, len(props))
	for _, p := range props {
		if ids[p.ID] {
			return nil, apperrors.Validation(fmt.Sprintf("duplicate property id %s in backup", p.ID))
		}
		ids[p.ID] = true
	}

	out := make([]domain.Property, 0, len(props))
	placed := make(map[uuid.UUID]bool, len(props))
	pending := props
	for len(pending) > 0 {
		var next []domain.Property
		for _, p := range pending {
			if p.ParentID == nil || placed[*p.ParentID] {
				out = append(out, p)
				placed[p.ID] = true
				continue
			}
			if !ids[*p.ParentID] {
				return nil, apperrors.Validation(fmt.Sprintf("property %s references missing parent %s", p.ID, *p.ParentID))
			}
			next = append(next, p)
		}
		if len(next) == len(pending) {
			return nil, apperrors.Validation("properties in backup form a parent cycle")
		}
		pending = next
	}
	return out, nil
}

func readAll[T any](ctx context.Context, name string, store CollectionStore[T]) ([]T, error) {
	rows, err := store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", name, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func insertAll[T any](ctx context.Context, name string, store CollectionStore[T], rows []T) error {
	for i := range rows {
		if err := store.Insert(ctx, &rows[i]); err != nil {
			return fmt.Errorf("failed to restore %s record %d: %w", name, i, err)
		}
	}
	return nil
}

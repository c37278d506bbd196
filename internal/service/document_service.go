package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/validator"
)

// DocumentRepository defines document repository operations
type DocumentRepository interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Update(ctx context.Context, d *domain.Document) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *domain.DocumentFilter) ([]domain.Document, int64, error)
}

// BlobStore keeps binary content outside the database
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// DocumentService handles document metadata and content. Without a blob
// store content is kept inline as base64.
type DocumentService struct {
	repo       DocumentRepository
	properties PropertyReader
	tenants    TenantReader
	leases     LeaseReader
	blobs      BlobStore
	tx         Transactor
}

// NewDocumentService creates a new document service. blobs may be nil.
func NewDocumentService(repo DocumentRepository, properties PropertyReader, tenants TenantReader, leases LeaseReader, blobs BlobStore, tx Transactor) *DocumentService {
	return &DocumentService{
		repo:       repo,
		properties: properties,
		tenants:    tenants,
		leases:     leases,
		blobs:      blobs,
		tx:         tx,
	}
}

// Create stores a document and its optional content
func (s *DocumentService) Create(ctx context.Context, input *domain.DocumentInput) (*domain.Document, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	d := &domain.Document{}
	d.ID = uuid.New()
	input.Apply(d)

	uploaded, err := s.attach(ctx, d, input.ContentBase64)
	if err != nil {
		return nil, err
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, d); err != nil {
			return err
		}
		return s.repo.Create(ctx, d)
	})
	if err != nil {
		s.discard(ctx, uploaded)
		return nil, err
	}

	logger.WithRecord(domain.CollectionDocuments, d.ID.String()).Info("document stored",
		zap.Int64("size_bytes", d.SizeBytes),
		zap.Bool("object_store", d.StorageKey != ""),
	)
	return d, nil
}

// Get retrieves a document by ID
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists documents without their inline content
func (s *DocumentService) List(ctx context.Context, filter *domain.DocumentFilter) (*domain.ListResult[domain.Document], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ContentBase64 = ""
	}
	return domain.NewListResult(items, total, filter.ListOptions.Normalized()), nil
}

// Update replaces the metadata and, when new content is given, the file
func (s *DocumentService) Update(ctx context.Context, id uuid.UUID, input *domain.DocumentInput) (*domain.Document, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	var (
		d        *domain.Document
		uploaded string
		previous string
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		d, err = loadForUpdate[domain.Document](ctx, "document", id, input.Version, s.repo.GetByID)
		if err != nil {
			return err
		}

		input.Apply(d)
		if input.ContentBase64 != "" {
			previous = d.StorageKey
			d.StorageKey, d.ContentBase64 = "", ""
			if uploaded, err = s.attach(ctx, d, input.ContentBase64); err != nil {
				return err
			}
		}

		if err := s.validate(ctx, d); err != nil {
			return err
		}
		return s.repo.Update(ctx, d)
	})
	if err != nil {
		s.discard(ctx, uploaded)
		return nil, err
	}

	if previous != "" && previous != d.StorageKey {
		s.discard(ctx, previous)
	}
	return d, nil
}

// Delete soft deletes a document. Stored content is kept so it can be restored.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Restore undoes a soft delete
func (s *DocumentService) Restore(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return restoreLive[domain.Document](ctx, s.tx, "document", id, s.repo.GetByID, s.repo.Restore, s.validate)
}

// Content returns the file of a document
func (s *DocumentService) Content(ctx context.Context, id uuid.UUID) (*domain.DocumentContent, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.load(ctx, d)
	if err != nil {
		return nil, err
	}

	name := d.FileName
	if name == "" {
		name = d.ID.String()
	}
	mimeType := d.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return &domain.DocumentContent{FileName: name, MimeType: mimeType, Data: data}, nil
}

// Inline returns d with its content embedded as base64. Backups use it so a
// bundle is complete without access to the object store.
func (s *DocumentService) Inline(ctx context.Context, d domain.Document) (domain.Document, error) {
	if d.StorageKey == "" || d.ContentBase64 != "" {
		return d, nil
	}
	data, err := s.load(ctx, &d)
	if err != nil {
		return d, err
	}
	d.ContentBase64 = base64.StdEncoding.EncodeToString(data)
	return d, nil
}

func (s *DocumentService) load(ctx context.Context, d *domain.Document) ([]byte, error) {
	if !d.HasContent() {
		return nil, apperrors.NotFound("document content")
	}
	if d.StorageKey != "" {
		if s.blobs == nil {
			return nil, apperrors.Unavailable("object store")
		}
		return s.blobs.Get(ctx, d.StorageKey)
	}
	data, err := base64.StdEncoding.DecodeString(d.ContentBase64)
	if err != nil {
		return nil, fmt.Errorf("stored document content is corrupt: %w", err)
	}
	return data, nil
}

// attach decodes content and stores it, returning the object key written
func (s *DocumentService) attach(ctx context.Context, d *domain.Document, content string) (string, error) {
	if content == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", apperrors.Validation("contentBase64 is not valid base64").WithDetail("contentBase64", "must be base64 encoded")
	}

	d.SizeBytes = int64(len(data))
	if d.MimeType == "" {
		d.MimeType = http.DetectContentType(data)
	}

	if s.blobs == nil {
		d.ContentBase64 = content
		return "", nil
	}

	key := documentKey(d.ID, d.FileName)
	if err := s.blobs.Put(ctx, key, data, d.MimeType); err != nil {
		return "", err
	}
	d.StorageKey = key
	return key, nil
}

func (s *DocumentService) discard(ctx context.Context, key string) {
	if key == "" || s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		logger.Warn("failed to remove document content",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (s *DocumentService) validate(ctx context.Context, d *domain.Document) error {
	if err := liveOptionalRef[domain.Property](ctx, "property", d.PropertyID, s.properties.GetByID); err != nil {
		return err
	}
	if err := liveOptionalRef[domain.Tenant](ctx, "tenant", d.TenantID, s.tenants.GetByID); err != nil {
		return err
	}
	return liveOptionalRef[domain.Lease](ctx, "lease", d.LeaseID, s.leases.GetByID)
}

// documentKey builds the object key for a document file. Every upload gets a
// fresh key.
func documentKey(id uuid.UUID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "content"
	}
	return fmt.Sprintf("documents/%s/%s-%s", id, uuid.NewString()[:8], name)
}

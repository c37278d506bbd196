package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

type fakeBackups struct {
	bundle   *domain.BackupBundle
	imported *domain.BackupBundle
}

func (f *fakeBackups) Export(ctx context.Context) (*domain.BackupBundle, error) {
	return f.bundle, nil
}

func (f *fakeBackups) Import(ctx context.Context, bundle *domain.BackupBundle) (*domain.ImportResult, error) {
	f.imported = bundle
	return &domain.ImportResult{Counts: bundle.Data.Counts(), ImportedAt: time.Now().UTC()}, nil
}

func TestExportImportBundle(t *testing.T) {
	backups := &fakeBackups{bundle: &domain.BackupBundle{
		Meta: domain.BackupMeta{App: domain.BackupApp, Version: domain.BackupVersion, ExportedAt: time.Now().UTC()},
		Data: domain.BackupData{
			Properties: []domain.Property{{Designation: "House A"}},
			Tenants:    []domain.Tenant{{LastName: "Muster"}},
		},
	}}

	var buf bytes.Buffer
	_, err := exportBundle(context.Background(), backups, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"House A"`)

	result, err := importBundle(context.Background(), backups, &buf)
	require.NoError(t, err)
	require.NotNil(t, backups.imported)
	assert.Equal(t, "House A", backups.imported.Data.Properties[0].Designation)
	assert.Equal(t, 1, result.Counts["tenants"])
}

func TestImportBundle_RejectsGarbage(t *testing.T) {
	backups := &fakeBackups{}

	_, err := importBundle(context.Background(), backups, strings.NewReader("not a backup"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Nil(t, backups.imported)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "nothing", summarize(nil))
	assert.Equal(t, "3 leases, 2 properties", summarize(map[string]int{"properties": 2, "leases": 3}))
}

package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

func encoded(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestDocumentService_InlineContent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	flat := env.unit(t, "Wohnung", nil)

	d, err := env.documentService.Create(ctx, &domain.DocumentInput{
		PropertyID:    &flat.ID,
		Title:         "Übergabeprotokoll",
		Category:      domain.DocumentCategoryProtocol,
		FileName:      "protokoll.txt",
		ContentBase64: encoded("Zählerstand 1234"),
	})
	require.NoError(t, err)
	assert.True(t, d.HasContent())
	assert.Empty(t, d.StorageKey)
	assert.Equal(t, int64(len("Zählerstand 1234")), d.SizeBytes)
	assert.True(t, strings.HasPrefix(d.MimeType, "text/plain"))

	content, err := env.documentService.Content(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zählerstand 1234", string(content.Data))
	assert.Equal(t, "protokoll.txt", content.FileName)

	res, err := env.documentService.List(ctx, &domain.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Empty(t, res.Items[0].ContentBase64)
}

func TestDocumentService_ObjectStore(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	flat := env.unit(t, "Wohnung", nil)

	d, err := env.documentService.Create(ctx, &domain.DocumentInput{
		PropertyID:    &flat.ID,
		Title:         "Mietvertrag",
		Category:      domain.DocumentCategoryLease,
		FileName:      "../../etc/vertrag.pdf",
		MimeType:      "application/pdf",
		ContentBase64: encoded("%PDF-1.4 contract"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, d.StorageKey)
	assert.Empty(t, d.ContentBase64)
	assert.True(t, strings.HasPrefix(d.StorageKey, "documents/"+d.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(d.StorageKey, "-vertrag.pdf"))
	assert.Equal(t, 1, env.blobs.len())

	t.Run("content is read from the object store", func(t *testing.T) {
		content, err := env.documentService.Content(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 contract", string(content.Data))
		assert.Equal(t, "application/pdf", content.MimeType)
	})

	t.Run("new content replaces the old object", func(t *testing.T) {
		updated, err := env.documentService.Update(ctx, d.ID, &domain.DocumentInput{
			PropertyID:    &flat.ID,
			Title:         "Mietvertrag (unterschrieben)",
			Category:      domain.DocumentCategoryLease,
			FileName:      "vertrag.pdf",
			MimeType:      "application/pdf",
			ContentBase64: encoded("%PDF-1.4 signed"),
		})
		require.NoError(t, err)
		assert.NotEqual(t, d.StorageKey, updated.StorageKey)
		assert.Equal(t, 1, env.blobs.len())

		_, err = env.blobs.Get(ctx, d.StorageKey)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("metadata update keeps the content", func(t *testing.T) {
		current, err := env.documentService.Get(ctx, d.ID)
		require.NoError(t, err)

		updated, err := env.documentService.Update(ctx, d.ID, &domain.DocumentInput{
			PropertyID: &flat.ID,
			Title:      "Mietvertrag 2024",
			Category:   domain.DocumentCategoryLease,
			FileName:   "vertrag.pdf",
			MimeType:   "application/pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, current.StorageKey, updated.StorageKey)
	})

	t.Run("inline embeds the stored content", func(t *testing.T) {
		current, err := env.documentService.Get(ctx, d.ID)
		require.NoError(t, err)

		inlined, err := env.documentService.Inline(ctx, *current)
		require.NoError(t, err)
		assert.Equal(t, encoded("%PDF-1.4 signed"), inlined.ContentBase64)
	})
}

func TestDocumentService_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid base64", func(t *testing.T) {
		env := newTestEnv(t, true)
		_, err := env.documentService.Create(ctx, &domain.DocumentInput{
			Title:         "Kaputt",
			Category:      domain.DocumentCategoryOther,
			ContentBase64: "not base64!",
		})
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 0, env.blobs.len())
	})

	t.Run("discards the upload when the reference is invalid", func(t *testing.T) {
		env := newTestEnv(t, true)
		flat := env.unit(t, "Wohnung", nil)
		require.NoError(t, env.propertyService.Delete(ctx, flat.ID))

		_, err := env.documentService.Create(ctx, &domain.DocumentInput{
			PropertyID:    &flat.ID,
			Title:         "Foto",
			Category:      domain.DocumentCategoryPhoto,
			ContentBase64: encoded("jpeg"),
		})
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 0, env.blobs.len())
	})

	t.Run("document without content", func(t *testing.T) {
		env := newTestEnv(t, false)
		d, err := env.documentService.Create(ctx, &domain.DocumentInput{
			Title:    "Notiz",
			Category: domain.DocumentCategoryOther,
		})
		require.NoError(t, err)
		assert.False(t, d.HasContent())

		_, err = env.documentService.Content(ctx, d.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var attachmentTestColumns = []string{
	"id", "documento_id", "ordinal", "nome_arquivo", "content_type", "caminho_arquivo", "preview_key", "criado_em",
}

func TestAttachmentPostgres_FindByID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT (.+) FROM anexos WHERE id = ?").
			WithArgs("att-1").
			WillReturnRows(sqlmock.NewRows(attachmentTestColumns).
				AddRow("att-1", "doc-1", 0, "nf.pdf", "application/pdf", "anexos/att-1/nf.pdf", "previews/att-1", time.Now()))

		att, err := repo.FindByID(ctx, "att-1")

		assert.NoError(t, err)
		assert.Equal(t, "att-1", att.ID)
		assert.Equal(t, "nf.pdf", att.NomeArquivo)
		assert.Equal(t, "previews/att-1", *att.PreviewKey)
	})

	t.Run("not found", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT (.+) FROM anexos WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		att, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, att)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAttachmentPostgres_ListByDocument(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	dbMock.ExpectQuery("SELECT (.+) FROM anexos WHERE documento_id = (.+) ORDER BY ordinal ASC").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(attachmentTestColumns).
			AddRow("att-1", "doc-1", 0, "nf.pdf", "application/pdf", "anexos/att-1/nf.pdf", nil, time.Now()).
			AddRow("att-2", "doc-1", 1, "boleto.pdf", "application/pdf", "anexos/att-2/boleto.pdf", nil, time.Now()))

	items, err := repo.ListByDocument(ctx, "doc-1")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Ordinal)
	assert.Equal(t, 1, items[1].Ordinal)
	assert.Nil(t, items[0].PreviewKey)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAttachmentPostgres_SetPreviewKey(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		dbMock.ExpectExec("UPDATE anexos SET preview_key").
			WithArgs("att-1", "previews/att-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetPreviewKey(ctx, "att-1", "previews/att-1")

		assert.NoError(t, err)
	})

	t.Run("unknown attachment", func(t *testing.T) {
		dbMock.ExpectExec("UPDATE anexos SET preview_key").
			WithArgs("missing", "previews/missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetPreviewKey(ctx, "missing", "previews/missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"finbox/internal/model"
)

func TestHistoryPostgres_Append(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewHistoryPostgres(db)
	ctx := context.Background()
	usuario := "alice"
	ev := &model.HistoryEvent{
		ID:          "ev-1",
		DocumentoID: "doc-1",
		Evento:      model.EventConfirmed,
		Usuario:     &usuario,
		DataHora:    time.Now().UTC(),
	}

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("INSERT INTO historicos").
		WithArgs(ev.ID, ev.DocumentoID, "CONFIRMED", &usuario, ev.DataHora).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(7)))
	dbMock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)

	err = repo.Append(ctx, tx, ev)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), ev.Seq)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestHistoryPostgres_ListByDocument(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewHistoryPostgres(db)
	ctx := context.Background()
	t0 := time.Now().Add(-time.Hour)
	t1 := time.Now()

	t.Run("insertion order preserved", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT (.+) FROM historicos").
			WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "documento_id", "seq", "evento", "usuario", "data_hora"}).
				AddRow("ev-1", "doc-1", int64(1), "CREATED", nil, t0).
				AddRow("ev-2", "doc-1", int64(2), "CONFIRMED", "alice", t1))

		events, err := repo.ListByDocument(ctx, "doc-1")

		assert.NoError(t, err)
		assert.Len(t, events, 2)
		assert.Equal(t, model.EventCreated, events[0].Evento)
		assert.Nil(t, events[0].Usuario)
		assert.Equal(t, model.EventConfirmed, events[1].Evento)
		assert.Equal(t, "alice", *events[1].Usuario)
		assert.Less(t, events[0].Seq, events[1].Seq)
	})

	t.Run("no events", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT (.+) FROM historicos").
			WithArgs("doc-2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "documento_id", "seq", "evento", "usuario", "data_hora"}))

		events, err := repo.ListByDocument(ctx, "doc-2")

		assert.NoError(t, err)
		assert.Empty(t, events)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_emails",
		SQL: `CREATE TABLE IF NOT EXISTS emails (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  message_id          TEXT        NOT NULL UNIQUE,
  remetente           TEXT        NOT NULL,
  assunto             TEXT,
  corpo               TEXT,
  data_hora_email     TIMESTAMPTZ,
  link_email_original TEXT,
  criado_em           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documentos_financeiros",
		SQL: `CREATE TABLE IF NOT EXISTS documentos_financeiros (
  id               UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  email_id         UUID          REFERENCES emails (id),
  tipo             TEXT          NOT NULL CHECK (tipo IN ('invoice', 'receipt', 'other')),
  numero_documento TEXT,
  fornecedor       TEXT,
  cnpj             TEXT,
  valor            NUMERIC(12,2),
  status           TEXT          NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'CONFIRMED')),
  confirmado_em    TIMESTAMPTZ,
  confirmado_por   TEXT,
  criado_em        TIMESTAMPTZ   NOT NULL DEFAULT now(),
  CHECK ((status = 'CONFIRMED') = (confirmado_em IS NOT NULL))
);`,
	},
	{
		Name: "create_table_anexos",
		SQL: `CREATE TABLE IF NOT EXISTS anexos (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  documento_id    UUID        NOT NULL REFERENCES documentos_financeiros (id),
  ordinal         INT         NOT NULL CHECK (ordinal >= 0),
  nome_arquivo    TEXT        NOT NULL,
  content_type    TEXT        NOT NULL,
  caminho_arquivo TEXT        NOT NULL,
  preview_key     TEXT,
  criado_em       TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (documento_id, ordinal)
);`,
	},
	{
		Name: "create_table_historicos",
		SQL: `CREATE TABLE IF NOT EXISTS historicos (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  documento_id UUID        NOT NULL REFERENCES documentos_financeiros (id),
  seq          BIGSERIAL,
  evento       TEXT        NOT NULL,
  usuario      TEXT,
  data_hora    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documentos_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documentos_status ON documentos_financeiros (status);`,
	},
	{
		Name: "create_index_documentos_tipo",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documentos_tipo ON documentos_financeiros (tipo);`,
	},
	{
		Name: "create_index_documentos_criado_em",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documentos_criado_em ON documentos_financeiros (criado_em);`,
	},
	{
		Name: "create_index_anexos_documento_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_anexos_documento_id ON anexos (documento_id);`,
	},
	{
		Name: "create_index_historicos_documento_seq",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_historicos_documento_seq ON historicos (documento_id, seq);`,
	},
}

// EnsureMigrated checks if the 'documentos_financeiros' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documentos_financeiros') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}

// Package postgres persists presentation sessions in PostgreSQL. The store is
// pure I/O: state transition rules live in the domain layer, and the
// compare-and-swap contract is enforced with a conditional UPDATE on the
// expected state.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"attesta/internal/domain"
	"attesta/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Schema creates the presentations table. Terminal states sit above the
// submitted boundary so the sweeper query can filter on a single comparison.
const Schema = `
CREATE TABLE IF NOT EXISTS presentations (
	id                      TEXT PRIMARY KEY,
	request_id              TEXT NOT NULL UNIQUE,
	kind                    SMALLINT NOT NULL,
	id_token_types          TEXT[] NOT NULL DEFAULT '{}',
	presentation_definition JSONB,
	state                   SMALLINT NOT NULL,
	initiated_at            TIMESTAMPTZ NOT NULL,
	retrieved_at            TIMESTAMPTZ,
	submitted_at            TIMESTAMPTZ,
	timed_out_at            TIMESTAMPTZ,
	response                JSONB,
	error_cause             TEXT
);
CREATE INDEX IF NOT EXISTS presentations_pending_idx
	ON presentations (initiated_at)
	WHERE state < 2;
`

// Store persists presentation sessions in PostgreSQL.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed presentation store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema applies the table and index definitions.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure presentations schema: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, p domain.Presentation) error {
	definition, response, err := marshalJSONColumns(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO presentations
			(id, request_id, kind, id_token_types, presentation_definition, state,
			 initiated_at, retrieved_at, submitted_at, timed_out_at, response, error_cause)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(ctx, query,
		string(p.ID),
		string(p.RequestID),
		int(p.Type.Kind),
		pq.Array(idTokenTypeStrings(p.Type.IDTokenTypes)),
		definition,
		int(p.State),
		p.InitiatedAt,
		nullTime(p.RetrievedAt),
		nullTime(p.SubmittedAt),
		nullTime(p.TimedOutAt),
		response,
		nullString(p.ErrorCause),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("presentation %s already stored: %w", p.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("save presentation: %w", err)
	}
	return nil
}

// Update persists p only if the stored row is still in the from state. A zero
// row count means either a concurrent transition won or the row is missing;
// the follow-up existence check disambiguates the two.
func (s *Store) Update(ctx context.Context, p domain.Presentation, from domain.State) error {
	definition, response, err := marshalJSONColumns(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE presentations
		SET state = $3, retrieved_at = $4, submitted_at = $5, timed_out_at = $6,
			response = $7, error_cause = $8, presentation_definition = $9
		WHERE id = $1 AND state = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		string(p.ID),
		int(from),
		int(p.State),
		nullTime(p.RetrievedAt),
		nullTime(p.SubmittedAt),
		nullTime(p.TimedOutAt),
		response,
		nullString(p.ErrorCause),
		definition,
	)
	if err != nil {
		return fmt.Errorf("update presentation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update presentation rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM presentations WHERE id = $1)`, string(p.ID),
	).Scan(&exists); err != nil {
		return fmt.Errorf("check presentation exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("presentation %s: %w", p.ID, sentinel.ErrNotFound)
	}
	return fmt.Errorf("presentation %s no longer in state %s: %w", p.ID, from, sentinel.ErrInvalidState)
}

func (s *Store) FindByID(ctx context.Context, id domain.PresentationID) (domain.Presentation, error) {
	row := s.db.QueryRowContext(ctx, selectQuery+` WHERE id = $1`, string(id))
	p, err := scanPresentation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Presentation{}, fmt.Errorf("presentation %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("find presentation by id: %w", err)
	}
	return p, nil
}

func (s *Store) FindByRequestID(ctx context.Context, id domain.RequestID) (domain.Presentation, error) {
	row := s.db.QueryRowContext(ctx, selectQuery+` WHERE request_id = $1`, string(id))
	p, err := scanPresentation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Presentation{}, fmt.Errorf("request id %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("find presentation by request id: %w", err)
	}
	return p, nil
}

func (s *Store) FindIncompleteOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Presentation, error) {
	rows, err := s.db.QueryContext(ctx,
		selectQuery+` WHERE state < $1 AND initiated_at < $2`,
		int(domain.StateSubmitted), cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("scan pending presentations: %w", err)
	}
	defer rows.Close()

	var stale []domain.Presentation
	for rows.Next() {
		p, err := scanPresentation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		stale = append(stale, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending presentations: %w", err)
	}
	return stale, nil
}

const selectQuery = `
	SELECT id, request_id, kind, id_token_types, presentation_definition, state,
		initiated_at, retrieved_at, submitted_at, timed_out_at, response, error_cause
	FROM presentations
`

type presentationRow interface {
	Scan(dest ...any) error
}

func scanPresentation(row presentationRow) (domain.Presentation, error) {
	var (
		p            domain.Presentation
		id           string
		requestID    string
		kind         int
		idTokenTypes pq.StringArray
		definition   []byte
		state        int
		retrievedAt  sql.NullTime
		submittedAt  sql.NullTime
		timedOutAt   sql.NullTime
		response     []byte
		errorCause   sql.NullString
	)
	err := row.Scan(&id, &requestID, &kind, &idTokenTypes, &definition, &state,
		&p.InitiatedAt, &retrievedAt, &submittedAt, &timedOutAt, &response, &errorCause)
	if err != nil {
		return domain.Presentation{}, err
	}

	p.ID = domain.PresentationID(id)
	p.RequestID = domain.RequestID(requestID)
	p.Type.Kind = domain.RequestKind(kind)
	p.Type.IDTokenTypes = make([]domain.IDTokenType, len(idTokenTypes))
	for i, t := range idTokenTypes {
		p.Type.IDTokenTypes[i] = domain.IDTokenType(t)
	}
	if len(definition) > 0 {
		var pd domain.PresentationDefinition
		if err := json.Unmarshal(definition, &pd); err != nil {
			return domain.Presentation{}, fmt.Errorf("unmarshal presentation definition: %w", err)
		}
		p.Type.PresentationDefinition = &pd
	}
	p.State = domain.State(state)
	if retrievedAt.Valid {
		p.RetrievedAt = retrievedAt.Time
	}
	if submittedAt.Valid {
		p.SubmittedAt = submittedAt.Time
	}
	if timedOutAt.Valid {
		p.TimedOutAt = timedOutAt.Time
	}
	if len(response) > 0 {
		var wr domain.WalletResponse
		if err := json.Unmarshal(response, &wr); err != nil {
			return domain.Presentation{}, fmt.Errorf("unmarshal wallet response: %w", err)
		}
		p.Response = &wr
	}
	if errorCause.Valid {
		p.ErrorCause = errorCause.String
	}
	return p, nil
}

func marshalJSONColumns(p domain.Presentation) (definition, response []byte, err error) {
	if p.Type.PresentationDefinition != nil {
		definition, err = json.Marshal(p.Type.PresentationDefinition)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal presentation definition: %w", err)
		}
	}
	if p.Response != nil {
		response, err = json.Marshal(p.Response)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal wallet response: %w", err)
		}
	}
	return definition, response, nil
}

func idTokenTypeStrings(types []domain.IDTokenType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

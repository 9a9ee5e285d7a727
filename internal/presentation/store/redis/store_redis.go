// Package redis backs the presentation store with Redis for deployments that
// run more than one verifier instance. Optimistic concurrency uses WATCH: a
// state-tag mismatch or a concurrent write surfaces as InvalidState, matching
// the in-memory store's compare-and-swap contract.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"attesta/internal/domain"
	"attesta/pkg/platform/sentinel"
)

const (
	keyPrefix        = "presentation:"
	requestKeyPrefix = "presentation:req:"
	pendingSetKey    = "presentations:pending"
)

type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// record is the wire form of domain.Presentation.
type record struct {
	ID                     string                         `json:"id"`
	RequestID              string                         `json:"request_id"`
	Kind                   int                            `json:"kind"`
	IDTokenTypes           []string                       `json:"id_token_types,omitempty"`
	PresentationDefinition *domain.PresentationDefinition `json:"presentation_definition,omitempty"`
	State                  int                            `json:"state"`
	InitiatedAt            time.Time                      `json:"initiated_at"`
	RetrievedAt            time.Time                      `json:"retrieved_at,omitzero"`
	SubmittedAt            time.Time                      `json:"submitted_at,omitzero"`
	TimedOutAt             time.Time                      `json:"timed_out_at,omitzero"`
	Response               *domain.WalletResponse         `json:"response,omitempty"`
	ErrorCause             string                         `json:"error_cause,omitempty"`
}

func toRecord(p domain.Presentation) record {
	types := make([]string, len(p.Type.IDTokenTypes))
	for i, t := range p.Type.IDTokenTypes {
		types[i] = string(t)
	}
	return record{
		ID:                     string(p.ID),
		RequestID:              string(p.RequestID),
		Kind:                   int(p.Type.Kind),
		IDTokenTypes:           types,
		PresentationDefinition: p.Type.PresentationDefinition,
		State:                  int(p.State),
		InitiatedAt:            p.InitiatedAt,
		RetrievedAt:            p.RetrievedAt,
		SubmittedAt:            p.SubmittedAt,
		TimedOutAt:             p.TimedOutAt,
		Response:               p.Response,
		ErrorCause:             p.ErrorCause,
	}
}

func (r record) toPresentation() domain.Presentation {
	types := make([]domain.IDTokenType, len(r.IDTokenTypes))
	for i, t := range r.IDTokenTypes {
		types[i] = domain.IDTokenType(t)
	}
	return domain.Presentation{
		ID:        domain.PresentationID(r.ID),
		RequestID: domain.RequestID(r.RequestID),
		Type: domain.PresentationType{
			Kind:                   domain.RequestKind(r.Kind),
			IDTokenTypes:           types,
			PresentationDefinition: r.PresentationDefinition,
		},
		State:       domain.State(r.State),
		InitiatedAt: r.InitiatedAt,
		RetrievedAt: r.RetrievedAt,
		SubmittedAt: r.SubmittedAt,
		TimedOutAt:  r.TimedOutAt,
		Response:    r.Response,
		ErrorCause:  r.ErrorCause,
	}
}

// Save persists the record and both indexes in one MULTI, so a session is
// never stored without its request-id key and pending entry.
func (s *Store) Save(ctx context.Context, p domain.Presentation) error {
	raw, err := json.Marshal(toRecord(p))
	if err != nil {
		return fmt.Errorf("marshal presentation: %w", err)
	}
	key := keyPrefix + string(p.ID)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("check presentation: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("presentation %s already stored: %w", p.ID, sentinel.ErrConflict)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			pipe.Set(ctx, requestKeyPrefix+string(p.RequestID), string(p.ID), 0)
			if !p.State.Terminal() {
				pipe.ZAdd(ctx, pendingSetKey, redis.Z{Score: float64(p.InitiatedAt.Unix()), Member: string(p.ID)})
			}
			return nil
		})
		return err
	}, key)

	// A WATCH conflict means a concurrent Save created the key first.
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("presentation %s already stored: %w", p.ID, sentinel.ErrConflict)
	}
	return err
}

func (s *Store) Update(ctx context.Context, p domain.Presentation, from domain.State) error {
	key := keyPrefix + string(p.ID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("presentation %s: %w", p.ID, sentinel.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load presentation: %w", err)
		}

		var current record
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			return fmt.Errorf("decode presentation: %w", err)
		}
		if domain.State(current.State) != from {
			return fmt.Errorf("presentation %s is %s, expected %s: %w",
				p.ID, domain.State(current.State), from, sentinel.ErrInvalidState)
		}

		next, err := json.Marshal(toRecord(p))
		if err != nil {
			return fmt.Errorf("marshal presentation: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			if p.State.Terminal() {
				pipe.ZRem(ctx, pendingSetKey, string(p.ID))
			}
			return nil
		})
		return err
	}, key)

	// A WATCH conflict means another transition won between load and store.
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("presentation %s modified concurrently: %w", p.ID, sentinel.ErrInvalidState)
	}
	return err
}

func (s *Store) FindByID(ctx context.Context, id domain.PresentationID) (domain.Presentation, error) {
	return s.load(ctx, keyPrefix+string(id))
}

func (s *Store) FindByRequestID(ctx context.Context, id domain.RequestID) (domain.Presentation, error) {
	pid, err := s.client.Get(ctx, requestKeyPrefix+string(id)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Presentation{}, fmt.Errorf("request id %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("resolve request id: %w", err)
	}
	return s.load(ctx, keyPrefix+pid)
}

func (s *Store) FindIncompleteOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Presentation, error) {
	ids, err := s.client.ZRangeByScore(ctx, pendingSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("(%d", cutoff.Unix()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("scan pending presentations: %w", err)
	}

	stale := make([]domain.Presentation, 0, len(ids))
	for _, id := range ids {
		p, err := s.load(ctx, keyPrefix+id)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !p.State.Terminal() && p.InitiatedAt.Before(cutoff) {
			stale = append(stale, p)
		}
	}
	return stale, nil
}

func (s *Store) load(ctx context.Context, key string) (domain.Presentation, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Presentation{}, fmt.Errorf("%s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return domain.Presentation{}, fmt.Errorf("load %s: %w", key, err)
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Presentation{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return rec.toPresentation(), nil
}

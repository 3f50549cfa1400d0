// Package store persists screening sessions between turns.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spigell/hh-screener/internal/screening"
)

// Store saves and loads sessions by id.
type Store interface {
	// Load returns nil, nil when no session with the id exists.
	Load(ctx context.Context, id string) (*screening.Session, error)
	// Save creates or replaces the session.
	Save(ctx context.Context, s *screening.Session) error
	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error
	Close() error
}

func encode(s *screening.Session) ([]byte, error) {
	if s == nil || s.ID == "" {
		return nil, fmt.Errorf("session with id is required")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	return data, nil
}

func decode(id string, data []byte) (*screening.Session, error) {
	var s screening.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	return &s, nil
}

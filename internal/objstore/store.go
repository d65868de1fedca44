package objstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ObjectID names one object inside a store.
type ObjectID string

// Store is the only capability the audit needs from an object store.
type Store interface {
	List(ctx context.Context) ([]ObjectID, error)
	Fetch(ctx context.Context, id ObjectID) ([]byte, error)
}

var ErrNotFound = errors.New("object not found")

// FilterSuffix narrows a store to objects whose name ends in suffix.
func FilterSuffix(s Store, suffix string) Store {
	if suffix == "" {
		return s
	}
	return suffixStore{Store: s, suffix: suffix}
}

type suffixStore struct {
	Store
	suffix string
}

func (s suffixStore) List(ctx context.Context) ([]ObjectID, error) {
	ids, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := ids[:0]
	for _, id := range ids {
		if strings.HasSuffix(string(id), s.suffix) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Memory is an in-process store keyed by object name. Lists are sorted.
type Memory map[ObjectID][]byte

func (m Memory) List(_ context.Context) ([]ObjectID, error) {
	ids := make([]ObjectID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids, nil
}

func (m Memory) Fetch(_ context.Context, id ObjectID) ([]byte, error) {
	b, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, nil
}

func sortIDs(ids []ObjectID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

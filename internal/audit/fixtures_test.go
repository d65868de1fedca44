package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"backend-trackaudit/internal/objstore"
)

func metaDoc(datetimes []string, coords [][3]float64) []byte {
	captures := make([]map[string]any, 0, len(datetimes))
	for i, dt := range datetimes {
		captures = append(captures, map[string]any{"core:sample_start": i * 1000, "core:datetime": dt})
	}
	doc := map[string]any{
		"global": map[string]any{
			"core:datatype":    "cf32_le",
			"core:description": "fixture",
			"iqengine:geotrack": map[string]any{
				"type":        "LineString",
				"coordinates": coords,
			},
		},
		"captures":    captures,
		"annotations": []any{},
	}
	b, _ := json.Marshal(doc)
	return b
}

// turning track with 90 degree corners, no flags
var goodTrack = [][3]float64{{10, 50, 0}, {10.01, 50, 0}, {10.01, 50.01, 0}, {10.02, 50.01, 0}}

var errStore = errors.New("container gone")

var goodTimes = []string{"2023-04-11T02:20:00Z", "2023-04-11T02:20:01Z", "2023-04-11T02:20:02Z"}

type recordingPublisher struct {
	mu       sync.Mutex
	runIDs   []string
	payloads [][]byte
}

func (p *recordingPublisher) Broadcast(runID string, payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runIDs = append(p.runIDs, runID)
	p.payloads = append(p.payloads, payload)
}

// repeatingStore lists every object of the embedded store twice.
type repeatingStore struct {
	objstore.Memory
}

func (s repeatingStore) List(ctx context.Context) ([]objstore.ObjectID, error) {
	ids, err := s.Memory.List(ctx)
	if err != nil {
		return nil, err
	}
	return append(ids, ids...), nil
}

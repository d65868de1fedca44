package audit

import (
	"context"
	"fmt"
	"log"
	"time"

	"backend-trackaudit/internal/geotrack"
	"backend-trackaudit/internal/objstore"
	"backend-trackaudit/internal/sigmf"
	"backend-trackaudit/internal/validator"

	"github.com/google/uuid"
	"github.com/mailru/easyjson"
)

// Publisher receives each record report as it is produced.
type Publisher interface {
	Broadcast(runID string, payload []byte)
}

type Auditor struct {
	store     objstore.Store
	validator validator.Validator
	track     geotrack.Config
	pub       Publisher
	now       func() time.Time
}

func NewAuditor(store objstore.Store, v validator.Validator, track geotrack.Config, pub Publisher) *Auditor {
	return &Auditor{
		store:     store,
		validator: v,
		track:     track,
		pub:       pub,
		now:       time.Now,
	}
}

// Run validates every object in the store once, in listing order. A record
// that fails to fetch, decode or validate is reported and left out of the
// counters; the run carries on. Only a listing failure or cancellation ends
// the run early.
func (a *Auditor) Run(ctx context.Context, opts Options) (Summary, error) {
	s := Summary{Totals: Totals{
		RunID:      opts.RunID,
		StartedAt:  a.now(),
		Thresholds: a.validator.Thresholds(),
	}}
	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}

	ids, err := a.store.List(ctx)
	if err != nil {
		return s, fmt.Errorf("list objects: %w", err)
	}

	seen := make(map[objstore.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := ctx.Err(); err != nil {
			s.FinishedAt = a.now()
			return s, err
		}

		doc, res, err := a.check(ctx, id)
		if err == nil && opts.windowed() && !inWindow(doc, opts) {
			s.Skipped++
			continue
		}

		rep := RecordReport{RunID: s.RunID, Object: string(id)}
		if err != nil {
			log.Printf("record %s: %v", id, err)
			rep.Kind = validator.Kind(err)
			rep.Error = err.Error()
			s.Counters.Fail()
		} else {
			r := res
			rep.Result = &r
			s.Counters.Add(res)
			s.LastAverageDistanceKm = res.AverageDistanceKm
		}
		s.Records = append(s.Records, rep)
		a.publish(rep)
	}

	s.FinishedAt = a.now()
	return s, nil
}

// Check decodes and validates a single document.
func (a *Auditor) Check(name string, raw []byte) (sigmf.Document, validator.Result, error) {
	doc, err := sigmf.Decode(name, raw)
	if err != nil {
		return sigmf.Document{}, validator.Result{}, err
	}
	res, err := a.validator.Validate(doc.Record)
	if err != nil {
		return doc, validator.Result{}, err
	}
	return doc, res, nil
}

// Track returns the cleaned geotrack of a document with per-point coverage.
func (a *Auditor) Track(name string, raw []byte) (geotrack.Track, error) {
	doc, err := sigmf.Decode(name, raw)
	if err != nil {
		return geotrack.Track{}, err
	}
	positions, dropped := geotrack.Clean(doc.Record.Track, a.track)
	return geotrack.Track{
		Name:        name,
		Description: doc.Description,
		Positions:   positions,
		Dropped:     dropped,
	}, nil
}

func (a *Auditor) check(ctx context.Context, id objstore.ObjectID) (sigmf.Document, validator.Result, error) {
	raw, err := a.store.Fetch(ctx, id)
	if err != nil {
		return sigmf.Document{}, validator.Result{}, err
	}
	return a.Check(string(id), raw)
}

func (a *Auditor) publish(rep RecordReport) {
	if a.pub == nil {
		return
	}
	payload, err := easyjson.Marshal(rep)
	if err != nil {
		log.Printf("encode record %s: %v", rep.Object, err)
		return
	}
	a.pub.Broadcast(rep.RunID, payload)
}

func inWindow(doc sigmf.Document, opts Options) bool {
	start, end := doc.Start(), doc.End()
	if start.IsZero() {
		return false
	}
	if !opts.From.IsZero() && end.Before(opts.From) {
		return false
	}
	if !opts.To.IsZero() && start.After(opts.To) {
		return false
	}
	return true
}

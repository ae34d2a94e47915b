package repository

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/model"
)

// rosterKey is the single key holding the serialized crew array.  The
// whole roster travels as one JSON blob: read on first access, written
// back after every mutation, last-write-wins with no merge.  Concurrent
// writers (two console sessions) can silently overwrite each other;
// that is the stated policy, not a defect to fix here.
const rosterKey = "crewops:roster"

// KV is the minimal key-value surface CrewRepo needs.  Production wires
// the Redis client; tests substitute an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// RedisKV adapts a go-redis client to the KV interface.
type RedisKV struct{ Client *redis.Client }

func (r RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r RedisKV) Set(ctx context.Context, key, value string) error {
	return r.Client.Set(ctx, key, value, 0).Err()
}

// seedRoster is the fallback crew list used when nothing is persisted
// yet, or when the persisted blob does not parse.
var seedRoster = []model.CrewMember{
	{ID: 1, Name: "Luis Suarez", Code: "TCP-001", Role: "Cabin Crew", Base: "LPB", Status: model.CrewActive},
	{ID: 2, Name: "Lucas Perez", Code: "TCP-002", Role: "Cabin Crew", Base: "CBB", Status: model.CrewTemporaryLeave},
	{ID: 3, Name: "Lola Martinez", Code: "TCP-003", Role: "Cabin Crew", Base: "VVI", Status: model.CrewActive},
}

// CrewRepo owns the authoritative crew roster for the service.  The
// roster is cached in memory after the first load and flushed to the KV
// slot after every mutation.  A nil KV (Redis unavailable) degrades to
// memory-only operation over the seed data.
type CrewRepo struct {
	kv  KV
	log *zap.Logger

	mu     sync.Mutex
	loaded bool
	crew   []model.CrewMember
}

// NewCrewRepo returns a roster store backed by the given KV slot.
func NewCrewRepo(kv KV, log *zap.Logger) *CrewRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &CrewRepo{kv: kv, log: log}
}

// hydrate loads the roster once: persisted blob first, seed fallback on
// absence or parse failure.  Parse failures are deliberately silent
// beyond a log line; malformed persisted data means "no data".
func (r *CrewRepo) hydrate(ctx context.Context) {
	if r.loaded {
		return
	}
	r.loaded = true
	r.crew = append([]model.CrewMember(nil), seedRoster...)

	if r.kv == nil {
		return
	}
	raw, ok, err := r.kv.Get(ctx, rosterKey)
	if err != nil {
		r.log.Warn("roster load failed, serving seed data", zap.Error(err))
		return
	}
	if !ok {
		// First run: persist the seed so later sessions share one copy.
		r.persist(ctx)
		return
	}
	var stored []model.CrewMember
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.Warn("persisted roster did not parse, serving seed data", zap.Error(err))
		return
	}
	r.crew = stored
}

// persist writes the in-memory roster back to the KV slot.
func (r *CrewRepo) persist(ctx context.Context) {
	if r.kv == nil {
		return
	}
	raw, err := json.Marshal(r.crew)
	if err != nil {
		r.log.Error("roster marshal failed", zap.Error(err))
		return
	}
	if err := r.kv.Set(ctx, rosterKey, string(raw)); err != nil {
		r.log.Warn("roster persist failed", zap.Error(err))
	}
}

// ListFilter holds the AND-combined list predicates: exact status
// match, exact role match, case-insensitive substring on name and base.
type ListFilter struct {
	Status model.CrewStatus
	Role   string
	Base   string
	Name   string
}

// List returns the roster entries matching the filter, in stored order.
func (r *CrewRepo) List(ctx context.Context, f ListFilter) ([]model.CrewMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hydrate(ctx)

	out := make([]model.CrewMember, 0, len(r.crew))
	for _, m := range r.crew {
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.Role != "" && m.Role != f.Role {
			continue
		}
		if f.Base != "" && !strings.Contains(strings.ToLower(m.Base), strings.ToLower(f.Base)) {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// GetByID returns one roster entry or ErrNotFound.
func (r *CrewRepo) GetByID(ctx context.Context, id uint64) (model.CrewMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hydrate(ctx)

	for _, m := range r.crew {
		if m.ID == id {
			return m, nil
		}
	}
	return model.CrewMember{}, ErrNotFound
}

// Create appends a new crew member.  The id is assigned as
// max-existing-id + 1; the employee code must be unique within the
// roster (case-insensitive) or ErrCodeExists is returned.
func (r *CrewRepo) Create(ctx context.Context, m model.CrewMember) (model.CrewMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hydrate(ctx)

	code := strings.ToLower(strings.TrimSpace(m.Code))
	var maxID uint64
	for _, existing := range r.crew {
		if strings.ToLower(strings.TrimSpace(existing.Code)) == code {
			return model.CrewMember{}, ErrCodeExists
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	m.ID = maxID + 1
	if m.Status == "" {
		m.Status = model.CrewActive
	}
	r.crew = append(r.crew, m)
	r.persist(ctx)
	return m, nil
}

// UpdateStatus transitions a crew member's lifecycle status.  Members
// are never removed; PERMANENT_LEAVE is the terminal bookkeeping state.
func (r *CrewRepo) UpdateStatus(ctx context.Context, id uint64, status model.CrewStatus) (model.CrewMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hydrate(ctx)

	for i, m := range r.crew {
		if m.ID == id {
			r.crew[i].Status = status
			r.persist(ctx)
			return r.crew[i], nil
		}
	}
	return model.CrewMember{}, ErrNotFound
}

// ActiveMembers returns the roster entries eligible for flight
// assignment, i.e. status ACTIVE, in stored order.
func (r *CrewRepo) ActiveMembers(ctx context.Context) ([]model.CrewMember, error) {
	return r.List(ctx, ListFilter{Status: model.CrewActive})
}

// Reload drops the in-memory copy so the next read hydrates from the KV
// slot again.  Exposed through POST /v1/crew/reload for operators who
// edited the blob out of band.
func (r *CrewRepo) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.crew = nil
}

// touchTimeout bounds KV round-trips issued outside a request context.
const touchTimeout = 2 * time.Second

// WarmUp hydrates the roster during startup so the first request does
// not pay the load.
func (r *CrewRepo) WarmUp() {
	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hydrate(ctx)
}

package repository

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/logisticair/crewops/internal/model"
)

// CredentialRepo provides data access to the `credentials` table plus
// the single-slot "currently displayed QR" selection per crew member.
// The QR slot is session state, not part of the credential list itself,
// so it lives in memory and resets with the process.
type CredentialRepo struct {
	DB *sql.DB

	mu        sync.Mutex
	currentQR map[uint64]string
}

func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{DB: db, currentQR: make(map[uint64]string)}
}

// Insert stores a freshly issued credential and returns it with its id.
// Callers obtain the credential itself from access.Issuer; this layer
// only persists and orders.
func (r *CredentialRepo) Insert(ctx context.Context, c model.Credential) (model.Credential, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO credentials (crew_id, code, kind, status, created_at, expires_at) VALUES (?,?,?,?,?,?)",
		c.CrewID, c.Code, string(c.Kind), string(c.Status), c.CreatedAt, c.ExpiresAt)
	if err != nil {
		return model.Credential{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Credential{}, err
	}
	c.ID = uint64(id)
	if c.Kind == model.CredentialQRToken {
		r.mu.Lock()
		r.currentQR[c.CrewID] = c.Code
		r.mu.Unlock()
	}
	return c, nil
}

// ListByCrew returns a crew member's credentials newest-first.  The
// Expired flag is computed lazily against now; the stored status is
// never rewritten by elapsed time.
func (r *CredentialRepo) ListByCrew(ctx context.Context, crewID uint64, now time.Time) ([]model.Credential, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, crew_id, code, kind, status, created_at, expires_at FROM credentials WHERE crew_id = ? ORDER BY created_at DESC, id DESC",
		crewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Credential
	for rows.Next() {
		var c model.Credential
		if err := rows.Scan(&c.ID, &c.CrewID, &c.Code, &c.Kind, &c.Status, &c.CreatedAt, &c.ExpiresAt); err != nil {
			return nil, err
		}
		c.Expired = now.After(c.ExpiresAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkUsed transitions a credential to USED, e.g. after the mobile app
// redeems it.
func (r *CredentialRepo) MarkUsed(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE credentials SET status = ? WHERE id = ?", string(model.CredentialUsed), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CurrentQR returns the most recently issued QR token code for the crew
// member, if any was issued in this process lifetime.
func (r *CredentialRepo) CurrentQR(crewID uint64) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.currentQR[crewID]
	return code, ok
}

// access/session.go
//
// Session and account validation.
//
// Context
// -------
// Validate confirms two facts before any permission logic runs: an active
// session row exists for exactly the claimed (user id, login name, token)
// triple and has not expired, and an active account row exists for the same
// user.  The three failure modes are surfaced distinctly — ErrSessionNotFound,
// ErrSessionExpired, and ErrAccountNotFound — so entry points can answer
// "log in", "log in again", and "no such account" differently.
//
// Schema
// ------
//
//	accesses (user_id, login_name, token, expire)   -- expire: Unix millis
//	users    (id, role_ids, is_active, is_admin, profile)
//
// `role_ids` is a Postgres text array; `profile` is a JSON document whose
// `role_id` key names the account's primary role.
package access

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// SessionStore validates sessions against the accesses/users table pair.
type SessionStore struct {
	db          *sqlx.DB
	accessTable string
	userTable   string
	now         func() time.Time // injectable for tests
}

// NewSessionStore returns a validator over the given session and account
// tables.
func NewSessionStore(db *sqlx.DB, accessTable, userTable string) *SessionStore {
	return &SessionStore{db: db, accessTable: accessTable, userTable: userTable, now: time.Now}
}

// Validate checks the claimed identity and returns the resolved identity
// summary.  The returned Identity is request-scoped; callers must not cache
// it across requests.
func (s *SessionStore) Validate(ctx context.Context, user UserInfo) (*Identity, error) {
	sessionQ := `SELECT expire FROM ` + s.accessTable + `
	              WHERE user_id=$1 AND login_name=$2 AND token=$3 LIMIT 1`

	var expire int64
	err := s.db.GetContext(ctx, &expire, sessionQ, user.UserID, user.LoginName, user.Token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.now().UnixMilli() > expire {
		return nil, ErrSessionExpired
	}

	accountQ := `SELECT id, role_ids, is_active, is_admin, profile FROM ` + s.userTable + `
	              WHERE id=$1 AND is_active=TRUE AND (email=$2 OR username=$3) LIMIT 1`

	var row struct {
		ID       string          `db:"id"`
		RoleIDs  pq.StringArray  `db:"role_ids"`
		IsActive bool            `db:"is_active"`
		IsAdmin  sql.NullBool    `db:"is_admin"`
		Profile  json.RawMessage `db:"profile"`
	}
	err = s.db.GetContext(ctx, &row, accountQ, user.UserID, user.LoginName, user.LoginName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return &Identity{
		UserID:   row.ID,
		RoleID:   primaryRole(row.Profile),
		RoleIDs:  row.RoleIDs,
		IsActive: row.IsActive,
		IsAdmin:  row.IsAdmin.Valid && row.IsAdmin.Bool,
		Profile:  row.Profile,
	}, nil
}

// primaryRole extracts the role_id key from the profile document; absent or
// malformed profiles yield "".
func primaryRole(profile json.RawMessage) string {
	if len(profile) == 0 {
		return ""
	}
	var p struct {
		RoleID string `json:"role_id"`
	}
	if err := json.Unmarshal(profile, &p); err != nil {
		return ""
	}
	return p.RoleID
}

// access/types.go
//
// Access-control model types.
//
// Context
// -------
// The access package decides, per request, whether a caller may perform a
// task against specific records or a whole table.  Three collaborators feed
// the decision:
//
//   - SessionStore (session.go)  — validates the caller's session and account.
//   - GrantStore   (grants.go)   — fetches role/service capability grants.
//   - Resolver     (resolver.go) — combines admin, ownership, and grants.
//
// TaskType is a closed enum; the capability lookup in RoleGrant.Allows is a
// total function over it, so there is no "unknown task" runtime fallback.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package access

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TaskType identifies the operation being authorised.
type TaskType int

const (
	TaskCreate TaskType = iota
	TaskRead
	TaskUpdate
	TaskDelete
)

// String returns the lowercase task name, matching audit-log vocabulary.
func (t TaskType) String() string {
	switch t {
	case TaskCreate:
		return "create"
	case TaskRead:
		return "read"
	case TaskUpdate:
		return "update"
	case TaskDelete:
		return "delete"
	}
	return fmt.Sprintf("TaskType(%d)", int(t))
}

// RoleGrant is one capability row binding a role to a service.  ServiceID is
// either a table's registered service id (table-level grant) or an individual
// record id (record-level grant).
type RoleGrant struct {
	ServiceID       string `db:"service_id"`
	RoleID          string `db:"role_id"`
	ServiceCategory string `db:"service_category"`
	CanRead         bool   `db:"can_read"`
	CanCreate       bool   `db:"can_create"`
	CanUpdate       bool   `db:"can_update"`
	CanDelete       bool   `db:"can_delete"`
	CanCrud         bool   `db:"can_crud"`
}

// Allows reports whether the grant covers the task.  CanCrud is a shorthand
// covering all four capabilities.
func (g RoleGrant) Allows(t TaskType) bool {
	if g.CanCrud {
		return true
	}
	switch t {
	case TaskCreate:
		return g.CanCreate
	case TaskRead:
		return g.CanRead
	case TaskUpdate:
		return g.CanUpdate
	case TaskDelete:
		return g.CanDelete
	}
	return false
}

// UserInfo is the caller's claimed identity, as supplied with the request.
type UserInfo struct {
	UserID    string
	LoginName string
	Token     string
}

// Identity is the validated per-request identity summary produced by the
// SessionStore and carried into the access decision.
type Identity struct {
	UserID   string
	RoleID   string
	RoleIDs  []string
	IsActive bool
	IsAdmin  bool
	Profile  json.RawMessage
}

// Decision is the resolved outcome for one task.  It is computed fresh per
// request and must not be reused across requests; grants and active status
// can change between calls.
type Decision struct {
	Permitted       bool
	UserID          string
	RoleID          string
	RoleIDs         []string
	IsActive        bool
	IsAdmin         bool
	OwnerPermitted  bool
	TablePermitted  bool
	RecordPermitted bool
	TableServiceID  string
}

// Session and account failures, surfaced distinctly so callers can report
// "log in again" separately from "no such account".
var (
	ErrSessionNotFound = errors.New("access: session not found")
	ErrSessionExpired  = errors.New("access: session expired, login required")
	ErrAccountNotFound = errors.New("access: account not found or inactive")
)

// UnauthorizedError is a denial after a successful session and account
// check.  It carries the resolved identity summary for diagnostics — never
// the underlying grant rows.
type UnauthorizedError struct {
	Task    TaskType
	Table   string
	UserID  string
	RoleIDs []string
	IsAdmin bool
	Reason  string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("access: %s on %q not permitted for user %s: %s",
		e.Task, e.Table, e.UserID, e.Reason)
}

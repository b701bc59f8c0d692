// access/grants.go
//
// Role-grant lookup.
//
// Context
// -------
// GrantStore answers one question: which active capability grants exist for
// this set of roles against this set of service/record ids?  The grant table
// is keyed by (role_id, service_id) with boolean capability columns; a
// service id is a registered table's id or an individual record id.
//
// A failed lookup yields an empty slice, not an error, so callers treat "no
// grants" and "lookup trouble" uniformly as "not permitted" instead of
// failing the request.  The failure is logged for operators.
package access

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GrantStore fetches RoleGrant rows from one grant table.
type GrantStore struct {
	db    *sqlx.DB
	table string
	log   *zap.SugaredLogger
}

// NewGrantStore returns a store reading from table.  A nil logger falls back
// to the process-wide sugared logger.
func NewGrantStore(db *sqlx.DB, table string, log *zap.SugaredLogger) *GrantStore {
	if log == nil {
		log = zap.S()
	}
	return &GrantStore{db: db, table: table, log: log}
}

// Fetch returns the active grants matching any of roleIDs against any of
// serviceIDs.  Empty input sets, query failures, and scan failures all
// return an empty slice.
func (s *GrantStore) Fetch(ctx context.Context, roleIDs, serviceIDs []string) []RoleGrant {
	if len(roleIDs) == 0 || len(serviceIDs) == 0 {
		return nil
	}

	q := `SELECT service_id, role_id, service_category,
	             can_read, can_create, can_update, can_delete, can_crud
	        FROM ` + s.table + `
	       WHERE role_id IN (?) AND service_id IN (?) AND is_active = TRUE`

	q, args, err := sqlx.In(q, roleIDs, serviceIDs)
	if err != nil {
		s.log.Warnw("grant query build failed", "table", s.table, "err", err)
		return nil
	}
	q = s.db.Rebind(q)

	var grants []RoleGrant
	if err := s.db.SelectContext(ctx, &grants, q, args...); err != nil {
		s.log.Warnw("grant lookup failed", "table", s.table, "err", err)
		return nil
	}
	return grants
}

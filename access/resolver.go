// access/resolver.go
//
// Access Resolution Engine.
//
// Context
// -------
// Authorize walks a fixed pipeline per request:
//
//	session → ownership → service registry → grants → decision
//
// and terminates at a single permitted/denied outcome.  There are no retries
// here; transient database trouble on the grant or ownership paths resolves
// to "not permitted", and the caller's execution layer owns any backoff.
//
// Ownership rules:
//   - explicit record ids        → caller must own every requested row.
//   - table-wide read            → caller must own at least one row.
//   - create, non-primitive table→ ownership is granted unconditionally
//     (new rows have no prior owner).  Identity/org primitive tables are
//     excluded so accounts, apps, groups, and roles stay grant-gated.
//
// Grant rules (per task type):
//   - table-level permitted  ⇔ grants scoped to the table's service id exist
//     and every one carries the task's capability flag.
//   - record-level permitted ⇔ every requested record id has at least one
//     grant with the flag; an uncovered id denies the lot.
//
// Final decision: isAdmin OR owner OR table-level OR record-level, with
// inactive accounts always denied.  Denials carry the identity summary only.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package access

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DefaultExcludedTables are the identity/org primitives for which create is
// never owner-permitted by default.
var DefaultExcludedTables = []string{"users", "apps", "groups", "roles"}

// Resolver combines session validation, ownership counting, and role grants
// into one authorize/deny decision per task.
type Resolver struct {
	db           *sqlx.DB
	sessions     *SessionStore
	grants       *GrantStore
	serviceTable string
	excluded     map[string]struct{}
	log          *zap.SugaredLogger
}

// NewResolver wires a Resolver.  serviceTable is the table-name → service-id
// registry.  excludedTables defaults to DefaultExcludedTables when nil.
func NewResolver(db *sqlx.DB, sessions *SessionStore, grants *GrantStore,
	serviceTable string, excludedTables []string, log *zap.SugaredLogger) *Resolver {

	if excludedTables == nil {
		excludedTables = DefaultExcludedTables
	}
	excluded := make(map[string]struct{}, len(excludedTables))
	for _, t := range excludedTables {
		excluded[t] = struct{}{}
	}
	if log == nil {
		log = zap.S()
	}
	return &Resolver{
		db:           db,
		sessions:     sessions,
		grants:       grants,
		serviceTable: serviceTable,
		excluded:     excluded,
		log:          log,
	}
}

// Authorize decides whether user may perform task against recordIDs in
// table.  Empty recordIDs means a table-wide (or filter-scoped) operation.
// Session and account failures propagate verbatim; a denial returns the
// Decision for diagnostics together with an *UnauthorizedError.
func (r *Resolver) Authorize(ctx context.Context, task TaskType, table string,
	recordIDs []string, user UserInfo) (*Decision, error) {

	ident, err := r.sessions.Validate(ctx, user)
	if err != nil {
		return nil, err
	}

	d := &Decision{
		UserID:   ident.UserID,
		RoleID:   ident.RoleID,
		RoleIDs:  ident.RoleIDs,
		IsActive: ident.IsActive,
		IsAdmin:  ident.IsAdmin,
	}

	if !ident.IsActive {
		// The account query filters on is_active, so this is a guard, not a
		// reachable path in normal operation.
		return d, r.deny(d, task, table, "account is not active")
	}

	d.OwnerPermitted = r.ownerPermitted(ctx, task, table, recordIDs, ident.UserID)
	d.TableServiceID = r.tableServiceID(ctx, table)

	serviceIDs := make([]string, 0, len(recordIDs)+1)
	serviceIDs = append(serviceIDs, recordIDs...)
	if d.TableServiceID != "" {
		serviceIDs = append(serviceIDs, d.TableServiceID)
	}
	grants := r.grants.Fetch(ctx, ident.RoleIDs, serviceIDs)

	var tableGrants, recordGrants []RoleGrant
	for _, g := range grants {
		switch {
		case g.ServiceID == d.TableServiceID && d.TableServiceID != "":
			tableGrants = append(tableGrants, g)
		default:
			recordGrants = append(recordGrants, g)
		}
	}

	d.TablePermitted = len(tableGrants) > 0
	for _, g := range tableGrants {
		if !g.Allows(task) {
			d.TablePermitted = false
			break
		}
	}

	d.RecordPermitted = len(recordIDs) > 0
	for _, id := range recordIDs {
		if !anyGrantAllows(recordGrants, id, task) {
			d.RecordPermitted = false
			break
		}
	}

	d.Permitted = d.IsAdmin || d.OwnerPermitted || d.TablePermitted || d.RecordPermitted
	if !d.Permitted {
		return d, r.deny(d, task, table, "no admin, ownership, or covering grant")
	}
	return d, nil
}

func anyGrantAllows(grants []RoleGrant, recordID string, task TaskType) bool {
	for _, g := range grants {
		if g.ServiceID == recordID && g.Allows(task) {
			return true
		}
	}
	return false
}

// ownerPermitted evaluates the ownership path.  Count failures resolve to
// false; ownership is one of four independent permission paths, so a lookup
// problem narrows access rather than failing the request.
func (r *Resolver) ownerPermitted(ctx context.Context, task TaskType, table string,
	recordIDs []string, userID string) bool {

	if task == TaskCreate {
		if _, primitive := r.excluded[table]; !primitive {
			return true
		}
	}

	if len(recordIDs) > 0 {
		q := `SELECT COUNT(*) FROM ` + table + ` WHERE id IN (?) AND created_by = ?`
		q, args, err := sqlx.In(q, recordIDs, userID)
		if err != nil {
			r.log.Warnw("ownership query build failed", "table", table, "err", err)
			return false
		}
		q = r.db.Rebind(q)
		var owned int
		if err := r.db.GetContext(ctx, &owned, q, args...); err != nil {
			r.log.Warnw("ownership count failed", "table", table, "err", err)
			return false
		}
		return owned == len(recordIDs)
	}

	if task != TaskRead {
		return false
	}
	q := `SELECT COUNT(*) FROM ` + table + ` WHERE created_by = $1`
	var owned int
	if err := r.db.GetContext(ctx, &owned, q, userID); err != nil {
		r.log.Warnw("ownership count failed", "table", table, "err", err)
		return false
	}
	return owned > 0
}

// tableServiceID resolves the table's registered service id, enabling
// table-level grants.  An unregistered table yields "".
func (r *Resolver) tableServiceID(ctx context.Context, table string) string {
	q := `SELECT id FROM ` + r.serviceTable + `
	       WHERE LOWER(category) IN ('table', 'collection') AND name = $1 LIMIT 1`
	var id string
	err := r.db.GetContext(ctx, &id, q, table)
	if errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	if err != nil {
		r.log.Warnw("service registry lookup failed", "table", table, "err", err)
		return ""
	}
	return id
}

func (r *Resolver) deny(d *Decision, task TaskType, table, reason string) error {
	return &UnauthorizedError{
		Task:    task,
		Table:   table,
		UserID:  d.UserID,
		RoleIDs: d.RoleIDs,
		IsAdmin: d.IsAdmin,
		Reason:  reason,
	}
}

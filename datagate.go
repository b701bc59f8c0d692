// datagate.go
//
// Client construction and wiring.
//
// Context
// -------
// datagate turns abstract record operations into parameterised PostgreSQL
// statements and gates every one of them through a role/ownership access
// decision.  The Client is the orchestrator: it validates request shape,
// asks the access resolver for a decision, compiles statements, executes
// them (transactionally for batches), and notifies the audit and cache
// collaborators after committed writes.
//
// A Client is safe for concurrent use; all per-request state lives in the
// Params value and the locals of each call.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package datagate

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tidemill/datagate/access"
	"github.com/tidemill/datagate/audit"
	"github.com/tidemill/datagate/cache"
	"github.com/tidemill/datagate/config"
	"github.com/tidemill/datagate/database"
	"github.com/tidemill/datagate/logger"
)

// Options tunes a Client.  Zero values fall back to the conventional table
// names and limits.
type Options struct {
	// CheckAccess gates every operation through the access resolver.  Off
	// by default so embedding applications can bring their own perimeter.
	CheckAccess bool

	// Per-task audit logging toggles.
	LogCreate bool
	LogUpdate bool
	LogDelete bool
	LogRead   bool

	// MaxQueryLimit caps (and defaults) the read-path LIMIT.
	MaxQueryLimit int

	// Auxiliary table names.
	AuditTable   string
	ServiceTable string
	GrantTable   string
	AccessTable  string
	UserTable    string

	// ExcludedTables are identity/org primitives for which create is never
	// owner-permitted.  Nil means the conventional set.
	ExcludedTables []string

	CacheSize int
	CacheTTL  time.Duration
}

func (o *Options) fillDefaults() {
	if o.MaxQueryLimit <= 0 {
		o.MaxQueryLimit = 10000
	}
	if o.AuditTable == "" {
		o.AuditTable = "audits"
	}
	if o.ServiceTable == "" {
		o.ServiceTable = "services"
	}
	if o.GrantTable == "" {
		o.GrantTable = "role_services"
	}
	if o.AccessTable == "" {
		o.AccessTable = "accesses"
	}
	if o.UserTable == "" {
		o.UserTable = "users"
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 2048
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
}

// Client is the request orchestrator.
type Client struct {
	db       *sqlx.DB
	log      *zap.SugaredLogger
	opts     Options
	resolver *access.Resolver
	audit    *audit.Logger
	cache    *cache.Cache
	sf       singleflight.Group
}

// New wires a Client over an existing pool.  A nil logger falls back to the
// process-wide sugared logger.
func New(db *sqlx.DB, opts Options, log *zap.SugaredLogger) *Client {
	opts.fillDefaults()
	if log == nil {
		log = zap.S()
	}

	sessions := access.NewSessionStore(db, opts.AccessTable, opts.UserTable)
	grants := access.NewGrantStore(db, opts.GrantTable, log)
	resolver := access.NewResolver(db, sessions, grants,
		opts.ServiceTable, opts.ExcludedTables, log)

	return &Client{
		db:       db,
		log:      log,
		opts:     opts,
		resolver: resolver,
		audit:    audit.New(db, opts.AuditTable),
		cache:    cache.New(opts.CacheSize, opts.CacheTTL),
	}
}

// NewFromConfig opens a pool per cfg.Database and wires a Client from the
// remaining sections.  When cfg.Log.Dir is set and no logger is supplied, a
// file logger is installed first so the pool open itself is logged.  The
// caller owns Close() on the returned pool via Client.DB().
func NewFromConfig(cfg *config.Config, log *zap.SugaredLogger) (*Client, error) {
	if log == nil && cfg.Log.Dir != "" {
		fileLog, err := logger.New(cfg.Log.Dir, cfg.Log.Tee)
		if err != nil {
			return nil, err
		}
		log = fileLog
	}

	db, err := database.OpenWithOptions(cfg.Database.DSN, cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	if err != nil {
		return nil, err
	}
	return New(db, Options{
		CheckAccess:    cfg.Access.CheckAccess,
		LogCreate:      cfg.Audit.LogCreate,
		LogUpdate:      cfg.Audit.LogUpdate,
		LogDelete:      cfg.Audit.LogDelete,
		LogRead:        cfg.Audit.LogRead,
		MaxQueryLimit:  cfg.Query.MaxLimit,
		AuditTable:     cfg.Tables.Audit,
		ServiceTable:   cfg.Tables.Service,
		GrantTable:     cfg.Tables.Grant,
		AccessTable:    cfg.Tables.Access,
		UserTable:      cfg.Tables.User,
		ExcludedTables: cfg.Access.ExcludedTables,
		CacheSize:      cfg.Cache.Size,
		CacheTTL:       time.Duration(cfg.Cache.TTLSeconds) * time.Second,
	}, log), nil
}

// DB exposes the underlying pool, mainly so embedding applications can
// Close() it on shutdown.
func (c *Client) DB() *sqlx.DB { return c.db }

// Resolver exposes the access resolution engine for callers that need a
// decision without performing an operation.
func (c *Client) Resolver() *access.Resolver { return c.resolver }

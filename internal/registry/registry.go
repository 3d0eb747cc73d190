// Package registry maps a user identity to an isolated storage namespace
// and owns the lifecycle of every open database handle.
//
// A namespace is one SQLite file under the registry's data directory,
// provisioned on first open with the full fixed table set. Concurrent opens
// of the same namespace are coalesced so only one provisioning run happens.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"golang.org/x/sync/singleflight"

	"github.com/ainarsv/trove/internal/logging"
	"github.com/ainarsv/trove/internal/migrations"
	"github.com/ainarsv/trove/internal/models"

	_ "modernc.org/sqlite"
)

// AnonymousNamespace backs sessions with no authenticated user.
const AnonymousNamespace = "anonymous"

// credentialsNamespace holds the device-global credential vault. The NUL
// prefix keeps it out of the user namespace key space.
const credentialsNamespace = "\x00credentials"

// Registry caches open namespace handles and coalesces in-flight opens.
// Construct one per process and inject it where needed.
type Registry struct {
	dataDir string
	log     logging.Logger

	mu      sync.Mutex
	current string
	handles map[string]*sql.DB

	group singleflight.Group
}

func New(dataDir string, log logging.Logger) *Registry {
	return &Registry{
		dataDir: dataDir,
		log:     log,
		current: AnonymousNamespace,
		handles: make(map[string]*sql.DB),
	}
}

// NamespaceFor derives the stable on-disk identifier for a user. An empty
// user id selects the anonymous namespace.
func NamespaceFor(userID string) string {
	userID = strings.ToLower(strings.TrimSpace(userID))
	if userID == "" {
		return AnonymousNamespace
	}
	var b strings.Builder
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return "user_" + b.String()
}

// SetCurrentUser switches the active namespace. Empty selects anonymous.
func (r *Registry) SetCurrentUser(userID string) {
	ns := NamespaceFor(userID)
	r.mu.Lock()
	r.current = ns
	r.mu.Unlock()
}

// CurrentNamespace returns the active namespace identifier.
func (r *Registry) CurrentNamespace() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Open returns a ready handle to the active user's namespace, creating its
// on-disk structures on first use.
func (r *Registry) Open(ctx context.Context) (*sql.DB, error) {
	return r.open(ctx, r.CurrentNamespace(), migrations.NamespaceDir)
}

// OpenUser is Open for an explicit user identity.
func (r *Registry) OpenUser(ctx context.Context, userID string) (*sql.DB, error) {
	return r.open(ctx, NamespaceFor(userID), migrations.NamespaceDir)
}

// OpenCredentials returns the device-global credential vault database.
// It is deliberately not namespaced: identity must be resolvable before
// any per-user namespace can be selected.
func (r *Registry) OpenCredentials(ctx context.Context) (*sql.DB, error) {
	return r.open(ctx, credentialsNamespace, migrations.CredentialsDir)
}

func (r *Registry) open(ctx context.Context, ns, migrationDir string) (*sql.DB, error) {
	r.mu.Lock()
	if db, ok := r.handles[ns]; ok {
		r.mu.Unlock()
		return db, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(ns, func() (any, error) {
		db, err := r.provision(ctx, ns, migrationDir)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.handles[ns] = db
		r.mu.Unlock()
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.DB), nil
}

func (r *Registry) provision(ctx context.Context, ns, migrationDir string) (*sql.DB, error) {
	if err := os.MkdirAll(r.dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", models.ErrOpenFailed, err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Join(r.dataDir, fileNameFor(ns)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrOpenFailed, err)
	}

	if err := runMigrations(ctx, db, migrationDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate namespace %q: %v", models.ErrOpenFailed, ns, err)
	}

	r.log.Info(ctx, "namespace opened", "ns", ns)
	return db, nil
}

func fileNameFor(ns string) string {
	if ns == credentialsNamespace {
		return "credentials.db"
	}
	return ns + ".db"
}

// Close closes every cached handle. The registry stays usable; the next
// open re-provisions.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for ns, db := range r.handles {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.handles, ns)
	}
	return firstErr
}

// goose keeps package-level dialect/baseFS state, so runs are serialized.
var migrateMu sync.Mutex

func runMigrations(ctx context.Context, db *sql.DB, dir string) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}

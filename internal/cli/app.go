package cli

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/ainarsv/trove/internal/config"
	"github.com/ainarsv/trove/internal/cryptox"
	"github.com/ainarsv/trove/internal/logging"
	"github.com/ainarsv/trove/internal/registry"
	"github.com/ainarsv/trove/internal/remote"
	"github.com/ainarsv/trove/internal/repositories/credentials"
	"github.com/ainarsv/trove/internal/services"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	registry *registry.Registry
	client   remote.Client

	authService  *services.AuthService
	vaultService *services.VaultService
	syncService  *services.SyncService

	session *services.Session
	Mode    Mode
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	reg := registry.New(c.DataDir, log)

	credsDB, err := reg.OpenCredentials(ctx)
	if err != nil {
		return nil, err
	}

	client := remote.NewHTTPClient(c.ServerEndpointAddr)
	as := services.NewAuthService(client, credentials.NewSQLiteRepository(credsDB), cryptox.NewArgon2Hasher(), log)

	return &App{
		config:      c,
		log:         log,
		registry:    reg,
		client:      client,
		authService: as,
		Mode:        ModeOffline,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.registry.Close()
	defer a.client.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

// openSession switches the registry to the authenticated user and builds the
// per-namespace services over that handle.
func (a *App) openSession(ctx context.Context, sess *services.Session) error {
	a.registry.SetCurrentUser(sess.UserID)

	db, err := a.registry.Open(ctx)
	if err != nil {
		return err
	}

	a.vaultService = services.NewVaultService(db, a.log)
	a.syncService = services.NewSyncService(db, a.client, a.log)
	a.session = sess

	if sess.Offline {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
	return nil
}

func (a *App) closeSession() {
	a.session = nil
	a.vaultService = nil
	a.syncService = nil
	a.registry.SetCurrentUser("")
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		printlnFn("Switched to", string(mode), "mode")
	}
}

// StartOnlineStatusWatcher probes backend reachability on a fixed interval
// and flips the mode accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

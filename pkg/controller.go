package pkg

import (
	"fmt"

	"github.com/securevault/cli/internal/api"
	"github.com/securevault/cli/pkg/auth"
	"github.com/securevault/cli/pkg/catalog"
	"github.com/securevault/cli/pkg/model"
	"github.com/securevault/cli/pkg/pipeline"
	"github.com/securevault/cli/pkg/preview"
	"github.com/securevault/cli/pkg/staging"
	bolt "go.etcd.io/bbolt"
)

// Ctrl wires the API client, token store, local db, and the four core
// components together for the CLI commands.
type Ctrl struct {
	DB       *bolt.DB
	Client   *api.Client
	Tokens   *auth.Store
	Staging  *staging.Manager
	Catalog  *catalog.Catalog
	Pipeline *pipeline.Pipeline
	Preview  *preview.Session
	Sharer   *preview.Sharer

	tokenSub *auth.Subscription
}

// Params configures controller construction
type Params struct {
	DBPath       string
	API          api.Params
	ShareCommand string
}

func NewCtrl(p Params) (*Ctrl, error) {
	db, err := GetDB(p.DBPath)
	if err != nil {
		return nil, err
	}
	if err := createBuckets(db); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	c := &Ctrl{
		DB:     db,
		Tokens: auth.NewStore(),
	}
	c.Client = api.NewClient(p.API, c.Tokens)
	c.Staging = staging.NewManager()
	c.Catalog = catalog.New(c.Client, c.Tokens, c)
	c.Pipeline = pipeline.New(c.Client, c.Catalog, c.Staging)
	c.Preview = preview.NewSession(c.Client, c.Catalog, c.Tokens)
	c.Sharer = preview.NewSharer(p.ShareCommand)

	if items, defaults, err := c.LoadStagedSet(); err == nil && len(items) > 0 {
		c.Staging.Restore(items, defaults)
	}

	c.tokenSub = c.Tokens.Subscribe()
	go c.watchTokenEvents()

	return c, nil
}

// watchTokenEvents clears staging, catalog, and preview state together
// when the token goes away. The epoch bump inside the token store takes
// care of discarding responses still in flight.
func (c *Ctrl) watchTokenEvents() {
	for ev := range c.tokenSub.C {
		if !ev.SignedIn {
			c.ResetState()
		}
	}
}

// ResetState drops all session state: staged files, catalog mirror, and
// the live preview resource.
func (c *Ctrl) ResetState() {
	c.Staging.Clear()
	c.Catalog.Clear()
	c.Preview.Reset()
	if err := c.SaveStagedSet(nil, model.GlobalUploadDefaults{}); err != nil {
		fmt.Printf("Warning: failed to clear staged set: %v\n", err)
	}
}

// PersistStaging snapshots the in-memory staged set into the store.
// Commands call it after every staging mutation.
func (c *Ctrl) PersistStaging() {
	if err := c.SaveStagedSet(c.Staging.Items(), c.Staging.Defaults()); err != nil {
		fmt.Printf("Warning: failed to persist staged set: %v\n", err)
	}
}

// Close releases the controller's resources
func (c *Ctrl) Close() error {
	if c.tokenSub != nil {
		c.tokenSub.Stop()
	}
	c.Preview.Reset()
	return c.DB.Close()
}

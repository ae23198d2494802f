// Package dataset loads the record collections served by the list screens
// from a JSON snapshot into in-memory stores.
package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/billadmin/backend/internal/domain/billing"
	"github.com/billadmin/backend/internal/domain/catalog"
	"github.com/billadmin/backend/internal/domain/customer"
	"github.com/billadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Source yields the raw snapshot document
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Location() string
}

// Snapshot is the JSON layout of a seed document
type Snapshot struct {
	Accounts []customer.Account `json:"accounts"`
	Profiles []customer.Profile `json:"profiles"`
	Plans    []catalog.Plan     `json:"plans"`
	Services []catalog.Service  `json:"services"`
	Invoices []billing.Invoice  `json:"invoices"`
}

// Counts reports how many records of each kind are held
type Counts struct {
	Accounts int `json:"accounts"`
	Profiles int `json:"profiles"`
	Plans    int `json:"plans"`
	Services int `json:"services"`
	Invoices int `json:"invoices"`
}

type stores struct {
	accounts *shared.Store[customer.Account]
	profiles *shared.Store[customer.Profile]
	plans    *shared.Store[catalog.Plan]
	services *shared.Store[catalog.Service]
	invoices *shared.Store[billing.Invoice]
}

// Dataset serves the loaded collections. A reload swaps every collection at
// once; readers never observe a half-loaded dataset.
type Dataset struct {
	mu      sync.RWMutex
	src     Source
	cur     stores
	version string
	logger  *zap.Logger
}

// ErrNoSource is returned by Reload on a dataset created without a source
var ErrNoSource = errors.New("dataset has no source")

// New creates an empty dataset reading from src. src may be nil for a
// dataset filled only through Load or Replace.
func New(src Source, logger *zap.Logger) *Dataset {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dataset{src: src, logger: logger}
	d.cur, _ = build(Snapshot{})
	return d
}

// Open creates a dataset and loads it from src
func Open(ctx context.Context, src Source, logger *zap.Logger) (*Dataset, error) {
	d := New(src, logger)
	if err := d.Reload(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload reads the source again. On error the current data is kept.
func (d *Dataset) Reload(ctx context.Context) error {
	if d.src == nil {
		return ErrNoSource
	}
	body, err := d.src.Open(ctx)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := d.Load(body); err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", d.src.Location(), err)
	}
	return nil
}

// Load replaces the data with the snapshot decoded from r
func (d *Dataset) Load(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return d.replace(snap, digest(raw))
}

// Replace swaps in snap. Ids must be unique per collection.
func (d *Dataset) Replace(snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return d.replace(snap, digest(raw))
}

func (d *Dataset) replace(snap Snapshot, version string) error {
	next, err := build(snap)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.cur = next
	d.version = version
	d.mu.Unlock()

	d.logger.Info("Dataset loaded",
		zap.String("version", version),
		zap.Int("accounts", len(snap.Accounts)),
		zap.Int("profiles", len(snap.Profiles)),
		zap.Int("plans", len(snap.Plans)),
		zap.Int("services", len(snap.Services)),
		zap.Int("invoices", len(snap.Invoices)),
	)
	return nil
}

// digest is the short content hash identifying a snapshot
func digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}

// Version identifies the loaded snapshot. It changes whenever the content
// does and is empty before the first load.
func (d *Dataset) Version() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

func build(snap Snapshot) (stores, error) {
	s := stores{
		accounts: shared.NewStore[customer.Account](),
		profiles: shared.NewStore[customer.Profile](),
		plans:    shared.NewStore[catalog.Plan](),
		services: shared.NewStore[catalog.Service](),
		invoices: shared.NewStore[billing.Invoice](),
	}
	if err := s.accounts.Replace(snap.Accounts); err != nil {
		return stores{}, fmt.Errorf("accounts: %w", err)
	}
	if err := s.profiles.Replace(snap.Profiles); err != nil {
		return stores{}, fmt.Errorf("profiles: %w", err)
	}
	if err := s.plans.Replace(snap.Plans); err != nil {
		return stores{}, fmt.Errorf("plans: %w", err)
	}
	if err := s.services.Replace(snap.Services); err != nil {
		return stores{}, fmt.Errorf("services: %w", err)
	}
	if err := s.invoices.Replace(snap.Invoices); err != nil {
		return stores{}, fmt.Errorf("invoices: %w", err)
	}
	return s, nil
}

func (d *Dataset) current() stores {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cur
}

// Counts returns the number of records held per collection
func (d *Dataset) Counts() Counts {
	s := d.current()
	return Counts{
		Accounts: s.accounts.Len(),
		Profiles: s.profiles.Len(),
		Plans:    s.plans.Len(),
		Services: s.services.Len(),
		Invoices: s.invoices.Len(),
	}
}

// CollectionSizes returns Counts keyed by collection name
func (d *Dataset) CollectionSizes() map[string]int {
	c := d.Counts()
	return map[string]int{
		"accounts": c.Accounts,
		"profiles": c.Profiles,
		"plans":    c.Plans,
		"services": c.Services,
		"invoices": c.Invoices,
	}
}

// Snapshot returns copies of every collection taken from one loaded
// snapshot. Requests joining collections read them through Snapshot so a
// concurrent reload cannot mix old and new records.
func (d *Dataset) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s := d.current()
	return Snapshot{
		Accounts: s.accounts.Snapshot(),
		Profiles: s.profiles.Snapshot(),
		Plans:    s.plans.Snapshot(),
		Services: s.services.Snapshot(),
		Invoices: s.invoices.Snapshot(),
	}, nil
}

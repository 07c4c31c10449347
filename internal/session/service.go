// Package session owns the local/cloud synchronization state machine. While
// no identity is signed in the local store is authoritative; after sign-in
// the remote tenant store is, and the local store becomes a mirror that is
// only ever written by realtime snapshot deliveries.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/qmuntal/stateless"

	"github.com/khatapp/khata/internal/identity"
	"github.com/khatapp/khata/internal/ledger"
	"github.com/khatapp/khata/internal/localstore"
)

// Subscription is a live realtime listener. Unsubscribe must be safe to call
// more than once.
type Subscription interface {
	Unsubscribe()
}

// RemoteStore is the per-tenant document store consumed by the session.
//
//go:generate mockgen -source=service.go -destination=remotestore_mock.go -package=session
type RemoteStore interface {
	UpsertCustomer(ctx context.Context, tenant string, c ledger.Customer) error
	UpsertTransaction(ctx context.Context, tenant string, t ledger.Transaction) error
	DeleteCustomer(ctx context.Context, tenant, id string) error
	DeleteTransaction(ctx context.Context, tenant, id string) error
	DeleteTransactionsFor(ctx context.Context, tenant, customerID string) error
	CustomerIDs(ctx context.Context, tenant string) (map[string]struct{}, error)
	TransactionIDs(ctx context.Context, tenant string) (map[string]struct{}, error)
	SubscribeCustomers(ctx context.Context, tenant string, fn func([]ledger.Customer)) Subscription
	SubscribeTransactions(ctx context.Context, tenant string, fn func([]ledger.Transaction)) Subscription
}

const (
	stateAnonymous     = "anonymous"
	stateAuthenticated = "authenticated"

	triggerSignedIn    = "signedIn"
	triggerSignedOut   = "signedOut"
	triggerResubscribe = "resubscribe"
)

// Session holds all mutable synchronization state: current identity, live
// subscription handles and the listener generation. Nothing in this package
// is package-level state.
type Session struct {
	local    *localstore.Store
	remote   RemoteStore
	identity identity.Service

	machine *stateless.StateMachine

	// gen invalidates snapshot callbacks from superseded subscriptions:
	// every transition bumps it, and a delivery whose generation no longer
	// matches is dropped. This is what keeps a late snapshot from a stale
	// listener from repopulating the mirror after sign-out.
	gen atomic.Uint64

	// opMu serializes load-mutate-persist sequences on the local
	// collections while anonymous.
	opMu sync.Mutex

	mu            sync.Mutex
	current       *identity.Identity
	subs          []Subscription
	stopAuth      func()
	transitionErr error
}

// New builds a session in the anonymous state. identitySvc and remoteStore
// may be nil together, which disables sign-in but keeps every local
// operation working.
func New(local *localstore.Store, remoteStore RemoteStore, identitySvc identity.Service) *Session {
	s := &Session{
		local:    local,
		remote:   remoteStore,
		identity: identitySvc,
	}

	machine := stateless.NewStateMachine(stateAnonymous)

	machine.Configure(stateAnonymous).
		OnEntryFrom(triggerSignedOut, s.onSignedOut).
		Permit(triggerSignedIn, stateAuthenticated)

	machine.Configure(stateAuthenticated).
		OnEntryFrom(triggerSignedIn, s.onEnterTenant).
		OnEntryFrom(triggerResubscribe, s.onEnterTenant).
		Permit(triggerSignedOut, stateAnonymous).
		PermitReentry(triggerResubscribe)

	s.machine = machine

	return s
}

// Start subscribes to identity transitions. It must be called once before
// use when an identity service is configured.
func (s *Session) Start(ctx context.Context) {
	if s.identity == nil {
		return
	}

	s.mu.Lock()
	started := s.stopAuth != nil
	s.mu.Unlock()

	if started {
		return
	}

	// The provider invokes the listener synchronously on subscribe, so the
	// session mutex must not be held here.
	stop := s.identity.OnAuthStateChanged(func(id *identity.Identity) {
		err := s.handleAuthChange(ctx, id)
		if err != nil {
			slog.Error("identity transition failed", "error", err)
		}

		s.setTransitionErr(err)
	})

	s.mu.Lock()
	s.stopAuth = stop
	s.mu.Unlock()
}

// Close tears down the auth listener and any live subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	stop := s.stopAuth
	s.stopAuth = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}

	s.gen.Add(1)
	s.closeSubscriptions()
}

// Authenticated reports whether a remote tenant is currently authoritative.
func (s *Session) Authenticated() bool {
	return s.machine.MustState() == stateAuthenticated
}

// Current returns the signed-in identity, or nil.
func (s *Session) Current() *identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// SignUp registers a new account and waits for the resulting transition
// (migration included) to finish before reporting success.
func (s *Session) SignUp(ctx context.Context, email, password string) (*identity.Identity, error) {
	return s.authenticate(ctx, email, password, true)
}

// SignIn authenticates and waits for the resulting transition to finish.
func (s *Session) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	return s.authenticate(ctx, email, password, false)
}

func (s *Session) authenticate(ctx context.Context, email, password string, signUp bool) (*identity.Identity, error) {
	if s.identity == nil {
		return nil, fmt.Errorf("no identity provider configured")
	}

	var (
		ident *identity.Identity
		err   error
	)

	// The auth-state listener runs synchronously inside the provider call,
	// so the migration and subscription rewiring complete before it returns.
	if signUp {
		ident, err = s.identity.SignUp(ctx, email, password)
	} else {
		ident, err = s.identity.SignIn(ctx, email, password)
	}

	if err != nil {
		return nil, err
	}

	if err := s.takeTransitionErr(); err != nil {
		return nil, fmt.Errorf("synchronizing after sign-in: %w", err)
	}

	return ident, nil
}

// SignOut signs out of the identity provider and returns once the local
// store is authoritative again.
func (s *Session) SignOut(ctx context.Context) error {
	if s.identity == nil {
		return fmt.Errorf("no identity provider configured")
	}

	if err := s.identity.SignOut(ctx); err != nil {
		return err
	}

	return s.takeTransitionErr()
}

// handleAuthChange routes an identity transition into the state machine.
func (s *Session) handleAuthChange(ctx context.Context, id *identity.Identity) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	switch {
	case id == nil && current == nil:
		// Initial callback while anonymous; nothing to do.
		return nil
	case id == nil:
		return s.machine.FireCtx(ctx, triggerSignedOut)
	case current == nil:
		return s.machine.FireCtx(ctx, triggerSignedIn, id)
	case current.UID == id.UID:
		return s.machine.FireCtx(ctx, triggerResubscribe, id)
	default:
		// Identity switched without an intervening sign-out.
		if err := s.machine.FireCtx(ctx, triggerSignedOut); err != nil {
			return err
		}

		return s.machine.FireCtx(ctx, triggerSignedIn, id)
	}
}

// onEnterTenant runs on every entry into the authenticated state: migrate
// local records, clear the mirror, rewire the subscriptions. It is
// idempotent, so a reconnect or an interrupted previous attempt just runs it
// again.
func (s *Session) onEnterTenant(ctx context.Context, args ...any) error {
	ident, ok := args[0].(*identity.Identity)
	if !ok || ident == nil {
		return fmt.Errorf("missing identity on %s", triggerSignedIn)
	}

	s.mu.Lock()
	s.current = ident
	s.mu.Unlock()

	if err := s.migrate(ctx, ident.UID); err != nil {
		return fmt.Errorf("migrating local records: %w", err)
	}

	// The mirror is repopulated by the first snapshot delivery.
	if err := s.local.Clear(); err != nil {
		return fmt.Errorf("clearing local mirror: %w", err)
	}

	s.openSubscriptions(ident.UID)

	return nil
}

// onSignedOut closes the subscriptions before the transition completes so a
// late snapshot can never deliver another tenant's data.
func (s *Session) onSignedOut(_ context.Context, _ ...any) error {
	s.gen.Add(1)
	s.closeSubscriptions()

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	return nil
}

// migrate performs the one-time local-to-remote migration. Existence checks
// are keyed by id, so an interrupted run never duplicates records on retry.
func (s *Session) migrate(ctx context.Context, tenant string) error {
	customers := s.local.Customers()
	transactions := s.local.Transactions()

	if len(customers) == 0 && len(transactions) == 0 {
		return nil
	}

	if len(customers) > 0 {
		existing, err := s.remote.CustomerIDs(ctx, tenant)
		if err != nil {
			return fmt.Errorf("listing remote customers: %w", err)
		}

		for _, c := range customers {
			if c.ID == "" {
				c.ID = ledger.NewID()
			}

			if _, ok := existing[c.ID]; ok {
				continue
			}

			if err := s.remote.UpsertCustomer(ctx, tenant, c); err != nil {
				return err
			}
		}
	}

	if len(transactions) > 0 {
		existing, err := s.remote.TransactionIDs(ctx, tenant)
		if err != nil {
			return fmt.Errorf("listing remote transactions: %w", err)
		}

		for _, t := range transactions {
			if t.ID == "" {
				t.ID = ledger.NewID()
			}

			if _, ok := existing[t.ID]; ok {
				continue
			}

			if err := s.remote.UpsertTransaction(ctx, tenant, t); err != nil {
				return err
			}
		}
	}

	return nil
}

// openSubscriptions replaces any live listeners with a fresh pair for the
// tenant. Deliveries carry the generation they were opened under and are
// dropped once superseded.
func (s *Session) openSubscriptions(tenant string) {
	s.closeSubscriptions()

	gen := s.gen.Add(1)

	// Subscriptions outlive the sign-in call; they are bounded by
	// Unsubscribe, not by the request context.
	ctx := context.Background()

	customerSub := s.remote.SubscribeCustomers(ctx, tenant, func(customers []ledger.Customer) {
		if s.gen.Load() != gen {
			return
		}

		if err := s.local.PutCustomers(customers); err != nil {
			slog.Error("writing customer mirror", "error", err)
		}
	})

	transactionSub := s.remote.SubscribeTransactions(ctx, tenant, func(transactions []ledger.Transaction) {
		if s.gen.Load() != gen {
			return
		}

		if err := s.local.PutTransactions(transactions); err != nil {
			slog.Error("writing transaction mirror", "error", err)
		}
	})

	s.mu.Lock()
	s.subs = []Subscription{customerSub, transactionSub}
	s.mu.Unlock()
}

func (s *Session) closeSubscriptions() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (s *Session) setTransitionErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transitionErr = err
}

func (s *Session) takeTransitionErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.transitionErr
	s.transitionErr = nil

	return err
}

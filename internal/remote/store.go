// Package remote adapts per-tenant Firestore collections to the ledger
// domain. Documents live under tenants/{uid}/customers and
// tenants/{uid}/transactions; every operation is scoped by the owning
// identity's uid, so cross-tenant reads are impossible by construction.
package remote

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/hashicorp/go-multierror"
	"google.golang.org/api/iterator"

	"github.com/khatapp/khata/internal/ledger"
	"github.com/khatapp/khata/internal/session"
)

var _ session.RemoteStore = (*Store)(nil)

const (
	tenantsCollection      = "tenants"
	customersCollection    = "customers"
	transactionsCollection = "transactions"

	// Firestore caps a write batch at 500 operations.
	maxBatchSize = 500
)

// Store is the Firestore-backed remote store.
type Store struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) customers(tenant string) *firestore.CollectionRef {
	return s.client.Collection(tenantsCollection).Doc(tenant).Collection(customersCollection)
}

func (s *Store) transactions(tenant string) *firestore.CollectionRef {
	return s.client.Collection(tenantsCollection).Doc(tenant).Collection(transactionsCollection)
}

// UpsertCustomer creates or merges the customer document. Running it twice
// with the same input leaves the same stored state.
func (s *Store) UpsertCustomer(ctx context.Context, tenant string, c ledger.Customer) error {
	if _, err := s.customers(tenant).Doc(c.ID).Set(ctx, encodeCustomer(c), firestore.MergeAll); err != nil {
		return fmt.Errorf("upserting customer %s: %w", c.ID, err)
	}

	return nil
}

// UpsertTransaction creates or merges the transaction document.
func (s *Store) UpsertTransaction(ctx context.Context, tenant string, t ledger.Transaction) error {
	if _, err := s.transactions(tenant).Doc(t.ID).Set(ctx, encodeTransaction(t), firestore.MergeAll); err != nil {
		return fmt.Errorf("upserting transaction %s: %w", t.ID, err)
	}

	return nil
}

// DeleteCustomer removes a single customer document; deleting an absent
// document is a no-op.
func (s *Store) DeleteCustomer(ctx context.Context, tenant, id string) error {
	if _, err := s.customers(tenant).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting customer %s: %w", id, err)
	}

	return nil
}

// DeleteTransaction removes a single transaction document.
func (s *Store) DeleteTransaction(ctx context.Context, tenant, id string) error {
	if _, err := s.transactions(tenant).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting transaction %s: %w", id, err)
	}

	return nil
}

// DeleteTransactionsFor batch-deletes every transaction referencing the
// customer. Each batch of up to 500 deletes commits atomically; a failed
// batch does not stop the remaining ones, and every failure is reported.
func (s *Store) DeleteTransactionsFor(ctx context.Context, tenant, customerID string) error {
	docs := s.transactions(tenant).
		Where("customerId", "==", customerID).
		Select().
		Documents(ctx)
	defer docs.Stop()

	var refs []*firestore.DocumentRef

	for {
		doc, err := docs.Next()
		if err == iterator.Done {
			break
		}

		if err != nil {
			return fmt.Errorf("listing transactions of customer %s: %w", customerID, err)
		}

		refs = append(refs, doc.Ref)
	}

	var errs *multierror.Error

	for start := 0; start < len(refs); start += maxBatchSize {
		end := min(start+maxBatchSize, len(refs))

		batch := s.client.Batch()
		for _, ref := range refs[start:end] {
			batch.Delete(ref)
		}

		if _, err := batch.Commit(ctx); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("deleting transactions %d-%d of customer %s: %w", start, end-1, customerID, err))
		}
	}

	return errs.ErrorOrNil()
}

// CustomerIDs returns the set of customer document ids for the tenant. The
// sign-in migration uses it to skip records that already exist remotely.
func (s *Store) CustomerIDs(ctx context.Context, tenant string) (map[string]struct{}, error) {
	return s.collectIDs(s.customers(tenant).Select().Documents(ctx))
}

// TransactionIDs returns the set of transaction document ids for the tenant.
func (s *Store) TransactionIDs(ctx context.Context, tenant string) (map[string]struct{}, error) {
	return s.collectIDs(s.transactions(tenant).Select().Documents(ctx))
}

func (s *Store) collectIDs(docs *firestore.DocumentIterator) (map[string]struct{}, error) {
	defer docs.Stop()

	ids := make(map[string]struct{})

	for {
		doc, err := docs.Next()
		if err == iterator.Done {
			return ids, nil
		}

		if err != nil {
			return nil, fmt.Errorf("listing document ids: %w", err)
		}

		ids[doc.Ref.ID] = struct{}{}
	}
}

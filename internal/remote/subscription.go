package remote

import (
	"context"
	"log/slog"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/khatapp/khata/internal/ledger"
	"github.com/khatapp/khata/internal/session"
)

// Subscription is a realtime listener handle. Unsubscribe stops delivery and
// is safe to call any number of times, including concurrently.
type Subscription struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// Unsubscribe cancels the listener and waits until no further callback can
// be in flight.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// SubscribeCustomers delivers the tenant's full customer collection to fn:
// once immediately, then again after every add, update or delete.
func (s *Store) SubscribeCustomers(ctx context.Context, tenant string, fn func([]ledger.Customer)) session.Subscription {
	return subscribe(ctx, s.customers(tenant).Query, "customers", func(docs []*firestore.DocumentSnapshot) {
		customers := make([]ledger.Customer, 0, len(docs))
		for _, doc := range docs {
			customers = append(customers, decodeCustomer(doc.Ref.ID, doc.Data()))
		}

		fn(customers)
	})
}

// SubscribeTransactions is the transaction-collection counterpart of
// SubscribeCustomers.
func (s *Store) SubscribeTransactions(ctx context.Context, tenant string, fn func([]ledger.Transaction)) session.Subscription {
	return subscribe(ctx, s.transactions(tenant).Query, "transactions", func(docs []*firestore.DocumentSnapshot) {
		transactions := make([]ledger.Transaction, 0, len(docs))
		for _, doc := range docs {
			transactions = append(transactions, decodeTransaction(doc.Ref.ID, doc.Data()))
		}

		fn(transactions)
	})
}

func subscribe(ctx context.Context, query firestore.Query, collection string, deliver func([]*firestore.DocumentSnapshot)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)

		snapshots := query.Snapshots(ctx)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					slog.Error("snapshot listener stopped", "collection", collection, "error", err)
				}

				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				slog.Error("reading snapshot documents", "collection", collection, "error", err)
				continue
			}

			deliver(docs)
		}
	}()

	return sub
}

package order

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storefront/internal/domain"
)

// Firestore writes orders to a collection, one document per order.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore connects with application default credentials.
func NewFirestore(ctx context.Context, projectID, collection string) (*Firestore, error) {
	if projectID == "" {
		return nil, errors.New("firestore project is required")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return NewFirestoreWithClient(client, collection), nil
}

func NewFirestoreWithClient(client *firestore.Client, collection string) *Firestore {
	if collection == "" {
		collection = "orders"
	}
	return &Firestore{client: client, collection: collection}
}

func (f *Firestore) col() *firestore.CollectionRef {
	return f.client.Collection(f.collection)
}

// CreateOrder uses o.ID as the document id, or lets Firestore pick one.
func (f *Firestore) CreateOrder(ctx context.Context, o domain.Order) (string, error) {
	if f == nil || f.client == nil {
		return "", errors.New("order firestore: client is nil")
	}
	ref := f.col().NewDoc()
	if o.ID != "" {
		ref = f.col().Doc(o.ID)
	}
	if _, err := ref.Create(ctx, o); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return "", domain.ErrDuplicateOrder
		}
		return "", fmt.Errorf("create order document: %w", err)
	}
	return ref.ID, nil
}

func (f *Firestore) FindOrder(ctx context.Context, id string) (domain.Order, error) {
	if f == nil || f.client == nil {
		return domain.Order{}, errors.New("order firestore: client is nil")
	}
	snap, err := f.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("get order document: %w", err)
	}
	var o domain.Order
	if err := snap.DataTo(&o); err != nil {
		return domain.Order{}, fmt.Errorf("decode order document: %w", err)
	}
	o.ID = snap.Ref.ID
	return o, nil
}

func (f *Firestore) Close() error {
	if f == nil || f.client == nil {
		return nil
	}
	return f.client.Close()
}

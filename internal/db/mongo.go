package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"RentReport/internal/models"
)

type Collections struct {
	Leases    string
	Payments  string
	Inventory string
	EmailLogs string
}

// Mongo is the document store holding landlord data and the email audit trail.
// Call Initialize once from the composition root before use.
type Mongo struct {
	URI         string
	Database    string
	Collections Collections

	once   sync.Once
	client *mongo.Client
	db     *mongo.Database
	err    error
}

// Initialize connects and pings the primary. It is safe to call more than
// once; later calls return the result of the first.
func (m *Mongo) Initialize(ctx context.Context) error {
	m.once.Do(func() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(m.URI))
		if err != nil {
			m.err = fmt.Errorf("failed to connect to MongoDB: %w", err)
			return
		}

		pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
		defer cancelPing()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			m.err = fmt.Errorf("failed to ping MongoDB: %w", err)
			return
		}

		m.client = client
		m.db = client.Database(m.Database)
	})
	return m.err
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}

func (m *Mongo) collection(name string) (*mongo.Collection, error) {
	if m.db == nil {
		return nil, fmt.Errorf("mongo store not initialized")
	}
	return m.db.Collection(name), nil
}

func findByLandlord[T any](ctx context.Context, m *Mongo, name, landlordID string) ([]T, error) {
	coll, err := m.collection(name)
	if err != nil {
		return nil, err
	}

	cur, err := coll.Find(ctx, bson.M{"landlordId": landlordID})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", name, err)
	}

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

func (m *Mongo) FetchLeases(ctx context.Context, landlordID string) ([]models.Lease, error) {
	return findByLandlord[models.Lease](ctx, m, m.Collections.Leases, landlordID)
}

func (m *Mongo) FetchPayments(ctx context.Context, landlordID string) ([]models.Payment, error) {
	return findByLandlord[models.Payment](ctx, m, m.Collections.Payments, landlordID)
}

func (m *Mongo) FetchInventory(ctx context.Context, landlordID string) ([]models.InventoryUnit, error) {
	return findByLandlord[models.InventoryUnit](ctx, m, m.Collections.Inventory, landlordID)
}

func (m *Mongo) InsertEmailLog(ctx context.Context, entry *models.EmailLogEntry) error {
	coll, err := m.collection(m.Collections.EmailLogs)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert email log: %w", err)
	}
	return nil
}

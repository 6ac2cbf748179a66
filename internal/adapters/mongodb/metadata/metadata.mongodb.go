package metadata

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mmongo"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository provides an interface for metadata documents attached to
// accounts and transactions.
//
//go:generate mockgen --destination=metadata.mock.go --package=metadata . Repository
type Repository interface {
	Create(ctx context.Context, entityName string, m *Metadata) error
	FindByEntity(ctx context.Context, entityName, entityID string) (map[string]any, error)
}

// MetadataMongoDBRepository is a MongoDB-specific implementation of the
// metadata Repository. One collection per entity name.
type MetadataMongoDBRepository struct {
	connection *mmongo.MongoConnection
}

// NewMetadataMongoDBRepository returns a new instance of
// MetadataMongoDBRepository using the given MongoDB connection.
func NewMetadataMongoDBRepository(mc *mmongo.MongoConnection) *MetadataMongoDBRepository {
	return &MetadataMongoDBRepository{connection: mc}
}

// Create stores the metadata document for an entity.
func (r *MetadataMongoDBRepository) Create(ctx context.Context, entityName string, m *Metadata) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "mongodb.create_metadata")
	defer span.End()

	db, err := r.connection.GetDatabase(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get mongodb database", err)

		return err
	}

	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt

	if _, err := db.Collection(strings.ToLower(entityName)).InsertOne(ctx, m); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to insert metadata", err)

		return err
	}

	return nil
}

// FindByEntity loads the metadata map for the given entity, or nil when
// the entity has none.
func (r *MetadataMongoDBRepository) FindByEntity(ctx context.Context, entityName, entityID string) (map[string]any, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "mongodb.find_metadata_by_entity")
	defer span.End()

	db, err := r.connection.GetDatabase(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get mongodb database", err)

		return nil, err
	}

	var doc Metadata

	err = db.Collection(strings.ToLower(entityName)).
		FindOne(ctx, bson.M{"entity_id": entityID}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		mopentelemetry.HandleSpanError(&span, "Failed to find metadata", err)

		return nil, err
	}

	return doc.Data, nil
}

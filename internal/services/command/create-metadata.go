package command

import (
	"context"

	"github.com/quantora/ledger/internal/adapters/mongodb/metadata"
	"github.com/quantora/ledger/pkg"
)

// CreateMetadata stores the metadata document for an entity when the
// caller supplied one. Metadata lives outside the durable ledger
// transaction; a failure here is surfaced but never unwinds posted
// rows.
func (uc *UseCase) CreateMetadata(ctx context.Context, entityName, entityID string, data map[string]any) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.create_metadata")
	defer span.End()

	doc := &metadata.Metadata{
		ID:         pkg.GenerateUUIDv7().String(),
		EntityID:   entityID,
		EntityName: entityName,
		Data:       data,
	}

	if err := uc.MetadataRepo.Create(ctx, entityName, doc); err != nil {
		return nil, err
	}

	return data, nil
}

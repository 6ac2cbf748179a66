package metadata

import "time"

// Metadata is the document stored per entity. EntityID is the aggregate
// id the key/value data belongs to.
type Metadata struct {
	ID         string         `bson:"_id"`
	EntityID   string         `bson:"entity_id"`
	EntityName string         `bson:"entity_name"`
	Data       map[string]any `bson:"metadata"`
	CreatedAt  time.Time      `bson:"created_at"`
	UpdatedAt  time.Time      `bson:"updated_at"`
}

package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AllowlistEntry holds the schema definition for a single admin-added
// API surface entry, layered on top of the pipeline's built-in
// framework-method allowlist.
type AllowlistEntry struct {
	ent.Schema
}

func (AllowlistEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("entry_id").
			Unique().
			Immutable(),
		field.String("method_name").
			Comment("e.g. 'customValidate' addressable as receiver.customValidate("),
		field.String("description").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now),
	}
}

func (AllowlistEntry) Edges() []ent.Edge {
	return nil
}

func (AllowlistEntry) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("method_name").
			Unique(),
	}
}

func (AllowlistEntry) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}

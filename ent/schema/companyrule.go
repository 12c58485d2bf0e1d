package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CompanyRule holds the schema definition for an admin-managed block
// of additional prompt rules appended to the system prompt for a
// given target kind.
type CompanyRule struct {
	ent.Schema
}

func (CompanyRule) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("rule_id").
			Unique().
			Immutable(),
		field.String("target_kind"),
		field.Bool("active").
			Default(true),
		field.Text("additional_rules"),
		field.Time("created_at").
			Default(time.Now),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (CompanyRule) Edges() []ent.Edge {
	return nil
}

func (CompanyRule) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("target_kind", "active"),
	}
}

func (CompanyRule) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}

package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GenerationRecord holds the schema definition for the audit trail of
// a completed generation job. It never stores the raw Intent or LLM
// input: only pass outcomes, so the audit log can be retained and
// searched without re-exposing whatever the user originally typed.
type GenerationRecord struct {
	ent.Schema
}

func (GenerationRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("record_id").
			Unique().
			Immutable(),
		field.String("job_id").
			Comment("GenerationJob this record audits"),
		field.String("screen_name").
			Optional().
			Nillable(),
		field.Enum("mode").
			Values("strict", "relaxed", "dev"),
		field.Enum("outcome").
			Values("success", "structural_failure", "aborted"),
		field.JSON("pass_outcomes", map[string]string{}).
			Comment("pass name -> ok/warning/error, not the rewritten text itself"),
		field.Int("warning_count").
			Default(0),
		field.Bool("retried").
			Default(false),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (GenerationRecord) Edges() []ent.Edge {
	return nil
}

func (GenerationRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("job_id"),
		index.Fields("created_at"),
		index.Fields("outcome"),
	}
}

func (GenerationRecord) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}

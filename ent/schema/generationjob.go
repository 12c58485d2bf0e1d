package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GenerationJob holds the schema definition for one queued generation
// request: an Intent plus the execution mode it should run under, and
// the terminal XML/JS/warnings once a worker has processed it.
type GenerationJob struct {
	ent.Schema
}

func (GenerationJob) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("job_id").
			Unique().
			Immutable(),
		field.JSON("intent", map[string]interface{}{}).
			Comment("Serialized ScreenIntent or SpringIntent payload"),
		field.String("intent_kind").
			Comment("screen or spring, selects how intent is deserialized"),
		field.Enum("mode").
			Values("strict", "relaxed", "dev").
			Default("relaxed"),
		field.Enum("status").
			Values("pending", "in_progress", "completed", "failed").
			Default("pending"),
		field.Text("result_xml").
			Optional().
			Nillable(),
		field.Text("result_js").
			Optional().
			Nillable(),
		field.JSON("warnings", []string{}).
			Optional(),
		field.Bool("retried").
			Default(false).
			Comment("Whether the single structural-failure retry was used"),
		field.String("error_message").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.String("pod_id").
			Optional().
			Nillable().
			Comment("For multi-replica coordination"),
		field.Time("last_interaction_at").
			Optional().
			Nillable().
			Comment("For orphan detection"),
	}
}

func (GenerationJob) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("record", GenerationRecord.Type).
			Unique(),
	}
}

func (GenerationJob) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status"),
		index.Fields("status", "created_at"),
		index.Fields("status", "last_interaction_at"),
	}
}

func (GenerationJob) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}

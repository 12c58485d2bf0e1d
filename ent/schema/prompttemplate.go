package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PromptTemplate holds the schema definition for a versioned system
// and user prompt template, keyed by the screen/intent kind it
// applies to.
type PromptTemplate struct {
	ent.Schema
}

func (PromptTemplate) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("template_id").
			Unique().
			Immutable(),
		field.String("target_kind").
			Comment("e.g. screen_list, screen_detail, screen_popup, spring"),
		field.Int("version").
			Default(1),
		field.Bool("active").
			Default(true),
		field.Text("system_prompt"),
		field.Text("user_prompt_template"),
		field.Time("created_at").
			Default(time.Now),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (PromptTemplate) Edges() []ent.Edge {
	return nil
}

func (PromptTemplate) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("target_kind", "active"),
		index.Fields("target_kind", "version").
			Unique(),
	}
}

func (PromptTemplate) Annotations() []schema.Annotation {
	return []schema.Annotation{}
}

package promptcompiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/screenforge/screenforge/pkg/intent"
)

func testScreenIntent() intent.ScreenIntent {
	columns := []intent.ColumnIntent{
		{Name: "id", Label: "ID", IsPK: true}.Normalize(),
		{Name: "name", Label: "이름", UIType: intent.UITypeInput, Required: true},
		{Name: "email", Label: "이메일", UIType: intent.UITypeInput},
	}
	dataset := intent.DatasetIntent{ID: "ds_member", Table: "member", Columns: columns}
	grid := intent.GridIntent{
		ID:        "grid_member",
		DatasetID: "ds_member",
		Columns: []intent.GridColumnIntent{
			{Name: "name", Header: "이름"},
			{Name: "email", Header: "이메일"},
		},
	}
	return intent.ScreenIntent{
		ScreenName: "member_list",
		ScreenType: intent.ScreenList,
		Datasets:   []intent.DatasetIntent{dataset},
		Grids:      []intent.GridIntent{grid},
	}
}

func TestCompile_Interpolation(t *testing.T) {
	tmpl := Template{
		SystemPrompt:       DefaultSystemPrompt(intent.ScreenList),
		UserPromptTemplate: "Screen: {{screen_name}}\nDatasets: {{datasets}}\nGrid: {{grid_columns}}",
	}
	out := Compile(tmpl, testScreenIntent(), nil)

	assert.NotEmpty(t, out.System)
	assert.Contains(t, out.User, "member_list")
	assert.Contains(t, out.User, "ds_member")
	assert.Contains(t, out.User, "이름")
}

func TestCompile_ConditionalBlockTruthy(t *testing.T) {
	tmpl := Template{
		UserPromptTemplate: "{{#if notes}}Notes: {{notes}}{{/if}}",
	}
	in := testScreenIntent()
	in.Notes = "handle with care"
	out := Compile(tmpl, in, nil)
	assert.Equal(t, "Notes: handle with care", out.User)
}

func TestCompile_ConditionalBlockFalsy(t *testing.T) {
	tmpl := Template{
		UserPromptTemplate: "before{{#if notes}}Notes: {{notes}}{{/if}}after",
	}
	out := Compile(tmpl, testScreenIntent(), nil)
	assert.Equal(t, "beforeafter", out.User)
}

func TestCompile_CompanyRulesAppendedToSystemAndSubstituted(t *testing.T) {
	tmpl := Template{
		SystemPrompt:       "base system",
		UserPromptTemplate: "{{#if company_rules}}Rules: {{company_rules}}{{/if}}",
	}
	rules := &CompanyRules{AdditionalRules: "no raw SQL in JS"}
	out := Compile(tmpl, testScreenIntent(), rules)

	assert.Contains(t, out.System, "COMPANY-SPECIFIC RULES:")
	assert.Contains(t, out.System, "no raw SQL in JS")
	assert.Equal(t, "Rules: no raw SQL in JS", out.User)
}

func TestCompile_SpringPlaceholders(t *testing.T) {
	in := intent.SpringIntent{
		EntityName:  "Member",
		TableName:   "TB_MEMBER",
		PackageBase: "com.company.project",
		Columns: []intent.ColumnIntent{
			{Name: "member_id", Label: "회원ID", DataType: intent.DataTypeInteger, IsPK: true},
		},
		CrudOperations: intent.DefaultCrudOperations(),
	}
	tmpl := Template{UserPromptTemplate: "{{entity_name}} / {{table_name}} / {{columns}} / {{crud_operations}}"}
	out := Compile(tmpl, in, nil)

	assert.Contains(t, out.User, "Member")
	assert.Contains(t, out.User, "TB_MEMBER")
	assert.Contains(t, out.User, "memberId")
	assert.Contains(t, out.User, "create")
}

func TestCompile_UnknownPlaceholderResolvesEmpty(t *testing.T) {
	tmpl := Template{UserPromptTemplate: "[{{nonexistent}}]"}
	out := Compile(tmpl, testScreenIntent(), nil)
	assert.Equal(t, "[]", out.User)
}

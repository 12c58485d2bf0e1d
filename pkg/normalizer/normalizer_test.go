package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenforge/screenforge/pkg/intent"
)

func TestFromSchema_Basic(t *testing.T) {
	schema := SchemaInput{
		Table: "member",
		Columns: []SchemaColumn{
			{Name: "id", ColumnType: "INTEGER", PK: true},
			{Name: "name", ColumnType: "VARCHAR(100)"},
			{Name: "email", ColumnType: "VARCHAR(255)", Nullable: true},
			{Name: "created_at", ColumnType: "DATETIME", Nullable: true},
		},
	}

	screen, err := FromSchema(schema)
	require.NoError(t, err)

	assert.Equal(t, "member_list", screen.ScreenName)
	assert.Equal(t, intent.ScreenList, screen.ScreenType)
	require.Len(t, screen.Datasets, 1)
	assert.Equal(t, "ds_member", screen.Datasets[0].ID)
	assert.Len(t, screen.Datasets[0].Columns, 4)
	require.Len(t, screen.Grids, 1)
	assert.NoError(t, screen.Validate())
}

func TestFromSchemaToSpring_Basic(t *testing.T) {
	schema := SpringInput{
		Table: "member",
		Columns: []SchemaColumn{
			{Name: "id", ColumnType: "INTEGER", PK: true},
			{Name: "name", ColumnType: "VARCHAR(100)"},
			{Name: "email", ColumnType: "VARCHAR(255)", Nullable: true},
		},
	}

	spring, err := FromSchemaToSpring(schema)
	require.NoError(t, err)

	assert.Equal(t, "Member", spring.EntityName)
	assert.Equal(t, "member", spring.TableName)
	assert.Equal(t, defaultSpringPackageBase, spring.PackageBase)
	assert.Len(t, spring.Columns, 3)
	assert.Equal(t, intent.DefaultCrudOperations(), spring.CrudOperations)
	assert.Equal(t, intent.DefaultSpringOptions(), spring.Options)
	assert.NoError(t, spring.Validate())
}

func TestFromSchemaToSpring_RespectsOverrides(t *testing.T) {
	ops := []intent.CrudOperation{intent.CrudRead, intent.CrudReadList}
	opts := intent.SpringOptions{UseLombok: true}
	schema := SpringInput{
		EntityName:     "MemberAccount",
		Table:          "member_account",
		PackageBase:    "com.acme.billing",
		CrudOperations: ops,
		Options:        &opts,
		Columns: []SchemaColumn{
			{Name: "id", ColumnType: "BIGINT", PK: true},
		},
	}

	spring, err := FromSchemaToSpring(schema)
	require.NoError(t, err)

	assert.Equal(t, "MemberAccount", spring.EntityName)
	assert.Equal(t, "com.acme.billing", spring.PackageBase)
	assert.Equal(t, ops, spring.CrudOperations)
	assert.Equal(t, opts, spring.Options)
}

func TestFromSchemaToSpring_NoTableFails(t *testing.T) {
	_, err := FromSchemaToSpring(SpringInput{})
	assert.Error(t, err)
}

func TestInferTypes(t *testing.T) {
	cases := []struct {
		dbType   string
		wantUI   intent.UIType
		wantData intent.DataType
	}{
		{"VARCHAR(100)", intent.UITypeInput, intent.DataTypeString},
		{"TEXT", intent.UITypeTextArea, intent.DataTypeText},
		{"DATE", intent.UITypeDatePicker, intent.DataTypeDate},
		{"BOOLEAN", intent.UITypeCheckbox, intent.DataTypeBoolean},
		{"INTEGER", intent.UITypeNumber, intent.DataTypeInteger},
		{"VARCHAR(600)", intent.UITypeTextArea, intent.DataTypeString},
	}
	for _, c := range cases {
		ui, data := inferTypes(c.dbType, false)
		assert.Equal(t, c.wantUI, ui, c.dbType)
		assert.Equal(t, c.wantData, data, c.dbType)
	}
}

func TestInferLabel(t *testing.T) {
	assert.Equal(t, "이메일", inferLabel("email", ""))
	assert.Equal(t, "등록일", inferLabel("created_at", ""))
	assert.Equal(t, "회원명", inferLabel("member_name", ""))
	assert.Equal(t, "Custom Field", inferLabel("custom_field", ""))
	assert.Equal(t, "from comment", inferLabel("email", "from comment"))
}

func TestExtractVarcharLength(t *testing.T) {
	n, ok := extractVarcharLength("VARCHAR(100)")
	assert.True(t, ok)
	assert.Equal(t, 100, n)

	n, ok = extractVarcharLength("CHAR(10)")
	assert.True(t, ok)
	assert.Equal(t, 10, n)

	_, ok = extractVarcharLength("TEXT")
	assert.False(t, ok)
}

func TestExtractTableFromQuery(t *testing.T) {
	table, err := extractTableFromQuery("SELECT * FROM members WHERE id = 1")
	require.NoError(t, err)
	assert.Equal(t, "members", table)

	table, err = extractTableFromQuery("SELECT id, name FROM schema.users u")
	require.NoError(t, err)
	assert.Equal(t, "users", table)

	_, err = extractTableFromQuery("SELECT 1")
	assert.Error(t, err)
}

func TestFromQuery_SelectStarWithoutColumnsFails(t *testing.T) {
	_, err := FromQuery(QuerySampleInput{Query: "SELECT * FROM members"})
	var unnorm *UnnormalizableError
	assert.ErrorAs(t, err, &unnorm)
}

func TestFromQuery_ParsesSelectList(t *testing.T) {
	screen, err := FromQuery(QuerySampleInput{Query: "SELECT id, member_name AS name FROM members"})
	require.NoError(t, err)
	require.Len(t, screen.Datasets[0].Columns, 2)
	assert.Equal(t, "id", screen.Datasets[0].Columns[0].Name)
	assert.Equal(t, "name", screen.Datasets[0].Columns[1].Name)
}

func TestFromNaturalLanguage_EntityKeyword(t *testing.T) {
	screen, err := FromNaturalLanguage(NaturalLanguageInput{Description: "회원 관리 화면이 필요합니다"})
	require.NoError(t, err)
	assert.Equal(t, "member_list", screen.ScreenName)
	assert.Equal(t, intent.ScreenList, screen.ScreenType)
}

func TestFromNaturalLanguage_ExtractionFallback(t *testing.T) {
	screen, err := FromNaturalLanguage(NaturalLanguageInput{Description: "widget list screen"})
	require.NoError(t, err)
	assert.Equal(t, "widget_list", screen.ScreenName)
}

func TestFromNaturalLanguage_DefaultFallback(t *testing.T) {
	screen, err := FromNaturalLanguage(NaturalLanguageInput{Description: "something unrelated entirely"})
	require.NoError(t, err)
	assert.Equal(t, "screen_list", screen.ScreenName)
}

func TestFromNaturalLanguage_EmptyDescriptionFails(t *testing.T) {
	_, err := FromNaturalLanguage(NaturalLanguageInput{Description: "   "})
	assert.Error(t, err)
}

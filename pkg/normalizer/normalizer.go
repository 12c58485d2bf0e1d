// Package normalizer turns one of three raw input shapes into a
// validated intent.ScreenIntent.
package normalizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/screenforge/screenforge/pkg/intent"
)

// UnnormalizableError signals that an input shape was parseable but
// carried insufficient information to produce an Intent (spec.md §4.1
// failure taxonomy). It is the normalizer's only failure mode.
type UnnormalizableError struct {
	Reason string
}

func (e *UnnormalizableError) Error() string {
	return fmt.Sprintf("unnormalizable: %s", e.Reason)
}

func unnormalizable(format string, args ...any) error {
	return &UnnormalizableError{Reason: fmt.Sprintf(format, args...)}
}

// SchemaColumn is one column of a database-schema input.
type SchemaColumn struct {
	Name       string
	ColumnType string // raw SQL type, e.g. "VARCHAR(100)"
	Nullable   bool
	PK         bool
	Comment    string
}

// SchemaInput is the database-schema shape of a generation request.
type SchemaInput struct {
	Table         string
	Columns       []SchemaColumn
	PrimaryKeys   []string // column names, in addition to per-column PK flags
}

// QueryColumn is an explicit result column the caller supplies, bypassing
// SELECT-list parsing.
type QueryColumn struct {
	Name       string
	Label      string // optional
	ColumnType string // optional
}

// QuerySampleInput is the SQL-sample shape of a generation request.
type QuerySampleInput struct {
	Query         string
	ResultColumns []QueryColumn // optional; when absent, parsed from Query
	Description   string        // optional, copied into Intent.Notes
}

// NaturalLanguageInput is the free-text shape of a generation request.
type NaturalLanguageInput struct {
	Description string
	ScreenType  string // optional, one of list/detail/popup/list_with_popup
	Context     string // optional
}

// FromSchema normalizes a database-schema input to a ScreenIntent,
// matching spec.md §4.1's "From database schema" algorithm exactly.
func FromSchema(input SchemaInput) (intent.ScreenIntent, error) {
	if input.Table == "" {
		return intent.ScreenIntent{}, unnormalizable("schema input has no table name")
	}
	if len(input.Columns) == 0 {
		return intent.ScreenIntent{}, unnormalizable("schema input %q has no columns", input.Table)
	}

	tableLower := strings.ToLower(input.Table)
	screenName := tableLower + "_list"
	datasetID := "ds_" + tableLower

	pkSet := make(map[string]bool, len(input.PrimaryKeys))
	for _, pk := range input.PrimaryKeys {
		pkSet[pk] = true
	}

	columns := make([]intent.ColumnIntent, 0, len(input.Columns))
	for _, c := range input.Columns {
		columns = append(columns, schemaColumnToIntent(c, pkSet))
	}

	gridColumns := gridColumnsFromColumns(columns)

	dataset := intent.DatasetIntent{ID: datasetID, Table: input.Table, Columns: columns}
	grid := intent.GridIntent{
		ID:        "grid_" + tableLower,
		DatasetID: datasetID,
		Columns:   gridColumns,
		Paginated: true,
	}

	return intent.ScreenIntent{
		ScreenName: screenName,
		ScreenType: intent.ScreenList,
		Datasets:   []intent.DatasetIntent{dataset},
		Grids:      []intent.GridIntent{grid},
		Actions:    intent.DefaultActionsForScreenType(intent.ScreenList),
	}, nil
}

// defaultSpringPackageBase is used when a SpringInput doesn't name one.
const defaultSpringPackageBase = "com.example.app"

// SpringInput is the database-schema shape of a backend CRUD generation
// request — the Spring/MyBatis counterpart to SchemaInput.
type SpringInput struct {
	EntityName     string // optional; PascalCase derived from Table if empty
	Table          string
	Columns        []SchemaColumn
	PrimaryKeys    []string
	PackageBase    string                 // optional; defaults to defaultSpringPackageBase
	CrudOperations []intent.CrudOperation // optional; defaults to intent.DefaultCrudOperations()
	Options        *intent.SpringOptions  // optional; defaults to intent.DefaultSpringOptions()
}

// FromSchemaToSpring normalizes a database-schema input to a SpringIntent,
// the backend-CRUD counterpart to FromSchema.
func FromSchemaToSpring(input SpringInput) (intent.SpringIntent, error) {
	if input.Table == "" {
		return intent.SpringIntent{}, unnormalizable("schema input has no table name")
	}
	if len(input.Columns) == 0 {
		return intent.SpringIntent{}, unnormalizable("schema input %q has no columns", input.Table)
	}

	entityName := input.EntityName
	if entityName == "" {
		entityName = intent.ToPascalCase(strings.ToLower(input.Table))
	}

	pkSet := make(map[string]bool, len(input.PrimaryKeys))
	for _, pk := range input.PrimaryKeys {
		pkSet[pk] = true
	}

	columns := make([]intent.ColumnIntent, 0, len(input.Columns))
	for _, c := range input.Columns {
		columns = append(columns, schemaColumnToIntent(c, pkSet))
	}

	ops := input.CrudOperations
	if len(ops) == 0 {
		ops = intent.DefaultCrudOperations()
	}

	options := intent.DefaultSpringOptions()
	if input.Options != nil {
		options = *input.Options
	}

	packageBase := input.PackageBase
	if packageBase == "" {
		packageBase = defaultSpringPackageBase
	}

	return intent.SpringIntent{
		EntityName:     entityName,
		TableName:      input.Table,
		PackageBase:    packageBase,
		Columns:        columns,
		CrudOperations: ops,
		Options:        options,
	}, nil
}

func schemaColumnToIntent(c SchemaColumn, pkSet map[string]bool) intent.ColumnIntent {
	isPK := c.PK || pkSet[c.Name]
	label := inferLabel(c.Name, c.Comment)
	uiType, dataType := inferTypes(c.ColumnType, isPK)

	col := intent.ColumnIntent{
		Name:     c.Name,
		Label:    label,
		UIType:   uiType,
		DataType: dataType,
		IsPK:     isPK,
	}
	if !isPK && !c.Nullable {
		col.Required = true
	}
	if length, ok := extractVarcharLength(c.ColumnType); ok {
		col.MaxLength = length
	}
	return col.Normalize()
}

// inferTypes maps a raw SQL type string to (ui_type, data_type) per
// spec.md §4.1's fixed prefix-match table.
func inferTypes(dbType string, isPK bool) (intent.UIType, intent.DataType) {
	if isPK {
		return intent.UITypeHidden, intent.DataTypeInteger
	}

	upper := strings.ToUpper(dbType)

	switch {
	case strings.HasPrefix(upper, "VARCHAR"), strings.HasPrefix(upper, "CHAR"), upper == "NVARCHAR":
		length, ok := extractVarcharLength(dbType)
		if !ok {
			length = 255
		}
		if length > 500 {
			return intent.UITypeTextArea, intent.DataTypeString
		}
		return intent.UITypeInput, intent.DataTypeString
	case strings.HasPrefix(upper, "TEXT"), strings.HasPrefix(upper, "CLOB"), upper == "LONGTEXT":
		return intent.UITypeTextArea, intent.DataTypeText
	case upper == "DATE":
		return intent.UITypeDatePicker, intent.DataTypeDate
	case strings.HasPrefix(upper, "DATETIME"), strings.HasPrefix(upper, "TIMESTAMP"):
		return intent.UITypeDateTimePicker, intent.DataTypeDateTime
	case upper == "BOOLEAN", upper == "BOOL", upper == "BIT":
		return intent.UITypeCheckbox, intent.DataTypeBoolean
	case strings.HasPrefix(upper, "INT"), upper == "BIGINT", upper == "SMALLINT", upper == "TINYINT":
		return intent.UITypeNumber, intent.DataTypeInteger
	case strings.HasPrefix(upper, "DECIMAL"), strings.HasPrefix(upper, "NUMERIC"), upper == "FLOAT", upper == "DOUBLE", upper == "REAL":
		return intent.UITypeNumber, intent.DataTypeDecimal
	case strings.HasPrefix(upper, "BLOB"), upper == "BINARY", upper == "VARBINARY":
		return intent.UITypeFile, intent.DataTypeBinary
	default:
		return intent.UITypeInput, intent.DataTypeString
	}
}

func extractVarcharLength(dbType string) (int, bool) {
	upper := strings.ToUpper(dbType)
	start := strings.IndexByte(upper, '(')
	if start < 0 {
		return 0, false
	}
	end := strings.IndexByte(upper, ')')
	if end < 0 || end < start {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(upper[start+1 : end]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// labelDictionary mirrors the reference generator's fixed Korean/English
// mapping table for common column names.
var labelDictionary = map[string]string{
	"id":           "ID",
	"name":         "이름",
	"nm":           "이름",
	"member_id":    "회원ID",
	"user_id":      "회원ID",
	"member_name":  "회원명",
	"user_name":    "회원명",
	"email":        "이메일",
	"phone":        "전화번호",
	"tel":          "전화번호",
	"phone_no":     "전화번호",
	"mobile":       "휴대폰",
	"mobile_no":    "휴대폰",
	"address":      "주소",
	"addr":         "주소",
	"created_at":   "등록일",
	"reg_date":     "등록일",
	"reg_dt":       "등록일",
	"updated_at":   "수정일",
	"mod_date":     "수정일",
	"mod_dt":       "수정일",
	"created_by":   "등록자",
	"reg_id":       "등록자",
	"updated_by":   "수정자",
	"mod_id":       "수정자",
	"status":       "상태",
	"state":        "상태",
	"type":         "유형",
	"kind":         "유형",
	"description":  "설명",
	"desc":         "설명",
	"remarks":      "비고",
	"note":         "비고",
	"notes":        "비고",
	"title":        "제목",
	"content":      "내용",
	"contents":     "내용",
	"amount":       "금액",
	"amt":          "금액",
	"price":        "가격",
	"quantity":     "수량",
	"qty":          "수량",
	"date":         "일자",
	"dt":           "일자",
	"start_date":   "시작일",
	"from_date":    "시작일",
	"end_date":     "종료일",
	"to_date":      "종료일",
	"use_yn":       "사용여부",
	"is_active":    "사용여부",
	"active":       "사용여부",
	"del_yn":       "삭제여부",
	"is_deleted":   "삭제여부",
	"deleted":      "삭제여부",
}

func inferLabel(name, comment string) string {
	if comment != "" {
		return comment
	}
	if label, ok := labelDictionary[strings.ToLower(name)]; ok {
		return label
	}
	return humanizeColumnName(name)
}

func humanizeColumnName(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = toUpperRune(r[0])
		out = append(out, string(r))
	}
	return strings.Join(out, " ")
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func gridColumnsFromColumns(columns []intent.ColumnIntent) []intent.GridColumnIntent {
	var cols []intent.GridColumnIntent
	for _, c := range columns {
		if c.UIType == intent.UITypeHidden {
			continue
		}
		cols = append(cols, intent.GridColumnIntent{Name: c.Name, Header: c.Label})
	}
	return cols
}

// FromQuery normalizes a SQL-sample input to a ScreenIntent, matching
// spec.md §4.1's "From SQL sample" algorithm.
func FromQuery(input QuerySampleInput) (intent.ScreenIntent, error) {
	table, err := extractTableFromQuery(input.Query)
	if err != nil {
		return intent.ScreenIntent{}, err
	}
	tableLower := strings.ToLower(table)
	screenName := tableLower + "_list"
	datasetID := "ds_" + tableLower

	var columns []intent.ColumnIntent
	if len(input.ResultColumns) > 0 {
		for _, c := range input.ResultColumns {
			label := c.Label
			if label == "" {
				label = inferLabel(c.Name, "")
			}
			uiType, dataType := intent.UITypeInput, intent.DataTypeString
			if c.ColumnType != "" {
				uiType, dataType = inferTypes(c.ColumnType, false)
			}
			columns = append(columns, intent.ColumnIntent{Name: c.Name, Label: label, UIType: uiType, DataType: dataType}.Normalize())
		}
	} else {
		columns, err = extractColumnsFromQuery(input.Query)
		if err != nil {
			return intent.ScreenIntent{}, err
		}
	}

	gridColumns := gridColumnsFromColumns(columns)
	dataset := intent.DatasetIntent{ID: datasetID, Table: table, Columns: columns}
	grid := intent.GridIntent{ID: "grid_" + tableLower, DatasetID: datasetID, Columns: gridColumns, Paginated: true}

	screen := intent.ScreenIntent{
		ScreenName: screenName,
		ScreenType: intent.ScreenList,
		Datasets:   []intent.DatasetIntent{dataset},
		Grids:      []intent.GridIntent{grid},
		Actions:    intent.DefaultActionsForScreenType(intent.ScreenList),
	}
	if input.Description != "" {
		screen.Notes = input.Description
	}
	return screen, nil
}

func extractTableFromQuery(query string) (string, error) {
	upper := strings.ToUpper(query)
	fromPos := strings.Index(upper, " FROM ")
	if fromPos < 0 {
		return "", unnormalizable("could not find FROM clause in query")
	}
	afterFrom := query[fromPos+6:]
	fields := strings.Fields(afterFrom)
	if len(fields) == 0 {
		return "", unnormalizable("could not extract table name from query")
	}
	tablePart := fields[0]

	// Strip schema prefix.
	if idx := strings.LastIndexByte(tablePart, '.'); idx >= 0 {
		tablePart = tablePart[idx+1:]
	}
	tablePart = strings.Trim(tablePart, `"'`+"`"+"[]")
	return tablePart, nil
}

func extractColumnsFromQuery(query string) ([]intent.ColumnIntent, error) {
	upper := strings.ToUpper(query)
	selectPos := strings.Index(upper, "SELECT")
	if selectPos < 0 {
		return nil, unnormalizable("no SELECT found")
	}
	fromPos := strings.Index(upper, " FROM ")
	if fromPos < 0 {
		return nil, unnormalizable("no FROM found")
	}

	selectClause := strings.TrimSpace(query[selectPos+6 : fromPos])
	if selectClause == "*" {
		return nil, unnormalizable("SELECT * requires result_columns to be provided")
	}

	var columns []intent.ColumnIntent
	for _, raw := range strings.Split(selectClause, ",") {
		col := strings.TrimSpace(raw)
		if col == "" {
			continue
		}
		parts := strings.Fields(col)
		var name string
		switch {
		case len(parts) >= 3 && strings.EqualFold(parts[len(parts)-2], "AS"):
			name = strings.Trim(parts[len(parts)-1], `"'`+"`")
		case len(parts) >= 2 && !isReservedTail(parts[len(parts)-1]):
			name = strings.Trim(parts[len(parts)-1], `"'`+"`")
		default:
			exprHead := parts[0]
			if idx := strings.LastIndexByte(exprHead, '.'); idx >= 0 {
				exprHead = exprHead[idx+1:]
			}
			name = strings.Trim(exprHead, `"'`+"`")
		}
		columns = append(columns, intent.ColumnIntent{Name: name, Label: inferLabel(name, "")})
	}

	if len(columns) == 0 {
		return nil, unnormalizable("no columns found in SELECT clause")
	}
	return columns, nil
}

func isReservedTail(word string) bool {
	switch strings.ToUpper(word) {
	case "AS", "AND", "OR":
		return true
	default:
		return false
	}
}

// entityPatterns maps keyword sets to a normalized entity name, checked
// in order; the first keyword found anywhere in the lowercased
// description wins. Mirrors spec.md §4.1's ~30-entry bilingual table.
var entityPatterns = []struct {
	keywords []string
	entity   string
}{
	{[]string{"회원", "사용자"}, "member"},
	{[]string{"주문"}, "order"},
	{[]string{"상품", "제품"}, "product"},
	{[]string{"게시판", "게시물"}, "board"},
	{[]string{"고객"}, "customer"},
	{[]string{"직원", "사원"}, "employee"},
	{[]string{"부서"}, "department"},
	{[]string{"프로젝트"}, "project"},
	{[]string{"업무", "작업", "태스크"}, "task"},
	{[]string{"일정", "스케줄"}, "schedule"},
	{[]string{"예약"}, "reservation"},
	{[]string{"결제", "payment"}, "payment"},
	{[]string{"송장", "인보이스"}, "invoice"},
	{[]string{"재고"}, "inventory"},
	{[]string{"카테고리", "분류"}, "category"},
	{[]string{"공지사항", "공지"}, "notice"},
	{[]string{"문의", "질문"}, "inquiry"},
	{[]string{"코드", "코드관리"}, "code"},
	{[]string{"member", "user", "account"}, "member"},
	{[]string{"order", "purchase"}, "order"},
	{[]string{"product", "item", "goods"}, "product"},
	{[]string{"board", "post", "article"}, "board"},
	{[]string{"customer", "client"}, "customer"},
	{[]string{"employee", "staff", "worker"}, "employee"},
	{[]string{"department", "dept"}, "department"},
	{[]string{"project"}, "project"},
	{[]string{"task", "todo", "job", "work"}, "task"},
	{[]string{"schedule", "calendar", "event"}, "schedule"},
	{[]string{"reservation", "booking"}, "reservation"},
	{[]string{"payment", "transaction"}, "payment"},
	{[]string{"invoice", "bill"}, "invoice"},
	{[]string{"inventory", "stock"}, "inventory"},
	{[]string{"category"}, "category"},
	{[]string{"notice", "announcement"}, "notice"},
	{[]string{"inquiry", "question", "support"}, "inquiry"},
	{[]string{"code", "master"}, "code"},
	{[]string{"setting", "config", "preference"}, "setting"},
	{[]string{"log", "history", "audit"}, "log"},
	{[]string{"report", "statistics", "analytics"}, "report"},
	{[]string{"file", "document", "attachment"}, "file"},
	{[]string{"menu", "navigation"}, "menu"},
	{[]string{"role", "permission", "authority"}, "role"},
	{[]string{"company", "organization", "org"}, "company"},
}

var extractionPatterns = []string{
	" list", " screen", " management", " manager", " page", " view",
	" 목록", " 화면", " 관리", " 조회",
}

func inferScreenNameFromDescription(description string) string {
	lower := strings.ToLower(description)

	for _, p := range entityPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				return p.entity + "_list"
			}
		}
	}

	for _, pattern := range extractionPatterns {
		pos := strings.Index(lower, pattern)
		if pos < 0 {
			continue
		}
		before := lower[:pos]
		words := strings.Fields(before)
		if len(words) == 0 {
			continue
		}
		last := words[len(words)-1]
		entity := strings.ToLower(strings.TrimFunc(last, func(r rune) bool {
			return !isAlphanumeric(r)
		}))
		if len(entity) > 1 {
			return entity + "_list"
		}
	}

	return "screen_list"
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// FromNaturalLanguage normalizes a free-text input to a ScreenIntent,
// matching spec.md §4.1's "From natural language" algorithm. The LLM,
// not the normalizer, fills in datasets/grids from this skeletal intent.
func FromNaturalLanguage(input NaturalLanguageInput) (intent.ScreenIntent, error) {
	if strings.TrimSpace(input.Description) == "" {
		return intent.ScreenIntent{}, unnormalizable("natural language input has an empty description")
	}

	screenType := intent.ScreenList
	switch strings.ToLower(input.ScreenType) {
	case "detail":
		screenType = intent.ScreenDetail
	case "popup":
		screenType = intent.ScreenPopup
	case "list_with_popup", "listwithpopup":
		screenType = intent.ScreenListWithPopup
	}

	screenName := inferScreenNameFromDescription(input.Description)
	notes := input.Description
	if input.Context != "" {
		notes = fmt.Sprintf("%s\n\nContext: %s", notes, input.Context)
	}

	return intent.ScreenIntent{
		ScreenName: screenName,
		ScreenType: screenType,
		Actions:    intent.DefaultActionsForScreenType(screenType),
		Notes:      notes,
	}, nil
}

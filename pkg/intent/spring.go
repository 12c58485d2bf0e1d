package intent

import (
	"fmt"
	"strings"
)

// CrudOperation is one of the five generated backend operations.
type CrudOperation string

const (
	CrudCreate   CrudOperation = "create"
	CrudRead     CrudOperation = "read"
	CrudReadList CrudOperation = "read_list"
	CrudUpdate   CrudOperation = "update"
	CrudDelete   CrudOperation = "delete"
)

// HTTPMethod returns the HTTP verb this operation maps to.
func (c CrudOperation) HTTPMethod() string {
	switch c {
	case CrudCreate:
		return "POST"
	case CrudUpdate:
		return "PUT"
	case CrudDelete:
		return "DELETE"
	default:
		return "GET"
	}
}

// SpringAnnotation returns the Spring MVC mapping annotation for this
// operation.
func (c CrudOperation) SpringAnnotation() string {
	switch c {
	case CrudCreate:
		return "@PostMapping"
	case CrudUpdate:
		return "@PutMapping"
	case CrudDelete:
		return "@DeleteMapping"
	default:
		return "@GetMapping"
	}
}

// DefaultCrudOperations is the full CRUD set, used when a request does
// not restrict which operations to generate.
func DefaultCrudOperations() []CrudOperation {
	return []CrudOperation{CrudCreate, CrudRead, CrudReadList, CrudUpdate, CrudDelete}
}

// SpringOptions tunes the generated Java bundle's annotation surface.
type SpringOptions struct {
	UseLombok          bool
	UseValidation      bool
	UseSwagger         bool
	UseMyBatis         bool
	IncludeAuditFields bool
	GenerateSearchDTO  bool
	ResponseWrapper    string // empty = none
}

// DefaultSpringOptions matches the reference generator's defaults, tuned
// for Korean enterprise backends (MyBatis over JPA).
func DefaultSpringOptions() SpringOptions {
	return SpringOptions{
		UseLombok:          true,
		UseValidation:      true,
		UseSwagger:         false,
		UseMyBatis:         true,
		IncludeAuditFields: true,
		GenerateSearchDTO:  true,
		ResponseWrapper:    "ApiResponse",
	}
}

// SpringIntent is the normalized representation of a backend CRUD
// scaffold request.
type SpringIntent struct {
	EntityName     string
	TableName      string
	PackageBase    string
	Columns        []ColumnIntent
	CrudOperations []CrudOperation
	Options        SpringOptions
}

func (i SpringIntent) isIntent() {}

// Validate checks the structural invariants of a CRUD intent: non-empty
// identifiers, at least one column, and exactly one primary key.
func (i SpringIntent) Validate() error {
	if i.EntityName == "" {
		return fmt.Errorf("entity_name must not be empty")
	}
	if i.TableName == "" {
		return fmt.Errorf("table_name must not be empty")
	}
	if i.PackageBase == "" {
		return fmt.Errorf("package_base must not be empty")
	}
	if len(i.Columns) == 0 {
		return fmt.Errorf("entity %q must declare at least one column", i.EntityName)
	}
	pkCount := 0
	for _, c := range i.Columns {
		if c.IsPK {
			pkCount++
		}
	}
	if pkCount != 1 {
		return fmt.Errorf("entity %q must declare exactly one primary key column", i.EntityName)
	}
	if len(i.CrudOperations) == 0 {
		return fmt.Errorf("entity %q must request at least one CRUD operation", i.EntityName)
	}
	return nil
}

// ControllerName is the generated REST controller class name.
func (i SpringIntent) ControllerName() string { return i.EntityName + "Controller" }

// ServiceName is the generated service interface name.
func (i SpringIntent) ServiceName() string { return i.EntityName + "Service" }

// ServiceImplName is the generated service implementation class name.
func (i SpringIntent) ServiceImplName() string { return i.EntityName + "ServiceImpl" }

// DTOName is the generated data transfer object class name.
func (i SpringIntent) DTOName() string { return i.EntityName + "DTO" }

// MapperName is the generated MyBatis mapper interface name.
func (i SpringIntent) MapperName() string { return i.EntityName + "Mapper" }

// PathName converts EntityName from PascalCase to a kebab-case URL
// segment, e.g. "OrderDetail" -> "order-detail".
func (i SpringIntent) PathName() string {
	var b strings.Builder
	for idx, r := range i.EntityName {
		if r >= 'A' && r <= 'Z' {
			if idx > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PrimaryKeyColumns returns the subset of columns flagged as primary key.
func (i SpringIntent) PrimaryKeyColumns() []ColumnIntent {
	var pk []ColumnIntent
	for _, c := range i.Columns {
		if c.IsPK {
			pk = append(pk, c)
		}
	}
	return pk
}

// ToCamelCase converts a snake_case or SCREAMING_SNAKE_CASE column name
// to a Java camelCase field name, e.g. "member_id" -> "memberId".
func ToCamelCase(name string) string {
	var b strings.Builder
	capitalizeNext := false
	for _, r := range name {
		switch {
		case r == '_':
			capitalizeNext = true
		case capitalizeNext:
			b.WriteRune(toUpperASCII(r))
			capitalizeNext = false
		default:
			b.WriteRune(toLowerASCII(r))
		}
	}
	return b.String()
}

// ToPascalCase converts a snake_case name to PascalCase, e.g.
// "member_id" -> "MemberId".
func ToPascalCase(name string) string {
	camel := ToCamelCase(name)
	if camel == "" {
		return ""
	}
	r := []rune(camel)
	r[0] = toUpperASCII(r[0])
	return string(r)
}

func toUpperASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}

// JavaType is the Java field type a database column maps to.
type JavaType string

const (
	JavaString        JavaType = "String"
	JavaInteger        JavaType = "Integer"
	JavaLong           JavaType = "Long"
	JavaDouble         JavaType = "Double"
	JavaBigDecimal     JavaType = "BigDecimal"
	JavaBoolean        JavaType = "Boolean"
	JavaLocalDate      JavaType = "LocalDate"
	JavaLocalDateTime  JavaType = "LocalDateTime"
	JavaByteArray      JavaType = "byte[]"
)

// JavaTypeFromDBType infers the Java field type from a raw SQL column
// type string, mirroring the reference generator's substring ladder.
func JavaTypeFromDBType(dbType string) JavaType {
	upper := strings.ToUpper(dbType)
	switch {
	case strings.Contains(upper, "VARCHAR"), strings.Contains(upper, "CHAR"),
		strings.Contains(upper, "TEXT"), strings.Contains(upper, "CLOB"):
		return JavaString
	case strings.Contains(upper, "BIGINT"), strings.Contains(upper, "SERIAL"):
		return JavaLong
	case strings.Contains(upper, "INT") || strings.Contains(upper, "SMALLINT") || strings.Contains(upper, "TINYINT"):
		return JavaInteger
	case strings.Contains(upper, "DECIMAL"), strings.Contains(upper, "NUMERIC"):
		return JavaBigDecimal
	case strings.Contains(upper, "DOUBLE"), strings.Contains(upper, "FLOAT"), strings.Contains(upper, "REAL"):
		return JavaDouble
	case strings.Contains(upper, "BOOLEAN"), strings.Contains(upper, "BIT"):
		return JavaBoolean
	case strings.Contains(upper, "TIMESTAMP"), strings.Contains(upper, "DATETIME"):
		return JavaLocalDateTime
	case strings.Contains(upper, "DATE"):
		return JavaLocalDate
	case strings.Contains(upper, "BLOB"), strings.Contains(upper, "BINARY"):
		return JavaByteArray
	default:
		return JavaString
	}
}

// ImportStatement returns the fully qualified class this Java type needs
// imported, or "" if it's in java.lang or no import is required.
func (t JavaType) ImportStatement() string {
	switch t {
	case JavaBigDecimal:
		return "java.math.BigDecimal"
	case JavaLocalDate:
		return "java.time.LocalDate"
	case JavaLocalDateTime:
		return "java.time.LocalDateTime"
	default:
		return ""
	}
}

// JDBCType returns the MyBatis jdbcType attribute value for this Java type.
func (t JavaType) JDBCType() string {
	switch t {
	case JavaString:
		return "VARCHAR"
	case JavaInteger:
		return "INTEGER"
	case JavaLong:
		return "BIGINT"
	case JavaDouble:
		return "DOUBLE"
	case JavaBigDecimal:
		return "DECIMAL"
	case JavaBoolean:
		return "BOOLEAN"
	case JavaLocalDate:
		return "DATE"
	case JavaLocalDateTime:
		return "TIMESTAMP"
	case JavaByteArray:
		return "BLOB"
	default:
		return "VARCHAR"
	}
}

// SpringArtifacts is the generated six-file Java/MyBatis bundle.
type SpringArtifacts struct {
	Controller        string
	ServiceInterface   string
	ServiceImpl        string
	DTO                string
	SearchDTO          string // empty if not generated
	MapperInterface    string
	MapperXML          string
	Warnings           []string
}

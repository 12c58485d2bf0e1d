// Package intent defines the normalized representation of a generation
// request: either a UI screen or a backend CRUD scaffold.
package intent

import "fmt"

// ScreenType identifies the layout family for a UI screen.
type ScreenType string

const (
	ScreenList          ScreenType = "list"
	ScreenDetail        ScreenType = "detail"
	ScreenPopup         ScreenType = "popup"
	ScreenListWithPopup ScreenType = "list_with_popup"
)

// DataType is the normalized column type used by both the UI and the
// backend CRUD variants.
type DataType string

const (
	DataTypeString   DataType = "string"
	DataTypeInteger  DataType = "integer"
	DataTypeDecimal  DataType = "decimal"
	DataTypeBoolean  DataType = "boolean"
	DataTypeDate     DataType = "date"
	DataTypeDateTime DataType = "datetime"
	DataTypeText     DataType = "text"
	DataTypeBinary   DataType = "binary"
)

// UIType controls which control renders a column.
type UIType string

const (
	UITypeInput          UIType = "input"
	UITypeTextArea       UIType = "textarea"
	UITypeDatePicker     UIType = "datepicker"
	UITypeDateTimePicker UIType = "datetimepicker"
	UITypeCheckbox       UIType = "checkbox"
	UITypeCombo          UIType = "combo"
	UITypeRadio          UIType = "radio"
	UITypeHidden         UIType = "hidden"
	UITypeNumber         UIType = "number"
	UITypeFile           UIType = "file"
)

// ColumnIntent describes one data column, shared between the screen and
// CRUD variants.
type ColumnIntent struct {
	Name       string
	Label      string
	UIType     UIType
	DataType   DataType
	Required   bool
	ReadOnly   bool
	IsPK       bool
	MaxLength  int // 0 = unset; only meaningful when DataType is string or text
	Validation string
}

// Normalize enforces the column-level parts of invariant 4/5/6 from
// spec.md §3.3: a primary key column is implicitly read-only and hidden,
// and max_length only applies to string/text data.
func (c ColumnIntent) Normalize() ColumnIntent {
	if c.IsPK {
		c.ReadOnly = true
		c.UIType = UITypeHidden
	}
	if c.DataType != DataTypeString && c.DataType != DataTypeText {
		c.MaxLength = 0
	}
	return c
}

// DatasetIntent is the xFrame5 dataset bound to a screen.
type DatasetIntent struct {
	ID      string // must start with "ds_"
	Table   string
	Columns []ColumnIntent
}

// Alignment controls grid column text alignment.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// GridColumnIntent describes one rendered grid column.
type GridColumnIntent struct {
	Name       string
	Header     string
	Width      int
	Alignment  Alignment
	Sortable   bool
	Filterable bool
}

// GridIntent is a grid control bound to a dataset.
type GridIntent struct {
	ID         string // must start with "grid_"
	DatasetID  string
	Columns    []GridColumnIntent
	Selectable bool
	Editable   bool
	Paginated  bool
	PageSize   int // 0 = unset
}

// ActionType identifies a screen-level action button.
type ActionType string

const (
	ActionSearch     ActionType = "search"
	ActionSave       ActionType = "save"
	ActionDelete     ActionType = "delete"
	ActionAdd        ActionType = "add"
	ActionOpenPopup  ActionType = "open_popup"
	ActionClosePopup ActionType = "close_popup"
	ActionExport     ActionType = "export"
	ActionPrint      ActionType = "print"
	ActionCustom     ActionType = "custom"
)

// ActionPosition controls where an action button is placed.
type ActionPosition string

const (
	PositionTop    ActionPosition = "top"
	PositionBottom ActionPosition = "bottom"
	PositionBoth   ActionPosition = "both"
)

// ActionIntent is one button bound to a JavaScript event handler.
type ActionIntent struct {
	ID       string
	Label    string
	Type     ActionType
	Handler  string // default "fn_<id>" when empty
	Position ActionPosition
}

// HandlerName returns the action's JS handler function name, applying
// the "fn_<id>" default from spec.md §3.1 when none was set explicitly.
func (a ActionIntent) HandlerName() string {
	if a.Handler != "" {
		return a.Handler
	}
	return "fn_" + a.ID
}

// ScreenIntent is the normalized representation of a UI screen.
type ScreenIntent struct {
	ScreenName string
	ScreenType ScreenType
	Datasets   []DatasetIntent
	Grids      []GridIntent
	Actions    []ActionIntent
	Notes      string
}

func (i ScreenIntent) isIntent() {}

// Validate checks the invariants spec.md §3.3 requires of a screen
// intent after normalization.
func (i ScreenIntent) Validate() error {
	if i.ScreenName == "" {
		return fmt.Errorf("screen_name must not be empty")
	}
	switch i.ScreenType {
	case ScreenList, ScreenDetail, ScreenPopup, ScreenListWithPopup:
	default:
		return fmt.Errorf("unknown screen_type %q", i.ScreenType)
	}
	if len(i.Datasets) == 0 {
		return fmt.Errorf("screen must declare at least one dataset")
	}

	datasetIDs := make(map[string]bool, len(i.Datasets))
	for _, ds := range i.Datasets {
		if ds.ID == "" {
			return fmt.Errorf("dataset id must not be empty")
		}
		if datasetIDs[ds.ID] {
			return fmt.Errorf("duplicate dataset id %q", ds.ID) // invariant 1
		}
		datasetIDs[ds.ID] = true

		if len(ds.Columns) == 0 {
			return fmt.Errorf("dataset %q must declare at least one column", ds.ID)
		}
		pkCount := 0
		colNames := make(map[string]bool, len(ds.Columns))
		for _, c := range ds.Columns {
			if c.Name == "" {
				return fmt.Errorf("dataset %q has a column with an empty name", ds.ID)
			}
			colNames[c.Name] = true
			if c.IsPK {
				pkCount++
			}
			if c.MaxLength > 0 && c.DataType != DataTypeString && c.DataType != DataTypeText { // invariant 5
				return fmt.Errorf("column %q: max_length only applies to string/text data types", c.Name)
			}
		}
		if pkCount > 1 { // invariant 4 (composite not modeled, so >1 always fails)
			return fmt.Errorf("dataset %q declares more than one primary key column", ds.ID)
		}
	}

	for _, g := range i.Grids {
		if g.ID == "" {
			return fmt.Errorf("grid id must not be empty")
		}
		if !datasetIDs[g.DatasetID] { // invariant 2
			return fmt.Errorf("grid %q references unknown dataset %q", g.ID, g.DatasetID)
		}
	}

	handlers := make(map[string]bool, len(i.Actions))
	for _, a := range i.Actions {
		h := a.HandlerName()
		if handlers[h] { // invariant 6
			return fmt.Errorf("duplicate action handler name %q", h)
		}
		handlers[h] = true
	}

	return nil
}

// DefaultActionsForScreenType returns the conventional action set for a
// screen type, matching the fixed Korean-labeled defaults the reference
// generator produces absent explicit overrides.
func DefaultActionsForScreenType(st ScreenType) []ActionIntent {
	switch st {
	case ScreenList, ScreenListWithPopup:
		return []ActionIntent{
			{ID: "search", Label: "조회", Type: ActionSearch, Position: PositionTop},
			{ID: "add", Label: "신규", Type: ActionAdd, Position: PositionTop},
			{ID: "delete", Label: "삭제", Type: ActionDelete, Position: PositionTop},
		}
	case ScreenDetail:
		return []ActionIntent{
			{ID: "save", Label: "저장", Type: ActionSave, Position: PositionBottom},
			{ID: "delete", Label: "삭제", Type: ActionDelete, Position: PositionBottom},
		}
	case ScreenPopup:
		return []ActionIntent{
			{ID: "save", Label: "저장", Type: ActionSave, Position: PositionBottom},
			{ID: "close", Label: "닫기", Type: ActionClosePopup, Position: PositionBottom},
		}
	default:
		return nil
	}
}

package intent

// Intent is the closed set of normalized generation requests: a UI
// screen or a backend CRUD scaffold. The unexported marker method keeps
// the set closed to this package's two concrete types, so compilers and
// pipelines can safely switch over the concrete type without a default
// case.
type Intent interface {
	isIntent()
	Validate() error
}

var (
	_ Intent = ScreenIntent{}
	_ Intent = SpringIntent{}
)

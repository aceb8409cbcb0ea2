package types

// Scope is the breadth of todos a caller may list
type Scope int

const (
	// ScopeGlobal grants visibility of every non-archived todo
	ScopeGlobal Scope = iota
	// ScopeCaseScoped limits visibility to todos of cases the caller is a member of
	ScopeCaseScoped
)

// String returns the string representation of the scope
func (s Scope) String() string {
	switch s {
	case ScopeCaseScoped:
		return "CASE_SCOPED"
	default:
		return "GLOBAL"
	}
}

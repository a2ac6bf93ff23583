package workflow

// State represents a workflow state in an approval lifecycle.
//
// Each workflow family (leave, travel, material request, purchase order,
// policy) declares its own state vocabulary when building its machine;
// the machine itself places no restriction beyond non-emptiness.
type State string

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsZero returns true if the state is empty.
func (s State) IsZero() bool {
	return s == ""
}

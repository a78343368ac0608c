package tagorg

// Value is a pending edit to one tag field. The zero value is Unchanged.
// Clearing a field and leaving it alone are different outcomes, so this
// is a three-state type rather than a pointer or optional.
type Value[T any] struct {
	state valueState
	value T
}

type valueState uint8

const (
	stateUnchanged valueState = iota
	stateUpdate
	stateRemove
)

func Update[T any](v T) Value[T] { return Value[T]{state: stateUpdate, value: v} }
func Remove[T any]() Value[T]    { return Value[T]{state: stateRemove} }
func Unchanged[T any]() Value[T] { return Value[T]{} }

// Get returns the pending update value, if any.
func (v Value[T]) Get() (T, bool) { return v.value, v.state == stateUpdate }

func (v Value[T]) IsUpdate() bool    { return v.state == stateUpdate }
func (v Value[T]) IsRemove() bool    { return v.state == stateRemove }
func (v Value[T]) IsUnchanged() bool { return v.state == stateUnchanged }

// Or returns the pending update value, or fallback when the field is
// unchanged or being removed.
func (v Value[T]) Or(fallback T) T {
	if v.state == stateUpdate {
		return v.value
	}
	return fallback
}

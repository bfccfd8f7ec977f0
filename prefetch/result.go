package prefetch

// Kind tags what a Result carries.
type Kind uint8

const (
	// KindItem carries a value produced by the source.
	KindItem Kind = iota
	// KindEnd marks a cleanly exhausted source.
	KindEnd
	// KindFailure marks a source that failed; Err holds the cause.
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindEnd:
		return "end"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the unit passed from producer to consumer through the buffer.
// Tagging the terminal markers keeps them disjoint from every value of T.
type Result[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// Item wraps a produced value.
func Item[T any](v T) Result[T] {
	return Result[T]{Kind: KindItem, Value: v}
}

// End returns the clean end-of-sequence marker.
func End[T any]() Result[T] {
	return Result[T]{Kind: KindEnd}
}

// Failure returns the failed end-of-sequence marker carrying err.
func Failure[T any](err error) Result[T] {
	return Result[T]{Kind: KindFailure, Err: err}
}

// IsTerminal reports whether r ends the sequence.
func (r Result[T]) IsTerminal() bool {
	return r.Kind != KindItem
}

package rxz

// SplitOutput holds the two branches of a Split.
type SplitOutput[T any] struct {
	// True receives values for which the predicate returns true.
	True Observable[T]

	// False receives values for which the predicate returns false.
	False Observable[T]
}

// Split divides a stream into exactly two branches based on predicate. The
// branches share one upstream subscription while both are subscribed (see
// Share); each value reaches exactly one of them.
//
// When to use:
//   - Valid/invalid separation
//   - Pass/fail classification
//   - Binary routing where both outcomes are needed
//
// Example:
//
//	// Split orders into high and low value
//	out := rxz.Split(orders, func(o Order) bool {
//		return o.Total > 1000
//	})
//	out.True.Subscribe(processHighValue, nil, nil)
//	out.False.Subscribe(processNormal, nil, nil)
func Split[T any](src Observable[T], predicate func(T) bool) SplitOutput[T] {
	shared := Share(src)
	return SplitOutput[T]{
		True: Filter(shared, predicate),
		False: Filter(shared, func(v T) bool {
			return !predicate(v)
		}),
	}
}

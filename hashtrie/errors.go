package hashtrie

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey signals a lookup or removal for a key not present in the map.
	// Errors returned from Map.Get and Map.Remove match it with errors.Is; the
	// offending key may be recovered with errors.As and type KeyError.
	ErrMissingKey = errors.New("hashtrie: missing key")
	// ErrUnconvertible signals a source type which Convert cannot rehome.
	ErrUnconvertible = errors.New("hashtrie: source type cannot be converted")
	// ErrMalformedSnapshot signals decoding of data which does not encode a
	// valid collection snapshot.
	ErrMalformedSnapshot = errors.New("hashtrie: malformed snapshot")
	// ErrNoHasher signals an operation on a map which has not been created with
	// Immutable or New and therefore has no hasher configured.
	ErrNoHasher = errors.New("hashtrie: map has no hasher; create it with Immutable or New")
)

// KeyError carries the offending key of a failed lookup or removal.
type KeyError[K any] struct {
	Key K
}

func (e KeyError[K]) Error() string {
	return fmt.Sprintf("hashtrie: missing key '%v'", e.Key)
}

// Unwrap makes errors.Is(err, ErrMissingKey) hold for KeyError values.
func (e KeyError[K]) Unwrap() error {
	return ErrMissingKey
}

package confloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/maps"
)

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// mapProvider loads configuration from a map, e.g. CLI flag overrides.
type mapProvider map[string]any

// ReadBytes returns an error as map provider doesn't support byte serialization.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration map with dotted keys unflattened.
func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(maps.Copy(m), "."), nil
}

// ParseOverrides parses key=value pairs into a flat override map. Values
// are trimmed strings, converted to the field type on unmarshal.
func ParseOverrides(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q: want key=value", pair)
		}
		if strings.HasPrefix(key, "tasks") {
			return nil, fmt.Errorf("invalid override %q: tasks can only be set in the configuration file", pair)
		}
		out[strings.ToLower(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

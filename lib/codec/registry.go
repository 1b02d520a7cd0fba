package codec

import "fmt"

// ByName returns the codec registered under name (gob, json or yaml).
func ByName(name string) (ICodec, error) {
	switch name {
	case "gob":
		return NewGOBCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	case "yaml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("invalid codec %s", name)
	}
}

package pref

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/dPrefs/lib/native"
	"gopkg.in/yaml.v3"
)

// kinds lists the values accepted by set --kind
var kinds = []string{"bool", "int", "float", "float32", "string", "blob", "time"}

// ParseValue parses s as a native value of the given kind.
// Blobs are base64 (standard encoding), times RFC 3339.
func ParseValue(kind, s string) (native.Value, error) {
	switch strings.ToLower(kind) {
	case "bool":
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q: %w", s, err)
		}
		return native.Bool(b), nil
	case "int":
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int %q: %w", s, err)
		}
		return native.Int(i), nil
	case "float", "float64":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q: %w", s, err)
		}
		return native.Float64(f), nil
	case "float32":
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid float32 %q: %w", s, err)
		}
		return native.Float32(f), nil
	case "string":
		return native.String(s), nil
	case "blob":
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 blob: %w", err)
		}
		return native.Blob(b), nil
	case "time":
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q: %w", s, err)
		}
		return native.Time(t), nil
	default:
		return nil, fmt.Errorf("invalid kind %s. must be one of %s", kind, strings.Join(kinds, ", "))
	}
}

// --------------------------------------------------------------------------
// Dump formats
// --------------------------------------------------------------------------

// dumpYAML renders all entries as one YAML mapping. Blobs are written as
// base64 strings.
func dumpYAML(entries map[string]native.Value) ([]byte, error) {
	doc := make(map[string]any, len(entries))
	for k, v := range entries {
		doc[k] = yamlPlain(native.ToPlain(v))
	}
	return yaml.Marshal(doc)
}

func yamlPlain(v any) any {
	switch x := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case []any:
		for i := range x {
			x[i] = yamlPlain(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = yamlPlain(x[k])
		}
		return x
	default:
		return v
	}
}

// dumpText renders one "key = value" line per entry, in the order of keys
func dumpText(keys []string, entries map[string]native.Value) string {
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s = %s\n", k, native.Format(entries[k])))
	}
	return sb.String()
}

package codec

import (
	"bytes"
	"gopkg.in/yaml.v3"
)

// NewYAMLCodec creates a new codec using yaml encoding.
// The stored blob stays human-readable, at the cost of size and speed.
func NewYAMLCodec() ICodec {
	return &yamlCodecImpl{}
}

// yamlCodecImpl implements the ICodec interface using yaml encoding
type yamlCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (y yamlCodecImpl) Name() string {
	return "yaml"
}

func (y yamlCodecImpl) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (y yamlCodecImpl) Decode(b []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	return dec.Decode(v)
}

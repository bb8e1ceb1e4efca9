package codec

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlCodec struct{}

// YAML returns a codec storing values as YAML documents. Useful when the
// backing store is file-based and entries get edited by hand.
func YAML() Codec { return yamlCodec{} }

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec) Unmarshal(data []byte, v any) error {
	err := yaml.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	// yaml.v3 only types shape errors; parser errors stay unclassified.
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", ErrMismatch, err)
	}
	return err
}

package filters

import (
	"encoding/base64"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// B64Encode encodes s as standard base64. B64Encode/B64Decode form a
// round-trip pair (spec.md §8's encoding property).
func B64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// B64Decode decodes a standard base64 string back to its original bytes.
func B64Decode(s string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// ToJSON marshals v to a JSON string.
func ToJSON(v interface{}) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FromJSON unmarshals a JSON string into a generic value.
func FromJSON(s string) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ToYAML marshals v to a YAML string.
func ToYAML(v interface{}) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FromYAML unmarshals a YAML string into a generic value.
func FromYAML(s string) (interface{}, error) {
	var v interface{}
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodingFuncMap returns the encoding-domain filters for registration with
// the template engine.
func EncodingFuncMap() map[string]interface{} {
	return map[string]interface{}{
		"b64encode": B64Encode,
		"b64decode": B64Decode,
		"to_json":   ToJSON,
		"from_json": FromJSON,
		"to_yaml":   ToYAML,
		"from_yaml": FromYAML,
	}
}

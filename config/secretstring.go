package config

// SecretStringValue replaces secret values in any textual output.
const SecretStringValue = "<secret>"

// SecretString holds configuration values which may carry credentials (proxy
// URL with user information). Its value never shows up in dumps, logs or
// formatted output, use string conversion to get the actual value.
type SecretString string

// String masks value for fmt and zap.Stringer.
func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

// MarshalJSON marshals masked value, empty value becomes null.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(`"` + SecretStringValue + `"`), nil
}

// MarshalYAML marshals masked value, empty value is omitted.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}

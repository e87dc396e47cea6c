package catalog

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Compatibility restricts a catalog record to a set of ids. The zero value is
// the wildcard: compatible with everything. On the wire and in storage the
// wildcard is an empty list.
type Compatibility struct {
	ids []string
}

// Any returns the wildcard compatibility.
func Any() Compatibility { return Compatibility{} }

// RestrictedTo limits compatibility to ids. No ids means wildcard.
func RestrictedTo(ids ...string) Compatibility {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return Compatibility{}
	}
	return Compatibility{ids: out}
}

func (c Compatibility) IsWildcard() bool { return len(c.ids) == 0 }

// Allows reports whether id is compatible.
func (c Compatibility) Allows(id string) bool {
	if c.IsWildcard() {
		return true
	}
	for _, v := range c.ids {
		if v == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the restricted set; nil for the wildcard.
func (c Compatibility) IDs() []string {
	if c.IsWildcard() {
		return nil
	}
	return append([]string(nil), c.ids...)
}

func (c Compatibility) MarshalJSON() ([]byte, error) {
	if c.IsWildcard() {
		return []byte("[]"), nil
	}
	return json.Marshal(c.ids)
}

func (c *Compatibility) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*c = RestrictedTo(ids...)
	return nil
}

func (c Compatibility) MarshalYAML() (interface{}, error) {
	if c.IsWildcard() {
		return []string{}, nil
	}
	return c.ids, nil
}

func (c *Compatibility) UnmarshalYAML(value *yaml.Node) error {
	var ids []string
	if err := value.Decode(&ids); err != nil {
		return err
	}
	*c = RestrictedTo(ids...)
	return nil
}

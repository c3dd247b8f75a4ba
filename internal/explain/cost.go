// Package explain models the upstream EXPLAIN plan tree and the
// incremental statement protocol used to retrieve it, and walks the tree
// to answer the one question rule evaluators need: the maximum observed
// CPU cost across every node.
package explain

import "encoding/json"

// Cost is a float-or-marker sum type: the upstream reports either a finite
// number or one of the marker strings "NaN", "Infinity", "-Infinity". The
// marker case is deserialization-distinguished by JSON value kind (a JSON
// string, not a JSON number) and treated as absent by the walker.
type Cost struct {
	Value    float64
	IsMarker bool
}

// UnmarshalJSON distinguishes the two shapes by attempting a numeric
// decode first; a JSON string value falls back to the marker case
// regardless of its text, matching the walker's "skip if non-numeric"
// contract.
func (c *Cost) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		c.Value = f
		c.IsMarker = false
		return nil
	}

	var marker string
	if err := json.Unmarshal(data, &marker); err != nil {
		return err
	}
	c.IsMarker = true
	return nil
}

// MarshalJSON emits a finite Cost as its number and a marker Cost as the
// string "Infinity". Markers don't carry their original text past
// UnmarshalJSON, so round-tripping "NaN" or "-Infinity" re-emits it as
// "Infinity" — adequate for the one direction this type is actually
// used (upstream response decoding), not for byte-identical re-emission.
func (c Cost) MarshalJSON() ([]byte, error) {
	if c.IsMarker {
		return json.Marshal("Infinity")
	}
	return json.Marshal(c.Value)
}

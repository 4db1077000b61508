package dataset

import (
	"encoding/json"
	"strings"
)

var pyReplacer = strings.NewReplacer(
	"'", `"`,
	"None", "null",
	"True", "true",
	"False", "false",
)

// pyLiteralToJSON converts a python-literal dict cell (single quotes,
// None/True/False) to JSON. The dataset was exported from python, so this
// covers the vast majority of cells; anything the naive rewrite breaks
// (an apostrophe inside a value, say) reports false and the caller
// degrades per the input-malformation rule.
func pyLiteralToJSON(cell string) (json.RawMessage, bool) {
	t := strings.TrimSpace(cell)
	if t == "" {
		return nil, false
	}
	c := pyReplacer.Replace(t)
	if !json.Valid([]byte(c)) {
		return nil, false
	}
	return json.RawMessage(c), true
}

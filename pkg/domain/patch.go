package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JSON-Patch operation names used by the editor.
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
)

// Operation is a single RFC 6902 operation.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Patch is an ordered list of operations applied sequentially to one document.
type Patch []Operation

// MarshalJSON encodes an empty patch as [] rather than null.
func (p Patch) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Operation(p))
}

func (p Patch) String() string {
	var sb strings.Builder
	for _, op := range p {
		if op.Value == nil {
			fmt.Fprintf(&sb, "%s %s\n", op.Op, op.Path)
			continue
		}
		v, _ := json.Marshal(op.Value)
		fmt.Fprintf(&sb, "%s %s %s\n", op.Op, op.Path, v)
	}
	return sb.String()
}

// Add creates an add operation.
func Add(path string, value any) Operation {
	return Operation{Op: OpAdd, Path: path, Value: value}
}

// Remove creates a remove operation.
func Remove(path string) Operation {
	return Operation{Op: OpRemove, Path: path}
}

// Replace creates a replace operation.
func Replace(path string, value any) Operation {
	return Operation{Op: OpReplace, Path: path, Value: value}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer builds a JSON Pointer from reference tokens, escaping "~" and "/".
func Pointer(tokens ...any) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteByte('/')
		sb.WriteString(pointerEscaper.Replace(fmt.Sprint(t)))
	}
	return sb.String()
}

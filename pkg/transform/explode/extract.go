// Package explode turns cells holding encoded lists (the genres column of the
// movies metadata) into list columns, and list columns into one row per
// element.
package explode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/argentumzz/movie/pkg/frame"
)

// ExtractList decodes an array of objects and returns each object's "name".
// Strict JSON is tried first; text that is not JSON must be the single-quoted
// form [{'id': 16, 'name': 'Animation'}], read as a YAML flow sequence.
func ExtractList(s string) ([]string, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		var yerr error
		if v, yerr = decodeFlow(s); yerr != nil {
			return nil, &frame.Error{Op: "extract_list", Err: frame.ErrMalformedJSON, Detail: err.Error()}
		}
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &frame.Error{Op: "extract_list", Err: frame.ErrMalformedJSON, Detail: fmt.Sprintf("want an array, got %s", describe(s))}
	}
	out := make([]string, 0, len(arr))
	for i, e := range arr {
		name, err := nameOf(e)
		if err != nil {
			return nil, &frame.Error{Op: "extract_list", Err: err, Detail: fmt.Sprintf("element %d", i)}
		}
		out = append(out, name)
	}
	return out, nil
}

// decodeFlow reads the single-quoted list form. Anything looser than a
// flow sequence of mappings with quoted keys is rejected.
func decodeFlow(s string) (any, error) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "[") || closingBracket(t) != len(t)-1 {
		return nil, errors.New("not a single sequence")
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(t), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.New("not a single sequence")
	}
	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, errors.New("not a sequence")
	}
	if err := checkFlow(root); err != nil {
		return nil, err
	}
	var v any
	if err := root.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func checkFlow(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		if n.Style&yaml.FlowStyle == 0 {
			return errors.New("block sequence")
		}
		for _, c := range n.Content {
			if err := checkFlow(c); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		if n.Style&yaml.FlowStyle == 0 {
			return errors.New("block mapping")
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode || !quoted(k) {
				return fmt.Errorf("unquoted key at line %d column %d", k.Line, k.Column)
			}
			if err := checkFlow(n.Content[i+1]); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if quoted(n) {
			return nil
		}
		switch n.ShortTag() {
		case "!!int", "!!float":
			return nil
		}
		switch n.Value {
		case "None", "True", "False":
			return nil
		}
		return fmt.Errorf("bare word %q at line %d column %d", n.Value, n.Line, n.Column)
	default:
		return errors.New("anchors and aliases are not allowed")
	}
	return nil
}

func quoted(n *yaml.Node) bool {
	return n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0
}

// closingBracket returns the index of the bracket closing s[0], skipping
// quoted text, or -1.
func closingBracket(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote == '"' && c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func nameOf(e any) (string, error) {
	var name any
	switch m := e.(type) {
	case map[string]any:
		v, ok := m["name"]
		if !ok {
			return "", frame.ErrMissingField
		}
		name = v
	case map[any]any:
		v, ok := m["name"]
		if !ok {
			return "", frame.ErrMissingField
		}
		name = v
	default:
		return "", frame.ErrMalformedJSON
	}
	s, ok := name.(string)
	if !ok {
		return "", frame.ErrMissingField
	}
	return s, nil
}

func describe(s string) string {
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return fmt.Sprintf("%q", s)
}

// Extract derives list column To from the encoded text in column From.
// A cell that fails to decode fails the step, unless Lenient is set, in which
// case it becomes null and is counted in Skipped. Null cells stay null.
type Extract struct {
	From    string
	To      string
	Lenient bool

	skipped int
}

func (t *Extract) Name() string { return "extract_list" }

// Skipped reports how many cells the last Apply nulled out.
func (t *Extract) Skipped() int { return t.skipped }

func (t *Extract) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	t.skipped = 0
	col, err := f.Lookup(t.Name(), t.From)
	if err != nil {
		return nil, err
	}
	sc, ok := col.(*frame.StringColumn)
	if !ok {
		return nil, &frame.Error{Op: t.Name(), Column: t.From, Err: frame.ErrTypeCastFailure, Detail: "not a string column: " + col.Kind().String()}
	}
	to := t.To
	if to == "" {
		to = t.From
	}
	out := frame.NewListColumn(to, sc.Len())
	for i := 0; i < sc.Len(); i++ {
		v, ok := sc.Get(i)
		if !ok {
			continue
		}
		names, err := ExtractList(v)
		if err != nil {
			if t.Lenient {
				t.skipped++
				continue
			}
			var fe *frame.Error
			if errors.As(err, &fe) {
				return nil, &frame.Error{Op: t.Name(), Column: t.From, Row: i + 1, Err: fe.Err, Detail: fe.Detail}
			}
			return nil, err
		}
		out.Set(i, names)
	}
	return f.WithColumn(out)
}

package jsonval

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var strayBackslash = regexp.MustCompile(`\\([{}\[\]"])`)

// Coerce turns a JSON-like string into a structured value on a best-effort basis.
//
// It tries, in order: the string as-is, the substring between the first '{' and the
// last '}', the string with \" unescaped, with \/ unescaped, with literal \n escapes
// removed, with backslashes before brackets and quotes removed, and finally a
// single-quoted literal container. If nothing parses, the input string is returned.
func Coerce(value string) any {
	txt := strings.TrimSpace(value)

	if v, err := Parse(txt); err == nil {
		return v
	}

	var candidates []string
	if strings.Contains(txt, "{") && strings.Contains(txt, "}") {
		start := strings.Index(txt, "{")
		end := strings.LastIndex(txt, "}") + 1
		if end > start {
			candidates = append(candidates, txt[start:end])
		}
	}

	candidates = append(candidates,
		strings.ReplaceAll(txt, `\"`, `"`),
		strings.ReplaceAll(txt, `\/`, "/"),
		strings.ReplaceAll(txt, `\n`, ""),
		strayBackslash.ReplaceAllString(txt, "$1"),
	)

	for _, candidate := range candidates {
		if v, err := Parse(candidate); err == nil {
			return v
		}
	}

	if v, ok := parseLiteral(txt); ok {
		return v
	}

	return value
}

// parseLiteral accepts single-quoted literal containers such as {'a': 1, 'b': None}.
// Only flow containers and quoted scalars are accepted so plain prose is left alone.
func parseLiteral(txt string) (any, bool) {
	if txt == "" {
		return nil, false
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(txt), &doc); err != nil {
		return nil, false
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, false
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		if root.Style&yaml.FlowStyle == 0 {
			return nil, false
		}
	case yaml.ScalarNode:
		if root.Style&yaml.SingleQuotedStyle == 0 {
			return nil, false
		}
	default:
		return nil, false
	}

	v, err := fromNode(root)
	if err != nil {
		return nil, false
	}

	return v, true
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj := Object{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, errors.New("non-scalar mapping key")
			}

			value, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}

			obj.Set(key.Value, value)
		}

		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			value, err := fromNode(item)
			if err != nil {
				return nil, err
			}

			arr = append(arr, value)
		}

		return arr, nil
	case yaml.ScalarNode:
		return scalarValue(n)
	default:
		return nil, fmt.Errorf("unsupported node kind %d", n.Kind)
	}
}

func scalarValue(n *yaml.Node) (any, error) {
	if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0 {
		return n.Value, nil
	}

	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}

		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}

		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}

		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.New("non-finite number")
		}

		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	}

	if n.Value == "None" {
		return nil, nil
	}

	return n.Value, nil
}

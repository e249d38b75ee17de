package schemas

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// node is the subset of JSON Schema needed to describe the output shape to a model
type node struct {
	Type       string           `json:"type"`
	Enum       []string         `json:"enum"`
	Minimum    *float64         `json:"minimum"`
	Maximum    *float64         `json:"maximum"`
	Items      *node            `json:"items"`
	Properties map[string]*node `json:"properties"`
	Required   []string         `json:"required"`
}

// FeedbackOutputTemplate renders the structured output schema as a JSON-shaped example,
// e.g. "tone": "CASUAL|NEUTRAL|TECHNICAL" and "clarity_score": 0.0-1.0.
func FeedbackOutputTemplate() (string, error) {
	return RenderTemplate(feedbackOutputSchema)
}

// RenderTemplate renders any object schema as a JSON-shaped template.
// Properties are emitted in "required" order, followed by optional ones alphabetically.
func RenderTemplate(schemaContent string) (string, error) {
	var root node
	if err := json.Unmarshal([]byte(schemaContent), &root); err != nil {
		return "", &SchemaLoadError{Path: "(string schema)", Message: "invalid schema JSON", Cause: err}
	}
	if root.Type != "object" {
		return "", fmt.Errorf("template root must be an object schema, got %q", root.Type)
	}

	var sb strings.Builder
	if err := writeNode(&sb, &root, 0); err != nil {
		return "", err
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

func writeNode(sb *strings.Builder, n *node, depth int) error {
	switch n.Type {
	case "object":
		return writeObject(sb, n, depth)
	case "array":
		if n.Items == nil {
			return fmt.Errorf("array schema without items")
		}
		sb.WriteString("[")
		if err := writeNode(sb, n.Items, depth); err != nil {
			return err
		}
		sb.WriteString("]")
	case "string":
		if len(n.Enum) > 0 {
			sb.WriteString(strconv.Quote(strings.Join(n.Enum, "|")))
		} else {
			sb.WriteString(`"string"`)
		}
	case "number", "integer":
		sb.WriteString(numberHint(n))
	case "boolean":
		sb.WriteString("true|false")
	default:
		return fmt.Errorf("unsupported schema type %q", n.Type)
	}
	return nil
}

func writeObject(sb *strings.Builder, n *node, depth int) error {
	names := propertyOrder(n)
	indent := strings.Repeat("  ", depth+1)

	sb.WriteString("{\n")
	for i, name := range names {
		child, ok := n.Properties[name]
		if !ok {
			return fmt.Errorf("required property %q has no definition", name)
		}
		sb.WriteString(indent)
		sb.WriteString(strconv.Quote(name))
		sb.WriteString(": ")
		if err := writeNode(sb, child, depth+1); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if i < len(names)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString("}")
	return nil
}

func propertyOrder(n *node) []string {
	seen := make(map[string]bool, len(n.Required))
	names := make([]string, 0, len(n.Properties))
	for _, name := range n.Required {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var optional []string
	for name := range n.Properties {
		if !seen[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	return append(names, optional...)
}

func numberHint(n *node) string {
	if n.Minimum != nil && n.Maximum != nil {
		return formatBound(*n.Minimum) + "-" + formatBound(*n.Maximum)
	}
	return "number"
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

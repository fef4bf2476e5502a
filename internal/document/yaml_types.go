package document

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"schema-expander/internal/common"
	"schema-expander/internal/pointer"
)

// StringOrArray is a list of strings that may be written as a single string.
type StringOrArray []string

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", kindName(node.Kind))
	}
}

// --- Document YAML methods ---

// UnmarshalYAML decodes a document from a mapping node, keeping key order.
// JSON input is decoded through the same path since JSON is valid YAML.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected object, got %v", node.Line, kindName(node.Kind))
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]

		if err := d.decodeKey(key, value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	return nil
}

func (d *Document) decodeKey(key string, value *yaml.Node) error {
	switch key {
	case KeyID:
		return value.Decode(&d.ID)
	case KeyPath:
		return value.Decode(&d.Path)
	case KeyFilePath:
		return value.Decode(&d.FilePath)
	case KeySchema:
		return value.Decode(&d.Schema)
	case KeyExtend:
		return value.Decode(&d.Extend)
	case KeyAbstract:
		return value.Decode(&d.Abstract)
	case KeyIgnore:
		return value.Decode(&d.Ignore)
	case KeyProperties:
		return d.decodeProperties(value)
	case KeyItems:
		items := &Document{}
		if err := value.Decode(items); err != nil {
			return err
		}

		d.Items = items

		return nil
	case KeyItemsOrder:
		list, err := decodeList(value)
		d.ItemsOrder = list

		return err
	case KeyRemove:
		list, err := decodeList(value)
		d.Remove = list

		return err
	case KeyMerge:
		return d.decodeMergeHints(value)
	case KeyReference:
		var ref pointer.Ref
		if err := decodeRef(value, &ref); err != nil {
			return err
		}

		d.Reference = &ref

		return nil
	case KeyReferenceCounter:
		return value.Decode(&d.ReferenceCounter)
	case KeyFinalOrder:
		return value.Decode(&d.FinalOrder)
	default:
		v, err := decodeValue(value)
		if err != nil {
			return err
		}

		d.SetAttr(key, v)

		return nil
	}
}

func (d *Document) decodeProperties(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected object, got %v", kindName(node.Kind))
	}

	d.Properties = NewOrderedMap[*Document]()

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value

		p := &Document{}
		if err := node.Content[i+1].Decode(p); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		d.Properties.Set(name, p)
	}

	return nil
}

func (d *Document) decodeMergeHints(node *yaml.Node) error {
	var raw map[string]StringOrArray
	if err := node.Decode(&raw); err != nil {
		return err
	}

	d.MergeHints = make(map[string][]string, len(raw))
	for k, v := range raw {
		d.MergeHints[k] = []string(v)
	}

	return nil
}

func decodeRef(node *yaml.Node, ref *pointer.Ref) error {
	var raw struct {
		Path     string `yaml:"path"`
		Type     string `yaml:"type"`
		Filename string `yaml:"filename"`
		ID       string `yaml:"id"`
	}

	if err := node.Decode(&raw); err != nil {
		return err
	}

	*ref = pointer.Ref{
		Path:     raw.Path,
		Class:    pointer.Class(raw.Type),
		Filename: raw.Filename,
		ID:       raw.ID,
	}

	return nil
}

// decodeList accepts a sequence, or a single scalar treated as a one-item list.
func decodeList(node *yaml.Node) ([]any, error) {
	v, err := decodeValue(node)
	if err != nil {
		return nil, err
	}

	switch t := v.(type) {
	case []any:
		return t, nil
	case nil:
		return nil, nil
	case *Object:
		return nil, errors.New("expected list, got object")
	default:
		return []any{t}, nil
	}
}

// decodeValue converts a node to an attribute value with ordered objects.
func decodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return decodeValue(node.Content[0])
	case yaml.AliasNode:
		return decodeValue(node.Alias)
	case yaml.MappingNode:
		obj := NewObject()

		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := decodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}

			obj.Set(node.Content[i].Value, v)
		}

		return obj, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))

		for _, item := range node.Content {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}

			list = append(list, v)
		}

		return list, nil
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}

		return v, nil
	default:
		return nil, fmt.Errorf("unsupported node kind %v", kindName(node.Kind))
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "array"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return common.UnknownStr
	}
}

// Parse decodes a document from JSON or YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	return &doc, nil
}

// ParseValue decodes a single attribute value from JSON or YAML bytes.
func ParseValue(data []byte) (any, error) {
	var node yaml.Node

	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse value: %w", err)
	}

	return decodeValue(&node)
}

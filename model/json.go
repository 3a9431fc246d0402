package model

import (
	"errors"
	"strconv"
)

// ToJSON returns a JSON-serializable representation of this node.
func (n *Node) ToJSON() map[string]interface{} {
	obj := map[string]interface{}{
		"type": n.Type.Name,
	}
	if len(n.Attrs) > 0 {
		obj["attrs"] = n.Attrs
	}
	if n.IsText() {
		obj["text"] = n.Text
	} else if n.Content.Size > 0 {
		obj["content"] = n.Content.ToJSON()
	}
	if len(n.Marks) > 0 {
		marks := make([]interface{}, len(n.Marks))
		for i, mark := range n.Marks {
			marks[i] = mark.ToJSON()
		}
		obj["marks"] = marks
	}
	return obj
}

// ToJSON returns a JSON-serializable representation of this fragment, or nil
// when the fragment is empty.
func (f *Fragment) ToJSON() interface{} {
	if len(f.Content) == 0 {
		return nil
	}
	nodes := make([]interface{}, len(f.Content))
	for i, node := range f.Content {
		nodes[i] = node.ToJSON()
	}
	return nodes
}

// ToJSON returns a JSON-serializable representation of this mark.
func (m *Mark) ToJSON() map[string]interface{} {
	obj := map[string]interface{}{
		"type": m.Type.Name,
	}
	if len(m.Attrs) > 0 {
		obj["attrs"] = m.Attrs
	}
	return obj
}

// NodeFromJSON deserializes a node from its JSON representation. Content is
// validated against the node type, so malformed input comes back as an error
// rather than an inconsistent tree.
func NodeFromJSON(schema *Schema, obj map[string]interface{}) (*Node, error) {
	if obj == nil {
		return nil, errors.New("invalid input for NodeFromJSON")
	}
	var marks []*Mark
	if value, ok := obj["marks"]; ok {
		list, ok := value.([]interface{})
		if !ok {
			return nil, errors.New("invalid mark list in NodeFromJSON")
		}
		marks = make([]*Mark, len(list))
		for i, item := range list {
			markObj, ok := item.(map[string]interface{})
			if !ok {
				return nil, errors.New("invalid mark in NodeFromJSON")
			}
			mark, err := MarkFromJSON(schema, markObj)
			if err != nil {
				return nil, err
			}
			marks[i] = mark
		}
	}
	if value, ok := obj["text"]; ok {
		text, ok := value.(string)
		if !ok {
			return nil, errors.New("invalid text node in NodeFromJSON")
		}
		return schema.Text(text, marks...), nil
	}
	name, ok := obj["type"].(string)
	if !ok {
		return nil, errors.New("invalid node type in NodeFromJSON")
	}
	typ, err := schema.NodeType(name)
	if err != nil {
		return nil, err
	}
	content, err := FragmentFromJSON(schema, obj["content"])
	if err != nil {
		return nil, err
	}
	return typ.CreateChecked(attrsFromJSON(obj["attrs"]), content, marks)
}

// FragmentFromJSON deserializes a fragment from its JSON representation.
func FragmentFromJSON(schema *Schema, value interface{}) (*Fragment, error) {
	if value == nil {
		return EmptyFragment, nil
	}
	list, ok := value.([]interface{})
	if !ok {
		return nil, errors.New("invalid input for FragmentFromJSON")
	}
	nodes := make([]*Node, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.New("invalid node in FragmentFromJSON")
		}
		node, err := NodeFromJSON(schema, obj)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return NewFragment(nodes), nil
}

// MarkFromJSON deserializes a mark from its JSON representation.
func MarkFromJSON(schema *Schema, obj map[string]interface{}) (*Mark, error) {
	if obj == nil {
		return nil, errors.New("invalid input for MarkFromJSON")
	}
	name, ok := obj["type"].(string)
	if !ok {
		return nil, errors.New("invalid mark type in MarkFromJSON")
	}
	typ, err := schema.MarkType(name)
	if err != nil {
		return nil, err
	}
	return typ.Create(attrsFromJSON(obj["attrs"])), nil
}

// Attribute values always serialize as strings; numbers and booleans in
// hand-written JSON are normalized on the way in.
func attrsFromJSON(value interface{}) map[string]string {
	obj, ok := value.(map[string]interface{})
	if !ok || len(obj) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(obj))
	for name, v := range obj {
		switch val := v.(type) {
		case string:
			attrs[name] = val
		case float64:
			attrs[name] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			attrs[name] = strconv.FormatBool(val)
		}
	}
	return attrs
}

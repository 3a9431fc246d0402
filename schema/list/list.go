// Package list exports the list-related schema elements. List items hold
// inline content directly, and lists cannot nest.
package list

import "github.com/scribelab/richedit/model"

var (
	styledAttrs = map[string]*model.AttributeSpec{
		"style": {},
	}

	// An ordered list node spec, represented as an <ol> element.
	orderedList = model.NodeSpec{
		Key:   "ordered_list",
		Attrs: styledAttrs,
	}

	// A bullet list node spec, represented as a <ul> element.
	bulletList = model.NodeSpec{
		Key:   "bullet_list",
		Attrs: styledAttrs,
	}

	// A list item (<li>) spec.
	listItem = model.NodeSpec{
		Key:   "list_item",
		Attrs: styledAttrs,
	}
)

func add(obj model.NodeSpec, props model.NodeSpec) *model.NodeSpec {
	obj.Content = props.Content
	if props.Group != "" {
		obj.Group = props.Group
	}
	return &obj
}

// AddListNodes is a convenience function for adding the list-related node
// types to a slice specifying the nodes for a schema. Adds orderedList as
// "ordered_list", bulletList as "bullet_list", and listItem as "list_item".
//
// listGroup can be given to assign a group name to the list node types, for
// example "block".
func AddListNodes(nodes []*model.NodeSpec, listGroup string) []*model.NodeSpec {
	return append(
		nodes,
		add(orderedList, model.NodeSpec{Content: model.ContentListItems, Group: listGroup}),
		add(bulletList, model.NodeSpec{Content: model.ContentListItems, Group: listGroup}),
		add(listItem, model.NodeSpec{Content: model.ContentInline}),
	)
}

// Schema extends the basic node set with lists. Most of the editor uses this
// schema.
func Schema(base []*model.NodeSpec, marks []*model.MarkSpec) (*model.Schema, error) {
	return model.NewSchema(&model.SchemaSpec{
		Nodes: AddListNodes(base, "block"),
		Marks: marks,
	})
}

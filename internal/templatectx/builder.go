package templatectx

import (
	"github.com/tettuan/frontmatter-to-schema/internal/templateir"
)

// FromIR derives the base rendering context for a render job. The context is
// composed when the IR carries an items array and flat otherwise.
func FromIR(ir *templateir.IR) *Context {
	if ir.HasItems() {
		return composed(ir.MainContext(), ir.ItemsArray(), RenderingOptions{
			Format:      ir.OutputFormat(),
			ExpandItems: true,
		}, ir.Metadata())
	}
	return flat(ir.MainContext(), RenderingOptions{
		Format:      ir.OutputFormat(),
		ExpandItems: false,
	}, ir.Metadata())
}

// FromSingleData builds a flat context around one data object. There is no
// associated array, so @items lookups always fail on the result.
func FromSingleData(data map[string]any) *Context {
	return flat(data, RenderingOptions{Format: templateir.FormatJSON, ExpandItems: false}, templateir.Metadata{Stage: "single-data"})
}

// FromComposedData builds a composed context from a main object plus its
// associated array, enabling @items resolution.
func FromComposedData(mainData map[string]any, arrayData []map[string]any) *Context {
	return composed(mainData, arrayData, RenderingOptions{Format: templateir.FormatJSON, ExpandItems: true}, templateir.Metadata{Stage: "composed-data"})
}

// ForItem derives the rendering context for one element of the base context's
// items array. The item replaces the main variables wholesale; the base's
// main variables stay reachable through the variable context, alongside the
// reserved @index/@item/@items entries. Item contexts never expand items
// again, and their metadata stage is forced to the item-rendering sentinel.
func ForItem(base *Context, item map[string]any, index int) *Context {
	variables := make(map[string]any, len(base.mainVariables)+3)
	for name, value := range base.mainVariables {
		variables[name] = value
	}
	variables[VarIndex] = index
	variables[VarItem] = item
	variables[VarItems] = base.itemsData

	options := base.options
	options.ExpandItems = false

	metadata := base.metadata
	metadata.Stage = templateir.StageItemRendering

	return &Context{
		mainVariables:   item,
		itemsData:       base.itemsData,
		variableContext: variables,
		hierarchy:       base.hierarchy,
		options:         options,
		metadata:        metadata,
	}
}

func flat(data map[string]any, options RenderingOptions, metadata templateir.Metadata) *Context {
	if data == nil {
		data = map[string]any{}
	}
	variables := make(map[string]any, len(data))
	for name, value := range data {
		variables[name] = value
	}
	return &Context{
		mainVariables:   data,
		variableContext: variables,
		hierarchy:       HierarchyFlat,
		options:         options,
		metadata:        metadata,
	}
}

func composed(data map[string]any, items []map[string]any, options RenderingOptions, metadata templateir.Metadata) *Context {
	if data == nil {
		data = map[string]any{}
	}
	if items == nil {
		items = []map[string]any{}
	}
	variables := make(map[string]any, len(data)+1)
	for name, value := range data {
		variables[name] = value
	}
	variables[VarItems] = items
	return &Context{
		mainVariables:   data,
		itemsData:       items,
		variableContext: variables,
		hierarchy:       HierarchyComposed,
		options:         options,
		metadata:        metadata,
	}
}

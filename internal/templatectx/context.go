// Package templatectx derives rendering contexts from a template IR and
// resolves placeholder names against them. Contexts are immutable values;
// per-item contexts are new values, never edits of the base.
package templatectx

import (
	"github.com/tettuan/frontmatter-to-schema/internal/templateir"
)

// Reserved placeholder names available inside item templates.
const (
	VarIndex = "@index"
	VarItem  = "@item"
	VarItems = "@items"
)

// Hierarchy is the explicit flat/composed mode of a context. It decides
// whether @items resolution can succeed; a flat context has no associated
// array, so @items always fails there by contract rather than by accident of
// missing data.
type Hierarchy int

const (
	HierarchyFlat Hierarchy = iota
	HierarchyComposed
)

func (h Hierarchy) String() string {
	if h == HierarchyComposed {
		return "composed"
	}
	return "flat"
}

// RenderingOptions carries the renderer toggles derived from the IR.
type RenderingOptions struct {
	Format      templateir.OutputFormat
	ExpandItems bool
}

// Context is one immutable rendering context. Accessors return the internal
// maps directly for cheap lookups; callers must treat them read-only.
type Context struct {
	mainVariables   map[string]any
	itemsData       []map[string]any
	variableContext map[string]any
	hierarchy       Hierarchy
	options         RenderingOptions
	metadata        templateir.Metadata
}

// MainVariables returns the main rendering data.
func (c *Context) MainVariables() map[string]any { return c.mainVariables }

// ItemsData returns the ordered item records, nil in flat mode.
func (c *Context) ItemsData() []map[string]any { return c.itemsData }

// VariableContext returns the named lookup entries, including reserved
// @-entries when applicable.
func (c *Context) VariableContext() map[string]any { return c.variableContext }

// Hierarchy returns the context's explicit flat/composed mode.
func (c *Context) Hierarchy() Hierarchy { return c.hierarchy }

// RenderingOptions returns the renderer toggles.
func (c *Context) RenderingOptions() RenderingOptions { return c.options }

// Metadata returns the job metadata carried by this context.
func (c *Context) Metadata() templateir.Metadata { return c.metadata }

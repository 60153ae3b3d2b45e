package schema

import "errors"

var (
	ErrSchemaEmpty             = errors.New("schema: definition is empty")
	ErrSchemaInvalid           = errors.New("schema: definition is invalid")
	ErrFrontmatterPartNotFound = errors.New("schema: no property carries the frontmatter-part directive")
	ErrDerivedSourceMissing    = errors.New("schema: derived property is missing its source expression")
	ErrPropertyDefinitionShape = errors.New("schema: property definition must be an object")
)

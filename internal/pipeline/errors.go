package pipeline

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	schemaLoadCode  = "PIPELINE_SCHEMA_LOAD_FAILED"
	documentsCode   = "PIPELINE_DOCUMENT_LOAD_FAILED"
	extractionCode  = "PIPELINE_EXTRACTION_FAILED"
	aggregationCode = "PIPELINE_AGGREGATION_FAILED"
	renderCode      = "PIPELINE_RENDER_FAILED"
)

func wrapSchemaError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "schema load failed").
		WithTextCode(schemaLoadCode)
}

func wrapDocumentError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryNotFound, "document load failed").
		WithTextCode(documentsCode)
}

func wrapExtractionError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "extraction failed").
		WithTextCode(extractionCode)
}

func wrapAggregationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "aggregation failed").
		WithTextCode(aggregationCode)
}

func wrapRenderError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "render failed").
		WithTextCode(renderCode)
}

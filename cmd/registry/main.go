// Command registry builds an aggregated artifact, such as a command
// registry, from a directory of Markdown documents and a directive-annotated
// schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	fts "github.com/tettuan/frontmatter-to-schema"
	"github.com/tettuan/frontmatter-to-schema/internal/output"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("registry: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("registry", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	schemaPath := fs.String("schema", "", "Path to the directive-annotated schema")
	docsDir := fs.String("docs", "", "Directory containing the markdown documents")
	mainTemplate := fs.String("template", "", "Main template path (defaults to the schema's template directive)")
	itemsTemplate := fs.String("items-template", "", "Items template path for per-record expansion")
	outputPath := fs.String("output", "", "Path of the rendered artifact")
	outputFormat := fs.String("format", "", "Output format: json, yaml, or markdown")
	structured := fs.Bool("structured", false, "Merge document datasets directly instead of rendering templates")
	mergeKey := fs.String("merge-key", "name", "Field identifying array elements across documents (structured mode)")
	logLevel := fs.String("log-level", "", "Log level override (trace..fatal)")
	quiet := fs.Bool("quiet", false, "Disable logging output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := fts.DefaultConfig()
	if *configPath != "" {
		loaded, err := fts.LoadConfigFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *quiet {
		cfg.Logging.Enabled = false
	}

	module, err := fts.New(cfg)
	if err != nil {
		return fmt.Errorf("configure module: %w", err)
	}

	ctx := context.Background()

	var result *fts.RunResult
	if *structured {
		result, err = module.RunStructured(ctx, fts.StructuredRunConfig{
			SchemaPath: *schemaPath,
			DocsDir:    *docsDir,
			OutputPath: *outputPath,
			Format:     output.FormatKind(*outputFormat),
			MergeKey:   *mergeKey,
		})
	} else {
		overrides := fts.RunConfig{
			SchemaPath:        *schemaPath,
			DocsDir:           *docsDir,
			MainTemplatePath:  *mainTemplate,
			ItemsTemplatePath: *itemsTemplate,
			OutputPath:        *outputPath,
		}
		if *outputFormat != "" {
			format, err := fts.FormatFor(*outputFormat)
			if err != nil {
				return err
			}
			overrides.OutputFormat = format
		}
		result, err = module.Run(ctx, overrides)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "run %s: %d documents, %d items -> %s\n",
		result.RunID, result.Documents, result.Items, result.Output.Path)
	return nil
}

package render

import (
	"fmt"
	"strings"

	"github.com/tettuan/frontmatter-to-schema/internal/logging"
	"github.com/tettuan/frontmatter-to-schema/internal/templatectx"
	"github.com/tettuan/frontmatter-to-schema/internal/templateir"
	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

// RenderedOutput is the terminal value of a render job: the final text and
// the logical path it was written to.
type RenderedOutput struct {
	Path    string
	Content string
}

// Service renders template IRs into output artifacts. Template text comes
// from the injected reader and results leave through the injected writer; the
// service itself never touches the filesystem.
type Service struct {
	reader   interfaces.FileReader
	writer   interfaces.FileWriter
	renderer *Renderer
	logger   interfaces.Logger
}

// ServiceOption customises Service construction.
type ServiceOption func(*Service)

// WithLogger attaches a logger to the rendering service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a rendering service around the given collaborators.
func NewService(reader interfaces.FileReader, writer interfaces.FileWriter, opts ...ServiceOption) *Service {
	s := &Service{
		reader:   reader,
		writer:   writer,
		renderer: NewRenderer(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RenderOutputFromIR renders the IR's templates and writes the result at
// outputPath. Dual-template jobs expand the items template once per item and
// splice the blocks at the main template's {@items} marker.
func (s *Service) RenderOutputFromIR(ir *templateir.IR, outputPath string) (*RenderedOutput, error) {
	mainText, err := s.readTemplate(ir.MainTemplatePath())
	if err != nil {
		return nil, err
	}

	base := templatectx.FromIR(ir)

	var rendered string
	if ir.Config().Kind() == templateir.KindDualTemplate {
		rendered, err = s.renderDual(ir, base, mainText)
	} else {
		rendered, err = s.renderer.RenderString(mainText, base)
	}
	if err != nil {
		return nil, err
	}

	if err := s.writer.Write(outputPath, rendered); err != nil {
		return nil, fmt.Errorf("render: write %s: %w", outputPath, err)
	}

	s.logger.Info("output rendered", "output_path", outputPath, "format", string(ir.OutputFormat()))
	return &RenderedOutput{Path: outputPath, Content: rendered}, nil
}

func (s *Service) renderDual(ir *templateir.IR, base *templatectx.Context, mainText string) (string, error) {
	if !strings.Contains(mainText, ItemsMarker) {
		return "", fmt.Errorf("%w: main template %s carries no %s marker for its items array",
			ErrItemsNotAvailable, ir.MainTemplatePath(), ItemsMarker)
	}

	itemsText, err := s.readTemplate(ir.ItemsTemplatePath())
	if err != nil {
		return "", err
	}

	items := ir.ItemsArray()
	blocks := make([]string, 0, len(items))
	for i, item := range items {
		itemCtx := templatectx.ForItem(base, item, i)
		block, err := s.renderer.RenderString(itemsText, itemCtx)
		if err != nil {
			return "", fmt.Errorf("render: item %d: %w", i, err)
		}
		blocks = append(blocks, block)
	}

	mainRendered, err := s.renderer.substitute(mainText, base)
	if err != nil {
		return "", err
	}

	return strings.ReplaceAll(mainRendered, ItemsMarker, spliceBlocks(ir.OutputFormat(), blocks)), nil
}

// spliceBlocks joins rendered item blocks per the target format's layout
// convention: Markdown stacks the blocks in item order, JSON and YAML insert
// them into the array slot the marker occupies.
func spliceBlocks(format templateir.OutputFormat, blocks []string) string {
	switch format {
	case templateir.FormatMarkdown:
		return strings.Join(blocks, "\n\n")
	default:
		trimmed := make([]string, 0, len(blocks))
		for _, block := range blocks {
			trimmed = append(trimmed, strings.TrimSpace(block))
		}
		return "[" + strings.Join(trimmed, ", ") + "]"
	}
}

func (s *Service) readTemplate(path string) (string, error) {
	text, err := s.reader.Read(path)
	if err != nil {
		return "", &FileNotFoundError{Path: path, Err: err}
	}
	return text, nil
}

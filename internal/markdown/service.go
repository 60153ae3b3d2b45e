package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tettuan/frontmatter-to-schema/internal/logging"
	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

// Config controls how the Markdown service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	// RenderHTML populates Document.BodyHTML for every loaded document.
	RenderHTML bool
	Parser     interfaces.ParseOptions
}

// Service loads filesystem-backed Markdown documents and renders their bodies.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
	logger interfaces.Logger
}

// ServiceOption customises Service construction.
type ServiceOption func(*Service)

// WithLogger attaches a logger provider to the service.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *Service) {
		s.logger = logging.MarkdownLogger(provider)
	}
}

// WithFilesystem overrides the filesystem derived from Config.BasePath,
// primarily for tests.
func WithFilesystem(filesystem fs.FS) ServiceOption {
	return func(s *Service) {
		s.loader = NewLoader(filesystem, LoaderConfig{
			BasePath:  s.cfg.BasePath,
			Pattern:   s.cfg.Pattern,
			Recursive: s.cfg.Recursive,
		})
	}
}

// NewService constructs a Markdown service. When parser is nil, a Goldmark
// parser with the configured default options is created.
func NewService(cfg Config, parser interfaces.MarkdownParser, opts ...ServiceOption) (*Service, error) {
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}

	svc := &Service{
		cfg:    cfg,
		parser: parser,
		logger: logging.NoOp(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.loader == nil {
		filesystem, err := prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		svc.loader = NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		})
	}

	return svc, nil
}

// Load reads a single Markdown document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, path, LoadParams{})
	if err != nil {
		return nil, err
	}
	if err := s.renderDocument(ctx, result.Document); err != nil {
		return nil, err
	}
	s.logger.Debug("loaded markdown document", "document_path", result.Document.FilePath)
	return result.Document, nil
}

// LoadDirectory reads every Markdown document within the supplied directory.
func (s *Service) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, dir, LoadParams{})
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if err := s.renderDocument(ctx, result.Document); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}

	s.logger.Debug("loaded markdown directory", "dir", dir, "count", len(docs))
	return docs, nil
}

// Render parses Markdown bytes into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, markdown []byte) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.parser.ParseWithOptions(markdown, s.cfg.Parser)
}

// RenderDocument converts the document's Markdown body into HTML and stores it
// on the document.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	html, err := s.Render(ctx, doc.Body)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return html, nil
}

func (s *Service) renderDocument(ctx context.Context, doc *interfaces.Document) error {
	if !s.cfg.RenderHTML {
		return nil
	}
	_, err := s.RenderDocument(ctx, doc)
	return err
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if basePath == "" {
		return nil, errors.New("markdown service: base path is required")
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("markdown service: resolve base path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("markdown service: stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("markdown service: base path %s is not a directory", abs)
	}
	return os.DirFS(abs), nil
}

package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"github.com/ledongthuc/pdf"

	"github.com/ragline/ragline"
	"github.com/ragline/ragline/log"
)

// LoadFile parses a single file into page fragments and appends them to the
// loader. PDF files produce one fragment per page; text, markdown and HTML
// files produce a single page-less fragment. Unsupported file types are a
// fatal input error.
func (l *DocumentLoader) LoadFile(path string) error {
	fragments, err := readFile(path)
	if err != nil {
		return err
	}
	l.fragments = append(l.fragments, fragments...)
	return nil
}

// LoadDirectory loads every supported file in dir, in lexical order.
// Subdirectories and unsupported file types are skipped.
func (l *DocumentLoader) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: reading directory %s: %v", ragline.ErrInput, dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !supportedFile(path) {
			log.Debug("skipping unsupported file %s", path)
			continue
		}
		if err := l.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

func supportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md", ".markdown", ".html", ".htm", ".pdf":
		return true
	}
	return false
}

func readFile(path string) ([]ragline.PageFragment, error) {
	name := filepath.Base(path)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return readPDF(path, name)
	case ".html", ".htm":
		return readHTML(path, name)
	case ".md", ".markdown":
		return readMarkdown(path, name)
	case ".txt", ".text":
		return readPlainText(path, name)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q (%s)", ragline.ErrInput, ext, path)
	}
}

func readPlainText(path, name string) ([]ragline.PageFragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ragline.ErrInput, path, err)
	}
	return pagelessFragment(string(data), name, path), nil
}

// readPDF extracts plain text per page. Pages with no extractable text are
// skipped; page labels are 1-based.
func readPDF(path, name string) ([]ragline.PageFragment, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening pdf %s: %v", ragline.ErrInput, path, err)
	}
	defer f.Close()

	var fragments []ragline.PageFragment
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: extracting page %d of %s: %v", ragline.ErrInput, i, path, err)
		}
		if strings.TrimSpace(text) == "" {
			log.Debug("pdf %s page %d has no extractable text", name, i)
			continue
		}
		fragments = append(fragments, ragline.PageFragment{
			Text:         text,
			DocumentName: name,
			DocumentPath: path,
			Page:         strconv.Itoa(i),
		})
	}
	return fragments, nil
}

func readHTML(path, name string) ([]ragline.PageFragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ragline.ErrInput, path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing html %s: %v", ragline.ErrInput, path, err)
	}
	doc.Find("script, style, noscript").Remove()
	return pagelessFragment(doc.Text(), name, path), nil
}

// readMarkdown walks the markdown AST and collects text content, inserting
// newlines at block boundaries so the splitter sees headings and paragraphs
// as separate sentences.
func readMarkdown(path, name string) ([]ragline.PageFragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ragline.ErrInput, path, err)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	root := p.Parse(data)

	var sb strings.Builder
	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				sb.Write(n.Literal)
				sb.WriteByte('\n')
			}
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			if !entering {
				sb.WriteByte('\n')
			}
		}
		return ast.GoToNext
	})
	return pagelessFragment(sb.String(), name, path), nil
}

func pagelessFragment(text, name, path string) []ragline.PageFragment {
	if strings.TrimSpace(text) == "" {
		log.Debug("no text content in %s", path)
		return nil
	}
	return []ragline.PageFragment{{
		Text:         text,
		DocumentName: name,
		DocumentPath: path,
	}}
}

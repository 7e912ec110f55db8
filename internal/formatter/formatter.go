package formatter

import (
	"fmt"
	"io"
	"strings"

	"charlotte/internal/options"
	"charlotte/internal/query"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Formatter prints matches according to the output flags.
type Formatter struct {
	w         io.Writer
	attrs     []string
	body      bool
	text      bool
	markdown  bool
	count     bool
	converter *md.Converter
}

func New(w io.Writer, cfg options.Config) *Formatter {
	f := &Formatter{
		w:        w,
		attrs:    cfg.Attrs,
		body:     cfg.Body,
		text:     cfg.Text,
		markdown: cfg.Markdown,
		count:    cfg.Count,
	}
	if f.markdown {
		f.converter = md.NewConverter("", true, nil)
		f.converter.Use(plugin.GitHubFlavored())
	}
	return f
}

// WriteMatches prints the nodes matched in one document.
func (f *Formatter) WriteMatches(nodes []*html.Node) error {
	if f.count {
		_, err := fmt.Fprintln(f.w, len(nodes))
		return err
	}
	for _, n := range nodes {
		for _, target := range f.targets(n) {
			if err := f.writeNode(target); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteDocument prints a document that had no selector applied: the whole
// document, or only the contents of <body> in body mode.
func (f *Formatter) WriteDocument(doc *query.Document) error {
	var fragment string
	var err error
	if body := doc.Body(); f.body && body != nil {
		fragment, err = goquery.NewDocumentFromNode(body).Html()
	} else {
		fragment, err = doc.HTML()
	}
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	switch {
	case f.text:
		root := doc.Root()
		if body := doc.Body(); f.body && body != nil {
			root = body
		}
		fragment = strings.TrimSpace(goquery.NewDocumentFromNode(root).Text())
	case f.markdown:
		if fragment, err = f.toMarkdown(fragment); err != nil {
			return err
		}
	}
	return f.println(fragment)
}

// targets returns n itself, or its children in body mode. Whitespace-only
// text children carry nothing worth printing and are skipped.
func (f *Formatter) targets(n *html.Node) []*html.Node {
	if !f.body {
		return []*html.Node{n}
	}
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		children = append(children, c)
	}
	return children
}

func (f *Formatter) writeNode(n *html.Node) error {
	if len(f.attrs) > 0 {
		return f.writeAttrs(n)
	}

	var out string
	var err error
	switch {
	case f.text:
		out = strings.TrimSpace(goquery.NewDocumentFromNode(n).Text())
	case f.markdown:
		var outer string
		if outer, err = render(n); err != nil {
			return err
		}
		out, err = f.toMarkdown(outer)
	default:
		out, err = render(n)
	}
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	return f.println(out)
}

// writeAttrs prints each requested attribute that n carries with a
// non-blank value, in the order the attributes were requested.
func (f *Formatter) writeAttrs(n *html.Node) error {
	if n.Type != html.ElementNode {
		return nil
	}
	for _, name := range f.attrs {
		for _, a := range n.Attr {
			if a.Namespace != "" || !strings.EqualFold(a.Key, name) {
				continue
			}
			if strings.TrimSpace(a.Val) == "" {
				break
			}
			if err := f.println(a.Val); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func (f *Formatter) toMarkdown(fragment string) (string, error) {
	out, err := f.converter.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (f *Formatter) println(s string) error {
	_, err := fmt.Fprintln(f.w, s)
	return err
}

// render serializes n. Detached text nodes, which XPath produces for
// attribute and scalar results, are printed verbatim.
func render(n *html.Node) (string, error) {
	if n.Type == html.TextNode && n.Parent == nil {
		return n.Data, nil
	}
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("failed to serialize node: %w", err)
	}
	return sb.String(), nil
}

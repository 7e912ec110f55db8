package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charlotte/internal/options"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// ErrParse covers unreadable documents and selectors or XPath expressions
// that do not compile.
var ErrParse = errors.New("parse error")

// Kind selects the query language.
type Kind int

const (
	CSS Kind = iota
	XPath
)

func (k Kind) String() string {
	if k == XPath {
		return "xpath"
	}
	return "css"
}

// Query is one CSS selector or one XPath expression.
type Query struct {
	Kind Kind
	Expr string
}

// FromConfig returns the configured queries, XPath first.
func FromConfig(cfg options.Config) []Query {
	var qs []Query
	if cfg.XPath != "" {
		qs = append(qs, Query{Kind: XPath, Expr: cfg.XPath})
	}
	if cfg.Selector != "" {
		qs = append(qs, Query{Kind: CSS, Expr: cfg.Selector})
	}
	return qs
}

// Document is a parsed HTML tree.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from markup.
func Parse(text string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &Document{doc: doc}, nil
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

// Body returns the <body> element, or nil if there is none.
func (d *Document) Body() *html.Node {
	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}
	return body.Nodes[0]
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.doc.Nodes[0]
}

// Evaluate runs every query in order and concatenates the matches.
func (d *Document) Evaluate(qs []Query) ([]*html.Node, error) {
	var all []*html.Node
	for _, q := range qs {
		nodes, err := d.Select(q)
		if err != nil {
			return nil, err
		}
		all = append(all, nodes...)
	}
	return all, nil
}

// Select runs a single query and returns its matches in document order.
func (d *Document) Select(q Query) ([]*html.Node, error) {
	switch q.Kind {
	case XPath:
		return d.selectXPath(q.Expr)
	case CSS:
		return d.selectCSS(q.Expr)
	default:
		return nil, fmt.Errorf("unsupported query kind: %d", q.Kind)
	}
}

func (d *Document) selectCSS(selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid CSS selector %q: %w", ErrParse, selector, err)
	}
	return d.doc.FindMatcher(sel).Nodes, nil
}

// selectXPath evaluates expr against the document. Attribute results become
// text nodes holding the value; scalar results (counts, strings, booleans)
// become a single text node.
func (d *Document) selectXPath(expr string) ([]*html.Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid XPath %q: %w", ErrParse, expr, err)
	}

	switch v := compiled.Evaluate(htmlquery.CreateXPathNavigator(d.Root())).(type) {
	case *xpath.NodeIterator:
		var nodes []*html.Node
		for v.MoveNext() {
			nav, ok := v.Current().(*htmlquery.NodeNavigator)
			if !ok {
				continue
			}
			if nav.NodeType() == xpath.AttributeNode {
				nodes = append(nodes, textNode(nav.Value()))
				continue
			}
			nodes = append(nodes, nav.Current())
		}
		return nodes, nil
	case float64:
		return []*html.Node{textNode(strconv.FormatFloat(v, 'f', -1, 64))}, nil
	case string:
		return []*html.Node{textNode(v)}, nil
	case bool:
		return []*html.Node{textNode(strconv.FormatBool(v))}, nil
	default:
		return nil, nil
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

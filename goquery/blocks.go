package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type blockKind int

const (
	blockOther blockKind = iota
	blockHeading
	blockParagraph
	blockList
	blockBlockquote
	blockContainer
)

// block is one structural unit of the flattened content area.
type block struct {
	kind  blockKind
	level int // heading level, 0 for non-headings
	sel   *goquery.Selection
	text  string // whitespace-collapsed text
}

// node returns the first node of the block. Inline runs span several nodes.
func (b block) node() *html.Node {
	return b.sel.Get(0)
}

// isBoundary reports whether b ends a section opened at the given level.
func isBoundary(b block, level int) bool {
	return b.kind == blockHeading && b.level <= level
}

// within reports whether b sits inside an element matching selector,
// searching ancestors below root only.
func (b block) within(root *goquery.Selection, selector string) bool {
	return b.sel.First().ParentsUntilSelection(root).Filter(selector).Length() > 0
}

// inside reports whether b is n or a descendant of n.
func (b block) inside(n *html.Node) bool {
	for p := b.node(); p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

var blockLevel = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Details: true, atom.Dialog: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hgroup: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Ul: true,
}

var containers = map[atom.Atom]bool{
	atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Main: true, atom.Aside: true, atom.Header: true,
}

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// flatten walks root once and returns its blocks in document order.
func flatten(root *goquery.Selection) []block {
	var blocks []block

	var walk func(parent *goquery.Selection)
	walk = func(parent *goquery.Selection) {
		contents := parent.Contents()
		runStart := -1

		flushRun := func(end int) {
			if runStart < 0 {
				return
			}
			run := contents.Slice(runStart, end)
			runStart = -1
			if text := collapse(run.Text()); text != "" {
				blocks = append(blocks, block{kind: blockParagraph, sel: run, text: text})
			}
		}

		contents.Each(func(i int, s *goquery.Selection) {
			n := s.Get(0)
			if isInline(n) {
				if runStart < 0 {
					runStart = i
				}
				return
			}
			flushRun(i)

			switch {
			case isHeading(n):
				blocks = append(blocks, block{kind: blockHeading, level: headingLevel(n), sel: s, text: collapse(s.Text())})
			case n.DataAtom != atom.Ul && n.DataAtom != atom.Ol && containsHeading(n):
				// details, figure, table and the like are only kept whole
				// when no heading is nested inside.
				walk(s)
				return
			case n.DataAtom == atom.P:
				blocks = append(blocks, block{kind: blockParagraph, sel: s, text: collapse(s.Text())})
			case n.DataAtom == atom.Ul || n.DataAtom == atom.Ol:
				blocks = append(blocks, block{kind: blockList, sel: s, text: collapse(s.Text())})
			case n.DataAtom == atom.Blockquote:
				blocks = append(blocks, block{kind: blockBlockquote, sel: s, text: collapse(s.Text())})
			case containers[n.DataAtom] || !blockLevel[n.DataAtom]:
				// Inline elements land here only when they wrap block content.
				if hasBlockChildren(n) {
					walk(s)
					return
				}
				if text := collapse(s.Text()); text != "" {
					blocks = append(blocks, block{kind: blockContainer, sel: s, text: text})
				}
			default:
				blocks = append(blocks, block{kind: blockOther, sel: s, text: collapse(s.Text())})
			}
		})
		flushRun(contents.Length())
	}

	walk(root)
	return blocks
}

// isInline reports whether n belongs in a run of loose inline content.
func isInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode, html.CommentNode:
		return true
	case html.ElementNode:
		return !isBlock(n) && !containsBlock(n)
	default:
		return false
	}
}

func isBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && (blockLevel[n.DataAtom] || isHeading(n))
}

func hasBlockChildren(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isBlock(c) || (c.Type == html.ElementNode && containsBlock(c)) {
			return true
		}
	}
	return false
}

func containsBlock(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isBlock(c) || containsBlock(c) {
			return true
		}
	}
	return false
}

func containsHeading(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isHeading(c) || containsHeading(c) {
			return true
		}
	}
	return false
}

func isHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if _, ok := headingLevels[n.DataAtom]; ok {
		return true
	}
	return attr(n, "role") == "heading"
}

// headingLevel returns the depth of a heading node. A role="heading" element
// without a usable aria-level counts as the deepest level.
func headingLevel(n *html.Node) int {
	if level, ok := headingLevels[n.DataAtom]; ok {
		return level
	}
	level, err := strconv.Atoi(strings.TrimSpace(attr(n, "aria-level")))
	if err != nil || level < 1 {
		return 6
	}
	return min(level, 6)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// collapse joins the whitespace-separated fields of s with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

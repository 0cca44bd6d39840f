package page

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// el builds an element. attrs is a flat key, value list.
func el(tag string, attrs []string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

func attrs(kv ...string) []string { return kv }

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// replaceChildren drops every child of n and appends children in order.
func replaceChildren(n *html.Node, children ...*html.Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
}

func setText(n *html.Node, s string) {
	replaceChildren(n, text(s))
}

func setAttr(n *html.Node, key, val string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// query returns the first element under root, in document order, that
// matches the CSS selector sel. root itself is not considered.
func query(root *html.Node, sel string) *html.Node {
	if root == nil {
		return nil
	}
	return cascadia.Query(root, cascadia.MustCompile(sel))
}

func queryAll(root *html.Node, sel string) []*html.Node {
	if root == nil {
		return nil
	}
	return cascadia.QueryAll(root, cascadia.MustCompile(sel))
}

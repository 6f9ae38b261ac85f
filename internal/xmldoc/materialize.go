// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xmldoc

import (
	"html"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Transform rewrites one element's already-materialized child text. It runs
// at every element boundary during MaterializeText, letting callers convert
// inline markup to whatever their target format needs.
type Transform func(el *xmlquery.Node, text string) string

// MaterializeText folds the subtree under n bottom-up into a single string:
// raw text leaves are HTML-escaped, children concatenate in document order,
// and fn runs once per descendant element with the element and its folded
// child text. A nil fn keeps child text as is. Returns "" for a nil node.
// Pure; the tree is never modified.
func MaterializeText(n *xmlquery.Node, fn Transform) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			b.WriteString(html.EscapeString(child.Data))
		case xmlquery.ElementNode:
			text := MaterializeText(child, fn)
			if fn != nil {
				text = fn(child, text)
			}
			b.WriteString(text)
		}
	}
	return b.String()
}

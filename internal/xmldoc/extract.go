// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xmldoc

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Evaluate runs a path expression relative to ctx (document root when nil)
// and returns the raw result: string, float64, bool, or []*xmlquery.Node.
func (d *Document) Evaluate(expr string, ctx *xmlquery.Node) (any, error) {
	e, err := d.compile(expr)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = d.doc
	}
	v := e.Evaluate(xmlquery.CreateXPathNavigator(ctx))
	if _, ok := v.(*xpath.NodeIterator); ok {
		return xmlquery.QuerySelectorAll(ctx, e), nil
	}
	return v, nil
}

// Select returns the node-set matching expr, in document order.
func (d *Document) Select(expr string, ctx *xmlquery.Node) ([]*xmlquery.Node, error) {
	e, err := d.compile(expr)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = d.doc
	}
	return xmlquery.QuerySelectorAll(ctx, e), nil
}

// SelectFirst returns the first node matching expr, nil when nothing matches.
func (d *Document) SelectFirst(expr string, ctx *xmlquery.Node) (*xmlquery.Node, error) {
	e, err := d.compile(expr)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = d.doc
	}
	return xmlquery.QuerySelector(ctx, e), nil
}

// SelectText evaluates expr as a string: the string value of the first match
// with any embedded markup stripped and surrounding whitespace trimmed.
// Scalar results are formatted; an empty node-set yields "".
func (d *Document) SelectText(expr string, ctx *xmlquery.Node) (string, error) {
	v, err := d.Evaluate(expr, ctx)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case []*xmlquery.Node:
		if len(t) == 0 {
			return "", nil
		}
		return strings.TrimSpace(t[0].InnerText()), nil
	}
	return "", nil
}

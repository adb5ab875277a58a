package shape

import (
	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// CullNodes returns the nodes whose polygon approximation has a vertex
// inside view. view is in diagram coordinates.
func CullNodes(nodes []*thought.Node, view geom.Rect, e *textlayout.Engine, opts Options) []*thought.Node {
	viewPoly := view.Polygon()
	var kept []*thought.Node
	for _, n := range nodes {
		if geom.PolygonInsidePolygon(NodeCircle(n, e).Polygon(opts.circleVertices()), viewPoly) {
			kept = append(kept, n)
		}
	}
	return kept
}

// CullConnections returns the connections whose outline has a vertex
// inside view. A connection passing over the view with all four outline
// points outside it is dropped.
func CullConnections(conns []*thought.Connection, view geom.Rect, e *textlayout.Engine, opts Options) []*thought.Connection {
	viewPoly := view.Polygon()
	var kept []*thought.Connection
	for _, c := range conns {
		if geom.PolygonInsidePolygon(ConnectionRibbon(c, e, opts).Outline(), viewPoly) {
			kept = append(kept, c)
		}
	}
	return kept
}

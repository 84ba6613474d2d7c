package searchtrace

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

var outcomeColor = map[Outcome]string{
	OutcomeAccepted: "darkgreen",
	OutcomeRejected: "firebrick",
	OutcomePending:  "gray",
}

// WriteDOT renders the explored search tree in Graphviz DOT format.
func WriteDOT(w io.Writer, t *Trace) error {
	g := graph.New(graph.StringHash, graph.Directed())

	if err := g.AddVertex(vertexID(Root), graph.VertexAttribute("label", "resolve"), graph.VertexAttribute("shape", "box")); err != nil {
		return fmt.Errorf("searchtrace: add root: %w", err)
	}
	for _, a := range t.attempts {
		label := fmt.Sprintf("%s = %s", a.Name, a.Candidate)
		err := g.AddVertex(vertexID(a.ID),
			graph.VertexAttribute("label", label),
			graph.VertexAttribute("color", outcomeColor[a.Outcome]),
			graph.VertexAttribute("tooltip", a.Reason),
		)
		if err != nil {
			return fmt.Errorf("searchtrace: add attempt %d: %w", a.ID, err)
		}
	}
	for _, a := range t.attempts {
		if err := g.AddEdge(vertexID(a.Parent), vertexID(a.ID)); err != nil {
			return fmt.Errorf("searchtrace: link attempt %d: %w", a.ID, err)
		}
	}
	return draw.DOT(g, w)
}

func vertexID(id int) string {
	return "a" + strconv.Itoa(id)
}

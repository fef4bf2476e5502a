package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

var classColors = map[string]string{
	"field": "lightblue",
	"model": "palegreen",
	"form":  "lightsalmon",
}

// WriteDOT writes the graph in Graphviz DOT syntax. Edges point from a
// document to the ancestor it extends.
func (g *Graph) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph schemas {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	fmt.Fprintln(bw, "  node [shape=box, style=filled];")

	for _, n := range g.Nodes {
		color, ok := classColors[string(n.Class)]
		if !ok {
			color = "lightgrey"
		}

		attrs := "fillcolor=" + color
		if n.Abstract {
			attrs += ", style=\"filled,dashed\""
		}

		if n.Leaf {
			attrs += ", shape=note"
		}

		fmt.Fprintf(bw, "  %s [label=%s, %s];\n", strconv.Quote(n.Key), strconv.Quote(n.Path), attrs)
	}

	for _, e := range g.Edges {
		if e.Property == "" {
			fmt.Fprintf(bw, "  %s -> %s;\n", strconv.Quote(e.From), strconv.Quote(e.To))
			continue
		}

		fmt.Fprintf(bw, "  %s -> %s [label=%s];\n",
			strconv.Quote(e.From), strconv.Quote(e.To), strconv.Quote(e.Property))
	}

	fmt.Fprintln(bw, "}")

	return bw.Flush()
}

// Package graph builds the inheritance graph of an expanded registry from
// "$reference" metadata, orders documents so ancestors come first and
// renders the graph as Graphviz DOT.
package graph

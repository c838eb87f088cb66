package css

import (
	"fontpack/utils/debug"
)

// Dump returns indented textual representation of the tree for debug reports.
func Dump(n Node) string {
	tw := debug.NewTreeWriter()
	dumpNode(tw, 0, n)
	return tw.String()
}

func dumpNode(tw *debug.TreeWriter, depth int, n Node) {
	switch v := n.(type) {
	case nil:
		tw.Line(depth, "<nil>")
	case *StyleSheet:
		tw.Line(depth, "%s", v.Kind())
		for _, c := range v.Children {
			dumpNode(tw, depth+1, c)
		}
	case *Atrule:
		tw.Line(depth, "%s @%s", v.Kind(), v.Name)
		if v.Prelude != "" {
			tw.TextBlock(depth+1, "prelude", v.Prelude)
		}
		if v.Block != nil {
			dumpNode(tw, depth+1, v.Block)
		}
	case *Rule:
		tw.Line(depth, "%s", v.Kind())
		tw.TextBlock(depth+1, "selector", v.Selector)
		if v.Block != nil {
			dumpNode(tw, depth+1, v.Block)
		}
	case *Block:
		tw.Line(depth, "%s", v.Kind())
		for _, c := range v.Children {
			dumpNode(tw, depth+1, c)
		}
	case *Declaration:
		if v.Important {
			tw.Line(depth, "%s %s !important", v.Kind(), v.Property)
		} else {
			tw.Line(depth, "%s %s", v.Kind(), v.Property)
		}
		dumpNode(tw, depth+1, v.Value)
	case *Value:
		tw.Line(depth, "%s", v.Kind())
		for _, c := range v.Children {
			dumpNode(tw, depth+1, c)
		}
	case *Function:
		tw.Line(depth, "%s %s", v.Kind(), v.Name)
		for _, c := range v.Children {
			dumpNode(tw, depth+1, c)
		}
	case *URL:
		tw.Line(depth, "%s", v.Kind())
		dumpNode(tw, depth+1, v.Value)
	case *Identifier:
		tw.TextBlock(depth, v.Kind().String(), v.Name)
	default:
		tw.TextBlock(depth, n.Kind().String(), Text(n))
	}
}

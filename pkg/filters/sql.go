package filters

import (
	"fmt"
	"strings"
)

// LowerFunc is the SQL function the compiled clauses use for
// case-insensitive comparisons. SQLite's built-in lower() only folds ASCII,
// so the store registers this name as a Unicode-aware replacement.
const LowerFunc = "ulower"

// SQL compiles the tree into a WHERE fragment over the events table with
// positional arguments. A nil tree compiles to an empty clause.
func (n *Node) SQL() (string, []any) {
	if n == nil {
		return "", nil
	}

	var sb strings.Builder
	var args []any
	n.compile(&sb, &args)
	return sb.String(), args
}

func (n *Node) compile(sb *strings.Builder, args *[]any) {
	switch n.Op {
	case And, Or:
		if len(n.Children) == 0 {
			if n.Op == And {
				sb.WriteString("1 = 1")
			} else {
				sb.WriteString("1 = 0")
			}
			return
		}

		sep := " AND "
		if n.Op == Or {
			sep = " OR "
		}

		sb.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteString(sep)
			}
			c.compile(sb, args)
		}
		sb.WriteByte(')')

	case Contains:
		fmt.Fprintf(sb, "instr(%s(COALESCE(%s, '')), ?) > 0", LowerFunc, n.column())
		*args = append(*args, strings.ToLower(n.text()))

	case EqualFold:
		fmt.Fprintf(sb, "%s(COALESCE(%s, '')) = ?", LowerFunc, n.column())
		*args = append(*args, strings.ToLower(n.text()))

	case Equal:
		fmt.Fprintf(sb, "COALESCE(%s, '') = ?", n.column())
		*args = append(*args, n.text())

	case HasTag:
		sb.WriteString("EXISTS (SELECT 1 FROM json_each(events.tags) WHERE json_each.value = ?)")
		*args = append(*args, n.text())

	case Lte:
		fmt.Fprintf(sb, "%s <= ?", n.column())
		*args = append(*args, n.number())

	case Gte:
		fmt.Fprintf(sb, "%s >= ?", n.column())
		*args = append(*args, n.number())

	case IsTrue:
		fmt.Fprintf(sb, "%s = 1", n.column())

	default:
		sb.WriteString("1 = 0")
	}
}

func (n *Node) column() string {
	return "events." + fields[n.Field].column
}

// Package filters turns facet selections into a condition tree that can be
// evaluated against events in memory or compiled to a SQLite WHERE clause.
package filters

import (
	"fmt"
	"strings"

	"github.com/yair/eventify/pkg/domain"
)

// Op is the operation of a Node.
type Op int

const (
	// Logical operators
	And Op = iota
	Or

	// Leaf predicates
	Contains  // case-insensitive substring
	EqualFold // case-insensitive equality
	Equal     // exact string equality
	HasTag    // exact membership in the tags array
	Lte       // integer <=
	Gte       // integer >=
	IsTrue    // boolean flag set
)

var opNames = map[Op]string{
	And:       "and",
	Or:        "or",
	Contains:  "contains",
	EqualFold: "equalFold",
	Equal:     "equal",
	HasTag:    "hasTag",
	Lte:       "lte",
	Gte:       "gte",
	IsTrue:    "isTrue",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Field names an event attribute a leaf predicate reads.
type Field int

const (
	FieldNone Field = iota
	FieldTitle
	FieldLongDescription
	FieldMainCategory
	FieldIdealGroup
	FieldVibe
	FieldDistrict
	FieldTags
	FieldPriceBase
	FieldPriceRange
	FieldPetFriendly
	FieldAccessible
	FieldReservationRequired
	FieldIndoorOutdoor
)

type fieldInfo struct {
	name   string
	column string
}

var fields = map[Field]fieldInfo{
	FieldTitle:               {"title", "title"},
	FieldLongDescription:     {"longDescription", "long_description"},
	FieldMainCategory:        {"mainCategory", "main_category"},
	FieldIdealGroup:          {"idealGroup", "ideal_group"},
	FieldVibe:                {"vibe", "vibe"},
	FieldDistrict:            {"district", "district"},
	FieldTags:                {"tags", "tags"},
	FieldPriceBase:           {"priceBase", "price_base"},
	FieldPriceRange:          {"priceRange", "price_range"},
	FieldPetFriendly:         {"petFriendly", "pet_friendly"},
	FieldAccessible:          {"accessible", "accessible"},
	FieldReservationRequired: {"reservationRequired", "requires_reservation"},
	FieldIndoorOutdoor:       {"indoorOutdoor", "indoor_outdoor"},
}

func (f Field) String() string {
	if info, ok := fields[f]; ok {
		return info.name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Node is one node of a condition tree. Logical nodes use Children; leaf
// nodes use Field and Value (a string for text predicates, an int for
// Lte/Gte, unused for IsTrue).
//
// An And with no children matches everything; an Or with no children
// matches nothing. A nil *Node matches everything.
type Node struct {
	Op       Op
	Field    Field
	Value    any
	Children []*Node
}

func AllOf(children ...*Node) *Node { return &Node{Op: And, Children: children} }
func AnyOf(children ...*Node) *Node { return &Node{Op: Or, Children: children} }

func ContainsText(f Field, v string) *Node { return &Node{Op: Contains, Field: f, Value: v} }
func EqualsFold(f Field, v string) *Node   { return &Node{Op: EqualFold, Field: f, Value: v} }
func Equals(f Field, v string) *Node       { return &Node{Op: Equal, Field: f, Value: v} }
func Tagged(v string) *Node                { return &Node{Op: HasTag, Field: FieldTags, Value: v} }
func AtMost(f Field, v int) *Node          { return &Node{Op: Lte, Field: f, Value: v} }
func AtLeast(f Field, v int) *Node         { return &Node{Op: Gte, Field: f, Value: v} }
func Flag(f Field) *Node                   { return &Node{Op: IsTrue, Field: f} }

// Matches evaluates the tree against e.
func (n *Node) Matches(e *domain.Event) bool {
	if n == nil {
		return true
	}

	switch n.Op {
	case And:
		for _, c := range n.Children {
			if !c.Matches(e) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range n.Children {
			if c.Matches(e) {
				return true
			}
		}
		return false
	case Contains:
		return strings.Contains(strings.ToLower(textOf(e, n.Field)), strings.ToLower(n.text()))
	case EqualFold:
		return strings.ToLower(textOf(e, n.Field)) == strings.ToLower(n.text())
	case Equal:
		return textOf(e, n.Field) == n.text()
	case HasTag:
		return e.HasTag(n.text())
	case Lte:
		return intOf(e, n.Field) <= n.number()
	case Gte:
		return intOf(e, n.Field) >= n.number()
	case IsTrue:
		return flagOf(e, n.Field)
	}

	return false
}

// String renders the tree in a compact prefix form, e.g.
// and(or(hasTag("festivo"),contains(vibe,"festivo"))).
func (n *Node) String() string {
	if n == nil {
		return "true"
	}

	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	sb.WriteString(n.Op.String())
	sb.WriteByte('(')

	switch n.Op {
	case And, Or:
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			c.write(sb)
		}
	case HasTag:
		fmt.Fprintf(sb, "%q", n.text())
	case IsTrue:
		sb.WriteString(n.Field.String())
	case Lte, Gte:
		fmt.Fprintf(sb, "%s,%d", n.Field, n.number())
	default:
		fmt.Fprintf(sb, "%s,%q", n.Field, n.text())
	}

	sb.WriteByte(')')
}

func (n *Node) text() string {
	s, _ := n.Value.(string)
	return s
}

func (n *Node) number() int {
	v, _ := n.Value.(int)
	return v
}

func textOf(e *domain.Event, f Field) string {
	switch f {
	case FieldTitle:
		return e.Title
	case FieldLongDescription:
		return e.LongDescription
	case FieldMainCategory:
		return e.MainCategory
	case FieldIdealGroup:
		return e.IdealGroup
	case FieldVibe:
		return e.Vibe
	case FieldDistrict:
		return e.District
	case FieldPriceRange:
		return e.PriceRange
	case FieldIndoorOutdoor:
		return e.IndoorOutdoor
	}
	return ""
}

func intOf(e *domain.Event, f Field) int {
	if f == FieldPriceBase {
		return e.PriceBase
	}
	return 0
}

func flagOf(e *domain.Event, f Field) bool {
	switch f {
	case FieldPetFriendly:
		return e.PetFriendly
	case FieldAccessible:
		return e.Accessible
	case FieldReservationRequired:
		return e.ReservationRequired
	}
	return false
}

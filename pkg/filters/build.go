package filters

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yair/eventify/pkg/domain"
)

// FeatureMode selects how a recognized feature combines its flag check with
// the generic tag check.
type FeatureMode int

const (
	// FeatureCoupled adds the flag check and the tag check as two separate
	// top-level conditions, so an event needs both.
	FeatureCoupled FeatureMode = iota
	// FeatureEither accepts an event that satisfies either check.
	FeatureEither
)

func ParseFeatureMode(s string) (FeatureMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "coupled":
		return FeatureCoupled, nil
	case "either":
		return FeatureEither, nil
	}
	return FeatureCoupled, fmt.Errorf("unknown feature mode %q", s)
}

func (m FeatureMode) String() string {
	if m == FeatureEither {
		return "either"
	}
	return "coupled"
}

type Options struct {
	// ApplyMinPrice enables the lower price bound, which is otherwise
	// accepted and ignored.
	ApplyMinPrice bool
	FeatureMode   FeatureMode
}

var styleSynonyms = map[string]string{
	"gastro": "gastronómico",
	"relax":  "relajado",
	"fiesta": "festivo",
}

// Build converts a filter state into a conjunction with one condition per
// constrained facet. It returns nil when nothing is constrained. Unknown
// facet values never cause an error.
func Build(state *domain.FilterState, opts Options) *Node {
	if state.IsEmpty() {
		return nil
	}

	var conds []*Node

	if state.Search != "" {
		conds = append(conds, AnyOf(
			ContainsText(FieldTitle, state.Search),
			ContainsText(FieldLongDescription, state.Search),
			ContainsText(FieldMainCategory, state.Search),
		))
	}

	if len(state.Context) > 0 {
		conds = append(conds, anyValue(state.Context, func(c string) *Node {
			val := strings.ToLower(strings.TrimSpace(c))
			return AnyOf(ContainsText(FieldIdealGroup, val), Tagged(val))
		}))
	}

	if len(state.Style) > 0 {
		conds = append(conds, anyValue(state.Style, func(s string) *Node {
			val := strings.ToLower(s)
			mapped := val
			if syn, ok := styleSynonyms[val]; ok {
				mapped = syn
			}
			return AnyOf(ContainsText(FieldVibe, mapped), Tagged(mapped), Tagged(val))
		}))
	}

	if len(state.Districts) > 0 {
		conds = append(conds, anyValue(state.Districts, func(d string) *Node {
			return EqualsFold(FieldDistrict, strings.TrimSpace(d))
		}))
	}

	if len(state.TimeOfDay) > 0 {
		conds = append(conds, anyValue(state.TimeOfDay, func(t string) *Node {
			return Tagged(strings.ToLower(strings.TrimSpace(t)))
		}))
	}

	if state.MaxPrice != nil {
		conds = append(conds, AtMost(FieldPriceBase, *state.MaxPrice))
	}

	if state.MinPrice != nil && opts.ApplyMinPrice {
		conds = append(conds, AtLeast(FieldPriceBase, *state.MinPrice))
	}

	if len(state.PriceCategory) > 0 {
		conds = append(conds, anyValue(state.PriceCategory, priceCategory))
	}

	for _, feat := range state.Features {
		specific := featureFlag(feat)
		generic := Tagged(feat)

		switch {
		case specific == nil:
			conds = append(conds, generic)
		case opts.FeatureMode == FeatureEither:
			conds = append(conds, AnyOf(specific, generic))
		default:
			conds = append(conds, specific, generic)
		}
	}

	if len(conds) == 0 {
		return nil
	}
	return AllOf(conds...)
}

func anyValue(values []string, leaf func(string) *Node) *Node {
	children := make([]*Node, 0, len(values))
	for _, v := range values {
		children = append(children, leaf(v))
	}
	return AnyOf(children...)
}

func priceCategory(c string) *Node {
	val := strings.ToLower(strings.TrimSpace(c))
	switch val {
	case domain.PriceGratis:
		return AtMost(FieldPriceBase, 0)
	case domain.PriceEconomico:
		return AllOf(AtLeast(FieldPriceBase, 1), AtMost(FieldPriceBase, 40))
	case domain.PriceMedio:
		return AllOf(AtLeast(FieldPriceBase, 41), AtMost(FieldPriceBase, 100))
	case domain.PricePremium:
		return AtLeast(FieldPriceBase, 101)
	}
	return Equals(FieldPriceRange, val)
}

func featureFlag(feat string) *Node {
	switch feat {
	case "pet_friendly":
		return Flag(FieldPetFriendly)
	case "accessible":
		return Flag(FieldAccessible)
	case "requires_reservation":
		return Flag(FieldReservationRequired)
	case "interior", "exterior":
		return Equals(FieldIndoorOutdoor, feat)
	}
	return nil
}

// Vocabularies used by the display narrowing pass.
var (
	narrowStyles   = []string{"fiesta", "relax", "cultura", "gastro"}
	narrowContexts = []string{"pareja", "amigos", "familia", "solo"}
)

// BuildNarrowing builds the secondary pass applied before unifying a
// listing for display. It only looks at tags: a selected style or context
// matches when it belongs to the narrowing vocabulary and the event carries
// exactly that tag. Returns nil when neither facet is selected.
func BuildNarrowing(state *domain.FilterState) *Node {
	if state == nil {
		return nil
	}

	var conds []*Node
	if len(state.Style) > 0 {
		conds = append(conds, tagsWithin(state.Style, narrowStyles))
	}
	if len(state.Context) > 0 {
		conds = append(conds, tagsWithin(state.Context, narrowContexts))
	}

	if len(conds) == 0 {
		return nil
	}
	return AllOf(conds...)
}

func tagsWithin(selected, vocabulary []string) *Node {
	children := make([]*Node, 0, len(selected))
	for _, s := range selected {
		if slices.Contains(vocabulary, s) {
			children = append(children, Tagged(s))
		}
	}
	return AnyOf(children...)
}

// Package aggregate merges events that share a title into display entries.
package aggregate

import (
	"slices"
	"sort"
	"strings"

	"github.com/yair/eventify/pkg/domain"
)

// groupTags are the tags that describe who an event is for.
var groupTags = []string{"pareja", "amigos", "familia", "solo", "con_niños", "con_amigos"}

// GroupLabel maps a group tag to its display label ("con_niños" -> "niños").
// ok is false for tags that are not group tags.
func GroupLabel(tag string) (label string, ok bool) {
	if !slices.Contains(groupTags, tag) {
		return "", false
	}
	return strings.ReplaceAll(strings.TrimPrefix(tag, "con_"), "_", " "), true
}

type entry struct {
	display   domain.DisplayEvent
	districts set
	times     set
	groups    set
}

// Unify groups events by exact title in first-seen order. The first event
// of each title is kept; district, start time and group labels from every
// event with that title are merged into it, then Render is applied.
func Unify(events []domain.Event) []domain.DisplayEvent {
	index := make(map[string]int, len(events))
	entries := make([]*entry, 0, len(events))

	for _, e := range events {
		i, seen := index[e.Title]
		if !seen {
			i = len(entries)
			index[e.Title] = i
			entries = append(entries, &entry{display: domain.DisplayEvent{Event: e}})
		}

		en := entries[i]
		en.districts.add(e.District)
		en.times.add(e.TimeStart)
		for _, tag := range e.Tags {
			if label, ok := GroupLabel(tag); ok {
				en.groups.add(label)
			}
		}
	}

	out := make([]domain.DisplayEvent, 0, len(entries))
	for _, en := range entries {
		d := en.display
		d.AllDistricts = en.districts.values()
		d.AllTimes = en.times.values()
		d.AllGroups = en.groups.values()
		out = append(out, Render(d))
	}

	return out
}

// Render writes the merged facets into the display fields: districts joined
// by ", ", start times sorted and joined by " / ", groups joined by " + ".
func Render(d domain.DisplayEvent) domain.DisplayEvent {
	times := slices.Clone(d.AllTimes)
	sort.Strings(times)

	d.District = strings.Join(d.AllDistricts, ", ")
	d.TimeStart = strings.Join(times, " / ")
	d.IdealGroup = strings.Join(d.AllGroups, " + ")
	return d
}

// set is an insertion-ordered string set.
type set struct {
	seen  map[string]struct{}
	order []string
}

func (s *set) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *set) values() []string {
	if s.order == nil {
		return []string{}
	}
	return s.order
}

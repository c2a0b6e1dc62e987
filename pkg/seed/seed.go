// Package seed generates the fixture catalog loaded by `eventctl seed` and
// by the server when seed.on_start is set.
package seed

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/yair/eventify/pkg/domain"
)

// Batch describes one group of generated events.
type Batch struct {
	Type   string
	Count  int
	Titles []string
	Vibe   string
}

var Batches = []Batch{
	{"pareja", 25, []string{"Cena romántica", "Cata de vinos", "Paseo al atardecer", "Jazz y cena"}, "Romántico"},
	{"familia", 20, []string{"Museo divertido", "Taller infantil", "Parque aventura", "Teatro títeres"}, "Alegre"},
	{"amigos", 30, []string{"Ruta de Tapas", "Escape Room", "Karaoke Night", "Fiesta en terraza"}, "Festivo"},
	{"solo", 25, []string{"Exposición Arte", "Concierto Acústico", "Tour Histórico", "Yoga Retiro"}, "Cultural"},
}

var (
	districts = []string{
		"Centro", "Malasaña", "Chueca", "Salamanca", "Retiro", "La Latina", "Lavapiés",
		"Chamberí", "Argüelles", "Huertas", "Las Letras", "Conde Duque", "Moncloa", "Fuera de M-30",
	}
	categories = []string{"Gastronomía", "Cultura", "Ocio Nocturno", "Aire Libre", "Espectáculo", "Taller", "Deporte"}
	startTimes = []string{"10:00", "12:00", "18:00", "21:00"}
	streets    = []string{"Alcalá", "Velázquez", "Atocha", "Mayor"}
	stations   = []string{"Sol", "Gran Vía", "Retiro", "Atocha"}
)

// keywordImages is checked in order; the first keyword found in the
// lowercased title picks the image pool.
var keywordImages = []struct {
	keyword string
	urls    []string
}{
	{"cena", []string{
		"https://images.unsplash.com/photo-1550966841-3ee3236077da?q=80&w=800",
		"https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?q=80&w=800",
		"https://images.unsplash.com/photo-1559339352-11d035aa65de?q=80&w=800",
	}},
	{"vino", []string{
		"https://images.unsplash.com/photo-1510812431401-41d2bd2722f3?q=80&w=800",
		"https://images.unsplash.com/photo-1506377247377-2a5b3b0ca3ef?q=80&w=800",
	}},
	{"baile", []string{
		"https://images.unsplash.com/photo-1504609773096-104ff2c73ba4?q=80&w=800",
		"https://images.unsplash.com/photo-1547153760-18fc86324498?q=80&w=800",
	}},
	{"museo", []string{
		"https://images.unsplash.com/photo-1518998053574-53fb3a4d7d11?q=80&w=800",
		"https://images.unsplash.com/photo-1566127444979-b3d2b654e3d7?q=80&w=800",
	}},
	{"parque", []string{
		"https://images.unsplash.com/photo-1441974231531-c6227db76b6e?q=80&w=800",
		"https://images.unsplash.com/photo-1501854140801-50d01674aa3e?q=80&w=800",
	}},
	{"fiesta", []string{
		"https://images.unsplash.com/photo-1492684223066-81342ee5ff30?q=80&w=800",
		"https://images.unsplash.com/photo-1533174072545-7a4b6ad7a6c3?q=80&w=800",
	}},
	{"tapas", []string{
		"https://images.unsplash.com/photo-1515443961218-a5136d888be7?q=80&w=800",
		"https://images.unsplash.com/photo-1626074353765-517a681e40be?q=80&w=800",
	}},
	{"yoga", []string{
		"https://images.unsplash.com/photo-1506126613408-eca07ce68773?q=80&w=800",
		"https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?q=80&w=800",
	}},
	{"concierto", []string{
		"https://images.unsplash.com/photo-1501281668745-f7f57925c3b4?q=80&w=800",
		"https://images.unsplash.com/photo-1470225620780-dba8ba36b745?q=80&w=800",
	}},
	{"madrid", []string{
		"https://images.unsplash.com/photo-1539037116277-4db20889f2d4?q=80&w=800",
		"https://images.unsplash.com/photo-1543783207-ec64e4d95325?q=80&w=800",
	}},
}

// Key returns the seed key of the n-th (1-based) event of a batch.
func Key(batch string, n int) string {
	return fmt.Sprintf("%s-%d", batch, n)
}

// Generate builds the full fixture catalog. Output depends only on rng, so
// the same source seed always yields the same records.
func Generate(rng *rand.Rand) []domain.NewEvent {
	total := 0
	for _, b := range Batches {
		total += b.Count
	}

	g := generator{rng: rng}
	events := make([]domain.NewEvent, 0, total)
	for _, b := range Batches {
		for i := 0; i < b.Count; i++ {
			events = append(events, g.event(b, i))
		}
	}
	return events
}

type generator struct {
	rng *rand.Rand
}

func (g generator) event(b Batch, i int) domain.NewEvent {
	base := g.pick(b.Titles)
	title := fmt.Sprintf("%s %d", base, i+1)
	category := categoryFor(b.Type)
	if category == "" {
		category = g.pick(categories)
	}
	district := g.pick(districts)
	priceBase := g.intn(0, 150)

	tags := []string{"madrid", "plan", strings.ToLower(category), b.Type}
	switch b.Type {
	case "amigos":
		tags = append(tags, "con_amigos")
	case "pareja":
		tags = append(tags, "con_pareja", "romantico")
	case "familia":
		tags = append(tags, "con_niños", "plan_familiar")
	}
	tags = append(tags, strings.Split(strings.ToLower(base), " ")...)
	tags = append(tags, strings.ToLower(district))

	minGroup, maxGroup := 1, 10
	if b.Type == "pareja" {
		minGroup, maxGroup = 2, 2
	}

	return domain.NewEvent{
		Title:               title,
		LongDescription:     fmt.Sprintf("Disfruta de %s. Un plan ideal diseñado para ofrecer la mejor experiencia en el corazón de Madrid.", title),
		MainCategory:        category,
		Tags:                tags,
		DateStart:           "2024-01-01",
		TimeStart:           g.pick(startTimes),
		TimeEnd:             "23:00",
		LocationExact:       fmt.Sprintf("Calle de %s, %d", g.pick(streets), g.intn(1, 150)),
		District:            district,
		Lat:                 ptr(40.4168 + (g.rng.Float64()-0.5)*0.1),
		Lng:                 ptr(-3.7038 + (g.rng.Float64()-0.5)*0.1),
		PriceBase:           priceBase,
		Currency:            domain.DefaultCurrency,
		PriceRange:          domain.PriceRangeFor(priceBase),
		Includes:            []string{"Acceso", "Experiencia"},
		IdealGroup:          b.Type,
		MinGroup:            ptr(minGroup),
		MaxGroup:            ptr(maxGroup),
		Vibe:                b.Vibe,
		IndoorOutdoor:       g.pick([]string{"interior", "exterior"}),
		Images:              []string{g.image(title, category)},
		Rating:              ptr(math.Round((4+g.rng.Float64())*10) / 10),
		TotalReviews:        g.intn(10, 500),
		ReservationRequired: g.rng.Intn(2) == 1,
		MetroNearby:         []string{g.pick(stations)},
		SeedKey:             Key(b.Type, i+1),
	}
}

func categoryFor(batch string) string {
	switch batch {
	case "pareja":
		return "Romántico"
	case "familia":
		return "Familia"
	case "amigos":
		return "Ocio"
	}
	return ""
}

func (g generator) image(title, category string) string {
	lower := strings.ToLower(title)
	for _, k := range keywordImages {
		if strings.Contains(lower, k.keyword) {
			return g.pick(k.urls)
		}
	}

	switch category {
	case "Gastronomía":
		return g.pick(poolFor("tapas"))
	case "Cultura":
		return g.pick(poolFor("museo"))
	case "Ocio Nocturno", "Ocio":
		return g.pick(poolFor("fiesta"))
	}
	return g.pick(poolFor("madrid"))
}

func poolFor(keyword string) []string {
	for _, k := range keywordImages {
		if k.keyword == keyword {
			return k.urls
		}
	}
	return nil
}

func (g generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// intn returns a value in [lo, hi].
func (g generator) intn(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func ptr[T any](v T) *T { return &v }

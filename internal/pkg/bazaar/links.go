package bazaar

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// czkPerEUR is the rough rate marketplaces priced in EUR are queried with.
const czkPerEUR = 25

// SearchParams narrows a marketplace search. Zero values are not sent.
type SearchParams struct {
	PriceFrom int // CZK
	PriceTo   int // CZK
	YearFrom  int
	MileageTo int // km
}

// Link is a ready-made marketplace search.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type generator struct {
	name string
	url  func(brand, model string, p SearchParams) string
}

var generators = []generator{
	{"Mobile.de", mobileDe},
	{"Sauto.cz", sauto},
	{"Carvago", carvago},
	{"Autoscout24", autoscout},
	{"Bazoš.cz", bazos},
	{"Sbazar.cz", sbazar},
	{"AAA Auto", aaaAuto},
	{"Auto ESA", autoEsa},
}

// Links builds a search link on every supported marketplace for brand and model.
func Links(brand, model string, p SearchParams) []Link {
	out := make([]Link, 0, len(generators))
	for _, g := range generators {
		out = append(out, Link{Name: g.name, URL: g.url(brand, model, p)})
	}
	return out
}

// stripMarks is built per call: a chained transformer keeps internal buffers.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Slug folds a make or model into the path form most marketplaces use:
// "Škoda" -> "skoda", "Enyaq iV" -> "enyaq", "ID.4" -> "id-4".
func Slug(s string) string {
	folded, _, err := transform.String(stripMarks(), s)
	if err != nil {
		folded = s
	}
	folded = strings.ReplaceAll(strings.ToLower(folded), " ", "-")
	folded = strings.Replace(folded, "enyaq-iv", "enyaq", 1)
	return strings.Replace(folded, "id.", "id-", 1)
}

func toEUR(czk int) int {
	return int(math.Floor(float64(czk)/czkPerEUR + 0.5))
}

func withQuery(base string, parts []string) string {
	if len(parts) == 0 {
		return base
	}
	return base + "?" + strings.Join(parts, "&")
}

func mobileDe(brand, model string, p SearchParams) string {
	modelSlug := Slug(model)
	if modelSlug == "model-3" {
		modelSlug = "model--3"
	}
	parts := []string{
		"dam=0",
		"ft=ELECTRICITY",
		"isSearchRequest=true",
		fmt.Sprintf("ms=;;;%s;%s", encodeComponent(Slug(brand)), encodeComponent(modelSlug)),
		"s=Car",
		"sb=p",
		"vc=Car",
	}
	if p.YearFrom > 0 {
		parts = append(parts, fmt.Sprintf("fr=%d", p.YearFrom))
	}
	if p.PriceFrom > 0 {
		parts = append(parts, fmt.Sprintf("p=%d:", toEUR(p.PriceFrom)))
	}
	if p.PriceTo > 0 {
		parts = append(parts, fmt.Sprintf("p=:%d", toEUR(p.PriceTo)))
	}
	if p.MileageTo > 0 {
		parts = append(parts, fmt.Sprintf("ml=:%d", p.MileageTo))
	}
	return withQuery("https://suchen.mobile.de/fahrzeuge/search.html", parts)
}

func sauto(brand, model string, p SearchParams) string {
	parts := []string{"palivo=elektrina"}
	if p.PriceFrom > 0 {
		parts = append(parts, fmt.Sprintf("cena-od=%d", p.PriceFrom))
	}
	if p.PriceTo > 0 {
		parts = append(parts, fmt.Sprintf("cena-do=%d", p.PriceTo))
	}
	if p.YearFrom > 0 {
		parts = append(parts, fmt.Sprintf("rok-vyroby-od=%d", p.YearFrom))
	}
	if p.MileageTo > 0 {
		parts = append(parts, fmt.Sprintf("najeto-do=%d", p.MileageTo))
	}
	return withQuery(fmt.Sprintf("https://www.sauto.cz/inzerce/osobni/%s/%s", Slug(brand), Slug(model)), parts)
}

func carvago(brand, model string, p SearchParams) string {
	var parts []string
	if p.YearFrom > 0 {
		parts = append(parts, fmt.Sprintf("registration-date-from=%d", p.YearFrom))
	}
	if p.PriceFrom > 0 {
		parts = append(parts, fmt.Sprintf("price-from=%d", p.PriceFrom))
	}
	if p.PriceTo > 0 {
		parts = append(parts, fmt.Sprintf("price-to=%d", p.PriceTo))
	}
	if p.MileageTo > 0 {
		parts = append(parts, fmt.Sprintf("mileage-to=%d", p.MileageTo))
	}
	return withQuery(fmt.Sprintf("https://carvago.com/cs/auta/%s/%s/elektrina", Slug(brand), Slug(model)), parts)
}

func autoscout(brand, model string, p SearchParams) string {
	parts := []string{"fuel=E"}
	if p.YearFrom > 0 {
		parts = append(parts, fmt.Sprintf("fregfrom=%d", p.YearFrom))
	}
	if p.PriceFrom > 0 {
		parts = append(parts, fmt.Sprintf("pricefrom=%d", toEUR(p.PriceFrom)))
	}
	if p.PriceTo > 0 {
		parts = append(parts, fmt.Sprintf("priceto=%d", toEUR(p.PriceTo)))
	}
	if p.MileageTo > 0 {
		parts = append(parts, fmt.Sprintf("kmto=%d", p.MileageTo))
	}
	return withQuery(fmt.Sprintf("https://www.autoscout24.cz/lst/%s/%s", Slug(brand), Slug(model)), parts)
}

// encodeComponent escapes s for use inside a query value or a single path
// segment. Spaces become %20 and reserved characters such as & = + are escaped.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func bazos(brand, model string, p SearchParams) string {
	parts := []string{
		"hledat=" + encodeComponent(brand+" "+model),
		"rubriky=auto",
		"kitx=ano",
	}
	if p.PriceFrom > 0 {
		parts = append(parts, fmt.Sprintf("cenaod=%d", p.PriceFrom))
	}
	if p.PriceTo > 0 {
		parts = append(parts, fmt.Sprintf("cenado=%d", p.PriceTo))
	}
	return withQuery("https://auto.bazos.cz/hledat/", parts)
}

func sbazar(brand, model string, p SearchParams) string {
	var parts []string
	if p.PriceFrom > 0 {
		parts = append(parts, fmt.Sprintf("priceFrom=%d", p.PriceFrom))
	}
	if p.PriceTo > 0 {
		parts = append(parts, fmt.Sprintf("priceTo=%d", p.PriceTo))
	}
	return withQuery("https://www.sbazar.cz/hledat/"+encodeComponent(brand+" "+model), parts)
}

func aaaAuto(brand, model string, _ SearchParams) string {
	return fmt.Sprintf("https://www.aaaauto.cz/ojeta-auta/%s/%s", Slug(brand), Slug(model))
}

func autoEsa(brand, model string, p SearchParams) string {
	parts := []string{"q=" + encodeComponent(brand+" "+model)}
	if p.PriceFrom > 0 {
		parts = append(parts, fmt.Sprintf("cena-od=%d", p.PriceFrom))
	}
	if p.PriceTo > 0 {
		parts = append(parts, fmt.Sprintf("cena-do=%d", p.PriceTo))
	}
	return withQuery("https://www.autoesa.cz/hledani", parts)
}

package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownAllergen = errors.New("unknown allergen")

type Allergen string

const (
	AllergenDairy   Allergen = "dairy"
	AllergenEggs    Allergen = "eggs"
	AllergenNuts    Allergen = "nuts"
	AllergenGluten  Allergen = "gluten"
	AllergenFish    Allergen = "fish"
	AllergenSeafood Allergen = "seafood"
	AllergenSoy     Allergen = "soy"
	AllergenHoney   Allergen = "honey"
)

// allergenNames maps every accepted spelling to its code. Ukrainian labels
// come from the parent-facing forms.
var allergenNames = map[string]Allergen{
	"dairy":            AllergenDairy,
	"milk":             AllergenDairy,
	"молочні продукти": AllergenDairy,
	"eggs":             AllergenEggs,
	"egg":              AllergenEggs,
	"яйця":             AllergenEggs,
	"nuts":             AllergenNuts,
	"горіхи":           AllergenNuts,
	"gluten":           AllergenGluten,
	"глютен":           AllergenGluten,
	"fish":             AllergenFish,
	"риба":             AllergenFish,
	"seafood":          AllergenSeafood,
	"морепродукти":     AllergenSeafood,
	"soy":              AllergenSoy,
	"соя":              AllergenSoy,
	"honey":            AllergenHoney,
	"мед":              AllergenHoney,
}

var allergenLabels = map[Allergen]string{
	AllergenDairy:   "Молочні продукти",
	AllergenEggs:    "Яйця",
	AllergenNuts:    "Горіхи",
	AllergenGluten:  "Глютен",
	AllergenFish:    "Риба",
	AllergenSeafood: "Морепродукти",
	AllergenSoy:     "Соя",
	AllergenHoney:   "Мед",
}

func ParseAllergen(s string) (Allergen, error) {
	a, ok := allergenNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAllergen, s)
	}
	return a, nil
}

// Label is the display name shown to parents and kitchen staff.
func (a Allergen) Label() string {
	if l, ok := allergenLabels[a]; ok {
		return l
	}
	return string(a)
}

// AllergenSet is a sorted, duplicate-free list of allergens.
type AllergenSet []Allergen

func NewAllergenSet(items ...Allergen) AllergenSet {
	seen := make(map[Allergen]bool, len(items))
	set := make(AllergenSet, 0, len(items))
	for _, a := range items {
		if seen[a] {
			continue
		}
		seen[a] = true
		set = append(set, a)
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}

// ParseAllergens validates raw strings coming from storage or requests.
func ParseAllergens(raw []string) (AllergenSet, error) {
	items := make([]Allergen, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		a, err := ParseAllergen(s)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return NewAllergenSet(items...), nil
}

func (s AllergenSet) Has(a Allergen) bool {
	for _, x := range s {
		if x == a {
			return true
		}
	}
	return false
}

// Intersects reports whether the two sets share any allergen.
func (s AllergenSet) Intersects(other AllergenSet) bool {
	for _, a := range s {
		if other.Has(a) {
			return true
		}
	}
	return false
}

func (s AllergenSet) Strings() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = string(a)
	}
	return out
}

func (s AllergenSet) Labels() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = a.Label()
	}
	return out
}

func (s AllergenSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *AllergenSet) UnmarshalJSON(b []byte) error {
	var raw []string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseAllergens(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

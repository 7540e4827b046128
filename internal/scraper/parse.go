package scraper

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Solvro/backend-topwr-sks/internal/domain"
)

// NoSize is the sentinel stored when a listing carries no portion info.
const NoSize = "-"

// ErrNoPrice is returned when an item line has no trailing price token.
var ErrNoPrice = errors.New("no trailing price token")

// Dish is one parsed menu listing: the canonical name, the portion
// descriptor ("-" when absent), the price in currency units, and the mapped
// category.
type Dish struct {
	Name     string
	Size     string
	Price    float64
	Category domain.MealCategory
}

var (
	// The price is always the last token of an item line; comma and dot
	// decimal separators both occur on the source page.
	priceRE = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*$`)

	// A size is one or two unit-suffixed quantities immediately before the
	// price, e.g. "100g", "330ml", "110g/50g". Bare numbers are not sizes;
	// they stay part of the dish name.
	sizeRE = regexp.MustCompile(`(\d+(?:g|ml)(?:/\d+(?:g|ml))?)$`)
)

// ParseDish turns one extracted item line into a Dish. The text is expected
// to be whitespace-collapsed (see ExtractItems).
//
// A line with no trailing price token, or whose price does not parse to a
// finite number, is rejected; callers skip such lines rather than persist
// garbage. A price of exactly 0 reassigns the dish to TECHNICAL_INFO
// regardless of its section label, since zero-priced rows are header/footer
// notices rather than real dishes.
func ParseDish(text, categoryLabel string) (Dish, error) {
	text = strings.TrimSpace(text)

	priceLoc := priceRE.FindStringSubmatchIndex(text)
	if priceLoc == nil {
		return Dish{}, fmt.Errorf("%w in %q", ErrNoPrice, text)
	}
	priceToken := text[priceLoc[2]:priceLoc[3]]

	price, err := strconv.ParseFloat(strings.ReplaceAll(priceToken, ",", "."), 64)
	if err != nil {
		return Dish{}, fmt.Errorf("parse price %q: %w", priceToken, err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Dish{}, fmt.Errorf("price %q is not a valid amount", priceToken)
	}

	rest := strings.TrimSpace(text[:priceLoc[0]])

	size := NoSize
	if sizeLoc := sizeRE.FindStringIndex(rest); sizeLoc != nil {
		size = rest[sizeLoc[0]:sizeLoc[1]]
		rest = strings.TrimSpace(rest[:sizeLoc[0]])
	}

	name := rest
	if name == "" {
		return Dish{}, fmt.Errorf("empty dish name in %q", text)
	}

	category := MapCategory(categoryLabel)
	if price == 0 {
		category = domain.CategoryTechnicalInfo
	}

	return Dish{Name: name, Size: size, Price: price, Category: category}, nil
}

// MapCategory maps a free-text section label (Polish, case-insensitive) to
// its category value. Unrecognized labels map to TECHNICAL_INFO so that the
// catalog never depends on the page's incidental section naming.
func MapCategory(label string) domain.MealCategory {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "surówki":
		return domain.CategorySalad
	case "zupy":
		return domain.CategorySoup
	case "dania jarskie":
		return domain.CategoryVegetarianDish
	case "dania mięsne":
		return domain.CategoryMeatDish
	case "dodatki":
		return domain.CategorySideDish
	case "desery":
		return domain.CategoryDessert
	case "kompoty i napoje":
		return domain.CategoryDrink
	default:
		return domain.CategoryTechnicalInfo
	}
}

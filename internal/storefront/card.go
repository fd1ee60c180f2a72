package storefront

import (
	"fmt"
	"math"
	"strconv"

	"github.com/nguyentranbao-ct/storefront/internal/models"
)

const (
	PriceUnavailable = "N/A"
	RatingMissing    = "No rating"
	AddToCartLabel   = "Add to Cart"
	PlaceholderImage = "https://via.placeholder.com/250"

	ratingMax = 5
)

// Card is the display unit for one product. Every field is already formatted.
type Card struct {
	Key    string
	Name   string
	Image  string
	Price  string
	Rating string
	Action string
}

// RenderCard formats p. It never fails: each missing or invalid field falls
// back on its own. A product without an id is keyed by its catalog position.
func RenderCard(p models.Product, pos int) Card {
	image := p.Image
	if image == "" {
		image = PlaceholderImage
	}
	key := strconv.Itoa(p.ID)
	if p.MissingID {
		key = "idx-" + strconv.Itoa(pos)
	}
	return Card{
		Key:    key,
		Name:   p.Name,
		Image:  image,
		Price:  FormatPrice(p.Price),
		Rating: FormatRating(p.Rating),
		Action: AddToCartLabel,
	}
}

// RenderCards keeps catalog order and drops later products reusing an id.
// Products without an id are never deduplicated.
func RenderCards(products []models.Product) []Card {
	cards := make([]Card, 0, len(products))
	seen := make(map[int]struct{}, len(products))
	for i, p := range products {
		if !p.MissingID {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
		}
		cards = append(cards, RenderCard(p, i))
	}
	return cards
}

func FormatPrice(price *float64) string {
	if price == nil || !isFinite(*price) || *price < 0 {
		return PriceUnavailable
	}
	return fmt.Sprintf("$%.2f", *price)
}

// FormatMoney applies the price rule to an amount that is always present,
// such as the cart total.
func FormatMoney(v float64) string {
	return FormatPrice(&v)
}

func FormatRating(rating *float64) string {
	if rating == nil || !isFinite(*rating) || *rating < 0 || *rating > ratingMax {
		return RatingMissing
	}
	return fmt.Sprintf("★ %.1f", *rating)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package fakers

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

var Categories = []string{"electronics", "home", "fashion", "books", "sports"}

var imagePaths = []string{
	"/images/products/ss.jpg",
	"/images/products/ss1.jpg",
	"/images/products/ss2.jpg",
}

func ProductFaker(rng *rand.Rand, id uint) *models.Product {
	title := titleCase(faker.Word() + " " + faker.Word())
	category := Categories[rng.Intn(len(Categories))]

	product := &models.Product{
		ID:          id,
		Title:       title,
		Slug:        slug.Make(fmt.Sprintf("%s-%d", title, id)),
		Description: faker.Paragraph(),
		Category:    category,
		ImageURL:    imagePaths[rng.Intn(len(imagePaths))],
		BasePrice:   decimal.NewFromFloat(fakePrice(rng)),
	}

	numReviews := rng.Intn(4)
	for i := 0; i < numReviews; i++ {
		product.Reviews = append(product.Reviews, ReviewFaker(rng, id))
	}
	return product
}

func ReviewFaker(rng *rand.Rand, productID uint) models.Review {
	return models.Review{
		ProductID: productID,
		Username:  faker.Username(),
		Title:     faker.Sentence(),
		Comment:   faker.Paragraph(),
		Stars:     rng.Intn(models.MaxReviewStars-models.MinReviewStars+1) + models.MinReviewStars,
	}
}

// fakePrice is always positive, between 1 and 2000 with cents.
func fakePrice(rng *rand.Rand) float64 {
	return precision(1+rng.Float64()*1999, 2)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

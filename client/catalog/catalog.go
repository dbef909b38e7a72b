// Package catalog holds the curated date experiences shown on the
// storefront. Prices are display strings; checkout parses the numeric
// amount out of them.
package catalog

import "github.com/Alexaslastina/makeadate/internal/domain"

var experiences = []domain.FavoriteItem{
	{ID: "rooftop", Title: "Rooftop date", Image: "/images/rooftop.jpg", Price: "$120 per couple", Duration: "120 minutes", Rating: 4.6},
	{ID: "amusement", Title: "Amusement park", Image: "/images/amusement.jpg", Price: "$150 per couple", Duration: "240 minutes", Rating: 4.8},
	{ID: "dance-lesson", Title: "Dance lesson", Image: "/images/dance.jpg", Price: "$80 per couple", Duration: "90 minutes", Rating: 4.5},
	{ID: "ice-skating", Title: "Ice skating", Image: "/images/skating.jpg", Price: "$60 per couple", Duration: "120 minutes", Rating: 4.4},
	{ID: "horse-riding", Title: "Horse riding tour", Image: "/images/horse.jpg", Price: "$180 per couple", Duration: "150 minutes", Rating: 4.7},
	{ID: "hot-air-balloon", Title: "Hot Air Balloon Ride", Image: "/images/balloon.jpg", Price: "$200 per couple", Duration: "180 minutes", Rating: 4.7},
	{ID: "yacht-sailing", Title: "Yacht Sailing", Image: "/images/yacht.jpg", Price: "$300 per couple", Duration: "180 minutes", Rating: 4.9},
	{ID: "weekend-paris", Title: "Weekend in Paris", Image: "/images/paris.jpg", Price: "$800 per couple", Duration: "2880 minutes", Rating: 5.0},
}

// All returns the full catalog in display order.
func All() []domain.FavoriteItem {
	out := make([]domain.FavoriteItem, len(experiences))
	copy(out, experiences)
	return out
}

// Lookup finds an experience by id.
func Lookup(id string) (domain.FavoriteItem, bool) {
	for _, exp := range experiences {
		if exp.ID == id {
			return exp, true
		}
	}
	return domain.FavoriteItem{}, false
}

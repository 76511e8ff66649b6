package fakeapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/kennel/internal/rescue"
)

// Catalog is the data a Server serves.
type Catalog struct {
	Dogs          []rescue.Dog
	Organizations []rescue.Organization
	// Regions maps an adoption country to its regions.
	Regions map[string][]string
}

var (
	fixtureNames = []string{
		"Luna", "Bella", "Max", "Rocky", "Daisy", "Milo", "Nala", "Bruno",
		"Kira", "Oskar", "Frida", "Zeus", "Maya", "Toby", "Leia", "Balu",
		"Greta", "Rex", "Pippa", "Otto", "Lola", "Tara", "Benny", "Ruby",
	}
	fixtureBreeds = []struct{ breed, group string }{
		{"Mixed Breed", "Mixed"},
		{"Labrador Retriever", "Sporting"},
		{"German Shepherd", "Herding"},
		{"Podenco", "Hound"},
		{"Galgo", "Hound"},
		{"Jack Russell Terrier", "Terrier"},
		{"Chihuahua", "Toy"},
		{"Cane Corso", "Working"},
		{"Poodle", "Non-Sporting"},
	}
	fixtureSizes     = []string{"Tiny", "Small", "Medium", "Large", "XLarge"}
	fixtureAges      = []string{"Puppy", "Young", "Adult", "Senior"}
	fixtureSexes     = []string{"Male", "Female"}
	fixtureLocations = []string{"RO", "ES", "BA", "CY", "TR", "RS", "IT"}
	fixtureAdoptTo   = [][]string{
		{"GB", "IE"},
		{"DE", "AT", "CH"},
		{"GB", "DE", "NL", "BE"},
		{"SE", "DK"},
		{"FR", "BE"},
	}
)

// Fixtures builds a deterministic catalog of n dogs across four
// organizations.
func Fixtures(n int) Catalog {
	orgs := []rescue.Organization{
		{ID: 11, Name: "Paws Across Borders", Slug: "paws-across-borders", Country: "RO", City: "Bucharest"},
		{ID: 12, Name: "Galgos del Sol", Slug: "galgos-del-sol", Country: "ES", City: "Sevilla"},
		{ID: 13, Name: "Balkan Tails", Slug: "balkan-tails", Country: "BA", City: "Sarajevo"},
		{ID: 14, Name: "Island Hounds", Slug: "island-hounds", Country: "CY", City: "Limassol"},
	}
	regions := map[string][]string{
		"GB": {"England", "Scotland", "Wales", "Northern Ireland"},
		"DE": {"Bayern", "Berlin", "Hamburg", "Nordrhein-Westfalen"},
		"IE": {"Leinster", "Munster"},
	}

	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	dogs := make([]rescue.Dog, 0, n)
	for i := range n {
		org := orgs[i%len(orgs)]
		breed := fixtureBreeds[(i/2)%len(fixtureBreeds)]
		adoptTo := fixtureAdoptTo[i%len(fixtureAdoptTo)]
		var dogRegions []string
		for _, country := range adoptTo {
			if rs := regions[country]; len(rs) > 0 {
				dogRegions = append(dogRegions, rs[i%len(rs)])
			}
		}
		name := fixtureNames[i%len(fixtureNames)]
		id := int64(i + 1)
		dogs = append(dogs, rescue.Dog{
			ID:              id,
			Name:            name,
			Slug:            fmt.Sprintf("%s-%d", toSlug(name), id),
			Breed:           breed.breed,
			BreedGroup:      breed.group,
			Size:            fixtureSizes[(i/3)%len(fixtureSizes)],
			AgeCategory:     fixtureAges[(i/4)%len(fixtureAges)],
			Sex:             fixtureSexes[i%len(fixtureSexes)],
			OrganizationID:  org.ID,
			Organization:    &org,
			LocationCountry: fixtureLocations[i%len(fixtureLocations)],
			AvailableTo:     adoptTo,
			AvailableRegion: dogRegions,
			AdoptionURL:     fmt.Sprintf("https://example.org/%s/dogs/%d", org.Slug, id),
			CreatedAt:       base.Add(-time.Duration(i) * 7 * time.Hour).Format(time.RFC3339),
		})
	}
	return Catalog{Dogs: dogs, Organizations: orgs, Regions: regions}
}

func toSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

package filters

import "strings"

var fixedOptions = map[Field][]string{
	Size:       {"Tiny", "Small", "Medium", "Large", "Extra Large"},
	Age:        {"Puppy", "Young", "Adult", "Senior"},
	Sex:        {"Male", "Female"},
	BreedGroup: {"Herding", "Hound", "Mixed", "Non-Sporting", "Sporting", "Terrier", "Toy", "Working"},
	LocationCountry: {
		"BA", "CY", "DE", "ES", "GB", "IT", "RO", "RS", "TR",
	},
	AvailableCountry: {
		"AT", "BE", "CH", "DE", "DK", "FR", "GB", "IE", "NL", "SE",
	},
}

// Options returns the selectable values for f with its sentinel first.
// Fields whose options come from the API (organization, breed, region)
// return only the sentinel.
func Options(f Field) []string {
	opts := []string{f.Sentinel()}
	return append(opts, fixedOptions[f]...)
}

// Cycle returns the option after current in opts, wrapping around.
func Cycle(opts []string, current string) string {
	if len(opts) == 0 {
		return current
	}
	for i, opt := range opts {
		if opt == current {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

// Route describes a listing page and the filters it implies.
type Route struct {
	Path     string
	Title    string
	Defaults State
}

// Routes lists the known listing pages.
var Routes = []Route{
	{Path: "/dogs", Title: "All dogs", Defaults: Any()},
	{Path: "/dogs/puppies", Title: "Puppies", Defaults: Any().With(Age, "Puppy")},
	{Path: "/dogs/senior", Title: "Senior dogs", Defaults: Any().With(Age, "Senior")},
}

// RouteFor returns the route matching path, falling back to /dogs.
func RouteFor(path string) Route {
	clean := strings.TrimRight(strings.TrimSpace(path), "/")
	for _, r := range Routes {
		if r.Path == clean {
			return r
		}
	}
	return Routes[0]
}

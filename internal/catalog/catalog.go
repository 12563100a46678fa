package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

//go:embed data.json
var embeddedCatalog []byte

var validate = validator.New()

// Load returns the built-in opportunity catalog.
func Load() (*Opportunities, error) {
	return parse(embeddedCatalog)
}

// LoadFile reads an opportunity catalog from a JSON file, replacing the
// built-in one.
func LoadFile(path string) (*Opportunities, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	return parse(data)
}

func parse(data []byte) (*Opportunities, error) {
	var items []*Opportunity
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	for _, opp := range items {
		if err := validate.Struct(opp); err != nil {
			return nil, fmt.Errorf("invalid catalog entry %q: %w", opp.ID, err)
		}
		// Unrecognized kinds degrade to "other" instead of failing the load.
		for i := range opp.Requirements {
			opp.Requirements[i].Kind = opp.Requirements[i].NormalizedKind()
		}
	}

	return &Opportunities{Items: items}, nil
}

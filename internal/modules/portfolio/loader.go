package portfolio

import (
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Load reads the portfolio configuration from a YAML file. A missing file
// falls back to the built-in default portfolio; a malformed file is an error.
// Weights that do not sum to 100 produce a warning, not a failure.
func Load(path string, log zerolog.Logger) (*Portfolio, error) {
	log = log.With().Str("component", "portfolio").Logger()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("Portfolio file not found, using default portfolio")
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read portfolio file: %w", err)
	}

	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio file: %w", err)
	}
	if len(p.Holdings) == 0 {
		return nil, fmt.Errorf("portfolio file %s has no holdings", path)
	}

	if p.Weights == (ExpertWeights{}) {
		p.Weights = DefaultWeights()
	}

	if total := p.TotalWeight(); math.Abs(total-100) > 0.01 {
		log.Warn().Float64("total", total).Msg("Portfolio weights do not sum to 100%")
	}

	return &p, nil
}

// DefaultWeights returns the expert category weights used when the YAML file
// does not override them. Fundamentals weigh heaviest, risk second.
func DefaultWeights() ExpertWeights {
	return ExpertWeights{Tech: 1.0, Fund: 1.5, Macro: 1.0, Risk: 1.2}
}

// Default returns the built-in nine-ticker portfolio.
func Default() *Portfolio {
	return &Portfolio{
		Weights: DefaultWeights(),
		Holdings: map[string]Holding{
			"TSLA": {Weight: 20, Name: "Tesla", Sector: "EV / Autonomy", Color: "#e31837"},
			"FSLR": {Weight: 20, Name: "First Solar", Sector: "Solar", Color: "#ffd700"},
			"RKLB": {Weight: 10, Name: "Rocket Lab", Sector: "Small Launch", Color: "#ff6b35"},
			"ASTS": {Weight: 10, Name: "AST SpaceMobile", Sector: "Satellite Comms", Color: "#4a90e2"},
			"OKLO": {Weight: 10, Name: "Oklo", Sector: "SMR Nuclear", Color: "#50c878"},
			"JOBY": {Weight: 10, Name: "Joby Aviation", Sector: "eVTOL", Color: "#9b59b6"},
			"OII":  {Weight: 10, Name: "Oceaneering", Sector: "Subsea Engineering", Color: "#1abc9c"},
			"LUNR": {Weight: 5, Name: "Intuitive Machines", Sector: "Lunar Exploration", Color: "#34495e"},
			"RDW":  {Weight: 5, Name: "Redwire", Sector: "Space Manufacturing", Color: "#e74c3c"},
		},
	}
}

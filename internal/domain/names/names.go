// Package names generates player names from an embedded corpus.
package names

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed names.yaml
var defaultCorpus []byte

// Gender selects the first-name pool.
type Gender string

// Genders.
const (
	Male   Gender = "male"
	Female Gender = "female"
	All    Gender = "all"
)

// Country selects the corpus section.
type Country string

// Countries.
const (
	Norway       Country = "norway"
	England      Country = "england"
	AllCountries Country = "all"
)

// Config is the generator's selection.
type Config struct {
	Gender  Gender  `json:"gender"`
	Country Country `json:"country"`
}

// entry is a name or a set of spelling variants.
type entry []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (e *entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*e = entry{node.Value}
		return nil
	case yaml.SequenceNode:
		var variants []string
		if err := node.Decode(&variants); err != nil {
			return err
		}
		if len(variants) == 0 {
			return fmt.Errorf("%w: empty variant list at line %d", ErrInvalidCorpus, node.Line)
		}
		*e = variants
		return nil
	default:
		return fmt.Errorf("%w: unexpected node at line %d", ErrInvalidCorpus, node.Line)
	}
}

type countryNames struct {
	Male   []entry `yaml:"male"`
	Female []entry `yaml:"female"`
	Last   []entry `yaml:"last"`
}

func (c countryNames) first(g Gender) []entry {
	switch g {
	case Male:
		return c.Male
	case Female:
		return c.Female
	default:
		return append(append([]entry(nil), c.Male...), c.Female...)
	}
}

type corpus map[Country]countryNames

func parseCorpus(data []byte) (corpus, error) {
	var c corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
	}
	return c, nil
}

// Generator produces random names. It is safe for concurrent use.
type Generator struct {
	cfg       Config
	countries []countryNames

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*options)

type options struct {
	seed   *uint64
	corpus []byte
}

// WithSeed makes the generator deterministic.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithCorpus replaces the embedded corpus with YAML data of the same shape.
func WithCorpus(data []byte) Option {
	return func(o *options) { o.corpus = data }
}

// New validates the selection against the corpus.
func New(gender Gender, country Country, opts ...Option) (*Generator, error) {
	o := options{corpus: defaultCorpus}
	for _, opt := range opts {
		opt(&o)
	}

	switch gender {
	case Male, Female, All:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGender, gender)
	}

	c, err := parseCorpus(o.corpus)
	if err != nil {
		return nil, err
	}

	var countries []countryNames
	switch country {
	case Norway, England:
		if data, ok := c[country]; ok {
			countries = []countryNames{data}
		}
	case AllCountries:
		for _, key := range []Country{Norway, England} {
			if data, ok := c[key]; ok {
				countries = append(countries, data)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCountry, country)
	}

	usable := false
	for _, data := range countries {
		if len(data.first(gender)) > 0 && len(data.Last) > 0 {
			usable = true
			break
		}
	}
	if !usable {
		return nil, fmt.Errorf("%w: country %s, gender %s", ErrNoNames, country, gender)
	}

	seedA, seedB := rand.Uint64(), rand.Uint64()
	if o.seed != nil {
		seedA, seedB = *o.seed, *o.seed^0x5851f42d4c957f2d
	}

	return &Generator{
		cfg:       Config{Gender: gender, Country: country},
		countries: countries,
		rng:       rand.New(rand.NewPCG(seedA, seedB)),
	}, nil
}

// Config returns the selection the generator was built with.
func (g *Generator) Config() Config {
	return g.cfg
}

// GenerateName returns "first last" from a randomly chosen country. A country
// without names for the selection falls back to the next one that has them.
func (g *Generator) GenerateName() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := g.rng.IntN(len(g.countries))
	for i := range g.countries {
		data := g.countries[(start+i)%len(g.countries)]
		first := data.first(g.cfg.Gender)
		if len(first) == 0 || len(data.Last) == 0 {
			continue
		}
		return g.pick(first) + " " + g.pick(data.Last)
	}
	return ""
}

func (g *Generator) pick(entries []entry) string {
	e := entries[g.rng.IntN(len(entries))]
	return e[g.rng.IntN(len(e))]
}

// GenerateNames returns n names, possibly with repeats.
func (g *Generator) GenerateNames(n int) []string {
	out := make([]string, 0, max(n, 0))
	for range n {
		out = append(out, g.GenerateName())
	}
	return out
}

// GenerateUniqueNames returns up to n distinct names. It gives up after 10n
// attempts, so a small corpus may yield fewer than n.
func (g *Generator) GenerateUniqueNames(n int) []string {
	seen := make(map[string]struct{}, max(n, 0))
	out := make([]string, 0, max(n, 0))
	for attempts := 0; len(out) < n && attempts < n*10; attempts++ {
		name := g.GenerateName()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// internal/config/config.go
package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"metaxsfr/internal/payload"
	"metaxsfr/internal/ranks"
	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

// Database is one reference database preset.
type Database struct {
	Ranks  []string   `yaml:"ranks"`
	Taxids []TaxidKey `yaml:"taxids"`
}

// TaxidKey is one ordered dictionary entry in YAML form.
type TaxidKey struct {
	Label string `yaml:"label"`
	ID    string `yaml:"id"`
}

// Config is the on-disk configuration. Zero fields fall back to Default.
type Config struct {
	Databases    map[string]Database `yaml:"databases"`
	MinAbundance *float64            `yaml:"min_abundance"`
	StartMarker  string              `yaml:"start_marker"`
	EndMarker    string              `yaml:"end_marker"`
}

// DefaultMinAbundance is the detail-table threshold in percent.
const DefaultMinAbundance = 0.01

// Default returns the built-in NCBI and GTDB presets.
func Default() *Config {
	thr := DefaultMinAbundance
	return &Config{
		Databases: map[string]Database{
			"ncbi": {
				Ranks: []string{"D", "K", "P", "C", "O", "F", "G", "S"},
				Taxids: []TaxidKey{
					{"unclassified", "0"}, {"human", "9606"}, {"bacterial", "2"},
					{"viral", "10239"}, {"fungal", "4751"}, {"archaeal", "2157"},
				},
			},
			"gtdb": {
				Ranks: []string{"R1", "P", "C", "O", "F", "G", "S"},
				Taxids: []TaxidKey{
					{"unclassified", "0"}, {"human", "NA"}, {"bacterial", "3"},
					{"viral", "NA"}, {"fungal", "NA"}, {"archaeal", "2"},
				},
			},
		},
		MinAbundance: &thr,
		StartMarker:  payload.DefaultStartMarker,
		EndMarker:    payload.DefaultEndMarker,
	}
}

// Load reads a YAML file and layers it over Default. Databases named in the
// file replace the preset of the same name; new names are added.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg := Default()
	for name, db := range file.Databases {
		cfg.Databases[strings.ToLower(name)] = db
	}
	if file.MinAbundance != nil {
		cfg.MinAbundance = file.MinAbundance
	}
	if file.StartMarker != "" {
		cfg.StartMarker = file.StartMarker
	}
	if file.EndMarker != "" {
		cfg.EndMarker = file.EndMarker
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks every database has a usable rank schema.
func (c *Config) Validate() error {
	for name, db := range c.Databases {
		if _, err := ranks.ParseList(strings.Join(db.Ranks, ",")); err != nil {
			return fmt.Errorf("database %q: %w", name, err)
		}
	}
	if c.StartMarker == "" || c.EndMarker == "" {
		return fmt.Errorf("markers must not be empty")
	}
	return nil
}

// Names lists configured database names, sorted.
func (c *Config) Names() []string {
	out := make([]string, 0, len(c.Databases))
	for k := range c.Databases {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *Config) database(name string) (Database, error) {
	db, ok := c.Databases[strings.ToLower(name)]
	if !ok {
		return Database{}, fmt.Errorf("unsupported database %q (want one of %v)", name, c.Names())
	}
	return db, nil
}

// Schema returns the rank schema for a database.
func (c *Config) Schema(name string) (taxon.RankSchema, error) {
	db, err := c.database(name)
	if err != nil {
		return nil, err
	}
	return ranks.ParseList(strings.Join(db.Ranks, ","))
}

// Dictionary returns the taxid dictionary for a database.
func (c *Config) Dictionary(name string) (summary.Dictionary, error) {
	db, err := c.database(name)
	if err != nil {
		return nil, err
	}
	d := make(summary.Dictionary, 0, len(db.Taxids))
	for _, t := range db.Taxids {
		d = append(d, summary.Entry{Label: t.Label, ID: t.ID})
	}
	return d, nil
}

// Threshold returns the configured minimum abundance.
func (c *Config) Threshold() float64 {
	if c.MinAbundance == nil {
		return DefaultMinAbundance
	}
	return *c.MinAbundance
}

// Selection is the effective rank schema, dictionary and threshold of a run.
type Selection struct {
	Schema     taxon.RankSchema
	Dictionary summary.Dictionary
	Threshold  float64
}

// Select resolves a database preset with optional overrides. taxidMap is a
// JSON object and rankList a comma list or JSON array; either replaces the
// preset's value. A NaN threshold falls back to the configured default.
// The database only has to exist when some part comes from its preset.
func (c *Config) Select(database, taxidMap, rankList string, threshold float64) (Selection, error) {
	var sel Selection
	var err error

	if rankList != "" {
		sel.Schema, err = ranks.ParseList(rankList)
	} else {
		sel.Schema, err = c.Schema(database)
	}
	if err != nil {
		return sel, err
	}

	if taxidMap != "" {
		sel.Dictionary, err = summary.ParseDictionary(taxidMap)
	} else {
		sel.Dictionary, err = c.Dictionary(database)
	}
	if err != nil {
		return sel, err
	}

	sel.Threshold = threshold
	if math.IsNaN(threshold) {
		sel.Threshold = c.Threshold()
	}
	return sel, nil
}

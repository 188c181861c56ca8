package sources

// AllRegions is the reserved region code meaning "no region filter".
const AllRegions = "all"

type Source struct {
	Name       string `yaml:"name" json:"name"`
	URL        string `yaml:"url" json:"url"`
	Category   string `yaml:"category" json:"category,omitempty"`
	RegionCode string `yaml:"-" json:"regionCode,omitempty"` // Set for region-specific sources only
}

type Region struct {
	Code     string   `yaml:"-"` // Derived from filename, upper-cased
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Cities   []string `yaml:"cities"`
	Sources  []Source `yaml:"sources"`
}

type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Fallback []string `yaml:"fallback"` // Title-only terms used when nothing else matched
}

type nationalFile struct {
	Sources []Source `yaml:"sources"`
}

type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}

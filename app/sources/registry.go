package sources

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data
var dataFS embed.FS

const (
	nationalFileName   = "national.yml"
	categoriesFileName = "categories.yml"
	regionsGlob        = "regions/*.yml"
)

// Registry holds the feed sources, region profiles and category taxonomy.
// It is built once at startup and never mutated afterwards, so it is safe
// for concurrent use without locking.
type Registry struct {
	national   []Source
	regions    map[string]*Region
	categories []Category
}

// LoadDefault builds the registry from the embedded configuration.
func LoadDefault() (*Registry, error) {
	fsys, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded sources: %w", err)
	}
	return Load(fsys)
}

// LoadDir builds the registry from a directory laid out like the embedded data.
func LoadDir(dir string) (*Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to open sources directory: %w", err)
	}
	return Load(os.DirFS(dir))
}

func Load(fsys fs.FS) (*Registry, error) {
	var categories categoriesFile
	if err := parseFile(fsys, categoriesFileName, &categories); err != nil {
		return nil, err
	}

	var national nationalFile
	if err := parseFile(fsys, nationalFileName, &national); err != nil {
		return nil, err
	}

	r := &Registry{
		national:   national.Sources,
		regions:    make(map[string]*Region),
		categories: normalizeCategories(categories.Categories),
	}

	files, err := fs.Glob(fsys, regionsGlob)
	if err != nil {
		return nil, fmt.Errorf("failed to find region files: %w", err)
	}

	for _, file := range files {
		code := strings.ToUpper(strings.TrimSuffix(path.Base(file), ".yml"))

		var region Region
		if err := parseFile(fsys, file, &region); err != nil {
			return nil, err
		}
		region.Code = code
		for i := range region.Sources {
			region.Sources[i].RegionCode = code
			region.Sources[i].Category = ""
		}
		region.Keywords = normalizeTerms(region.Keywords)
		region.Cities = normalizeTerms(region.Cities)

		if _, exists := r.regions[code]; exists {
			return nil, fmt.Errorf("duplicate region code %s in %s", code, file)
		}
		r.regions[code] = &region

		slog.Debug("Region loaded", "code", code, "name", region.Name, "sources", len(region.Sources))
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid sources configuration: %w", err)
	}

	return r, nil
}

// Sources returns the feeds to fetch for a region code. A known region gets
// its own sources first, followed by the national list. "all" and unknown
// codes get the national list only.
func (r *Registry) Sources(regionCode string) []Source {
	region, ok := r.Region(regionCode)
	if !ok {
		return slices.Clone(r.national)
	}

	result := make([]Source, 0, len(region.Sources)+len(r.national))
	result = append(result, region.Sources...)
	result = append(result, r.national...)
	return result
}

func (r *Registry) Region(code string) (*Region, bool) {
	if code == "" || strings.EqualFold(code, AllRegions) {
		return nil, false
	}
	region, ok := r.regions[strings.ToUpper(code)]
	return region, ok
}

func (r *Registry) Regions() []*Region {
	regions := make([]*Region, 0, len(r.regions))
	for _, region := range r.regions {
		regions = append(regions, region)
	}
	slices.SortFunc(regions, func(a, b *Region) int {
		return strings.Compare(a.Code, b.Code)
	})
	return regions
}

func (r *Registry) Categories() []Category {
	return slices.Clone(r.categories)
}

func (r *Registry) National() []Source {
	return slices.Clone(r.national)
}

// All returns every known source, national first, each URL once.
func (r *Registry) All() []Source {
	seen := make(map[string]bool)
	var all []Source

	add := func(list []Source) {
		for _, src := range list {
			if seen[src.URL] {
				continue
			}
			seen[src.URL] = true
			all = append(all, src)
		}
	}

	add(r.national)
	for _, region := range r.Regions() {
		add(region.Sources)
	}
	return all
}

func (r *Registry) SourceCount() int {
	return len(r.All())
}

func (r *Registry) validate() error {
	if len(r.national) == 0 {
		return fmt.Errorf("at least one national source is required")
	}
	if len(r.categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	known := make(map[string]bool, len(r.categories))
	for _, category := range r.categories {
		if category.Name == "" {
			return fmt.Errorf("category name is required")
		}
		if known[category.Name] {
			return fmt.Errorf("duplicate category %s", category.Name)
		}
		known[category.Name] = true
	}

	for i, src := range r.national {
		if err := validateSource(src); err != nil {
			return fmt.Errorf("national source at index %d: %w", i, err)
		}
		if src.Category != "" && !known[src.Category] {
			return fmt.Errorf("national source %s has unknown category %s", src.Name, src.Category)
		}
	}

	for code, region := range r.regions {
		if strings.EqualFold(code, AllRegions) {
			return fmt.Errorf("region code %s is reserved", code)
		}
		if region.Name == "" {
			return fmt.Errorf("region %s: name is required", code)
		}
		for i, src := range region.Sources {
			if err := validateSource(src); err != nil {
				return fmt.Errorf("region %s source at index %d: %w", code, i, err)
			}
		}
	}

	return nil
}

func validateSource(src Source) error {
	requiredFields := map[string]string{
		"name": src.Name,
		"url":  src.URL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}
	return nil
}

func parseFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse YAML %s: %w", name, err)
	}
	return nil
}

func normalizeCategories(categories []Category) []Category {
	for i := range categories {
		categories[i].Name = strings.ToLower(strings.TrimSpace(categories[i].Name))
		categories[i].Keywords = normalizeTerms(categories[i].Keywords)
		categories[i].Fallback = normalizeTerms(categories[i].Fallback)
	}
	return categories
}

// normalizeTerms lower-cases and trims terms, dropping blanks and duplicates
// while keeping the first occurrence order.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	result := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		result = append(result, term)
	}
	return result
}

package demo

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

//go:embed seeds.yaml
var defaultSeedsYAML []byte

type CategorySeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type PerformerSeed struct {
	Name              string           `yaml:"name"`
	Email             string           `yaml:"email"`
	City              string           `yaml:"city"`
	State             string           `yaml:"state"`
	Category          string           `yaml:"category"`
	Tier              marketplace.Tier `yaml:"tier"`
	HourlyRate        float64          `yaml:"hourly_rate"`
	CompletedBookings int              `yaml:"completed_bookings"`
	AvgRating         float64          `yaml:"avg_rating"`
	TotalReviews      int              `yaml:"total_reviews"`
	Verified          bool             `yaml:"verified"`
	Featured          bool             `yaml:"featured"`
	Tagline           string           `yaml:"tagline"`
	Experience        string           `yaml:"experience"`
}

type CustomerSeed struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Company string `yaml:"company"`
}

// TemplateStatus is the outcome an event template is generated in.
type TemplateStatus string

const (
	TemplateOpen   TemplateStatus = "open"
	TemplateClosed TemplateStatus = "closed"
	TemplateFilled TemplateStatus = "filled"
)

// EventStatus maps a template status onto the stored market event status.
func (s TemplateStatus) EventStatus() (marketplace.MarketEventStatus, error) {
	switch s {
	case TemplateOpen:
		return marketplace.MarketEventOpen, nil
	case TemplateClosed:
		return marketplace.MarketEventClosed, nil
	case TemplateFilled:
		return marketplace.MarketEventBooked, nil
	}
	return "", fmt.Errorf("unknown template status %q", string(s))
}

type EventTemplate struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Category    string         `yaml:"category"`
	Duration    int            `yaml:"duration"`
	BudgetMin   float64        `yaml:"budget_min"`
	BudgetMax   float64        `yaml:"budget_max"`
	Status      TemplateStatus `yaml:"status"`
}

// Seeds is the fixed input of a generation run.
type Seeds struct {
	Categories   []CategorySeed    `yaml:"categories"`
	ServiceAreas []string          `yaml:"service_areas"`
	CityAreas    map[string]string `yaml:"city_areas"`
	Performers   []PerformerSeed   `yaml:"performers"`
	Customers    []CustomerSeed    `yaml:"customers"`
	Events       []EventTemplate   `yaml:"events"`
}

// DefaultSeeds returns the built-in demo data set.
func DefaultSeeds() Seeds {
	s, err := ParseSeeds(defaultSeedsYAML)
	if err != nil {
		panic(fmt.Sprintf("demo: embedded seeds: %v", err))
	}
	return s
}

// LoadSeeds reads a YAML seed file. An empty path returns the defaults.
func LoadSeeds(path string) (Seeds, error) {
	if path == "" {
		return DefaultSeeds(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Seeds{}, fmt.Errorf("read seeds: %w", err)
	}
	return ParseSeeds(b)
}

func ParseSeeds(b []byte) (Seeds, error) {
	var s Seeds
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Seeds{}, fmt.Errorf("parse seeds: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Seeds{}, err
	}
	return s, nil
}

// ServiceAreaFor maps a city onto its service area, falling back to the city.
func (s Seeds) ServiceAreaFor(city string) string {
	if area, ok := s.CityAreas[city]; ok {
		return area
	}
	return city
}

func (s Seeds) Validate() error {
	var errs []error
	for i, c := range s.Categories {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name required", i))
		}
	}
	for i, p := range s.Performers {
		if p.Name == "" || p.Email == "" {
			errs = append(errs, fmt.Errorf("performers[%d]: name and email required", i))
		}
		if !p.Tier.Valid() {
			errs = append(errs, fmt.Errorf("performers[%d]: invalid tier %q", i, p.Tier))
		}
		if p.HourlyRate <= 0 {
			errs = append(errs, fmt.Errorf("performers[%d]: hourly_rate must be positive", i))
		}
	}
	for i, c := range s.Customers {
		if c.Name == "" || c.Email == "" {
			errs = append(errs, fmt.Errorf("customers[%d]: name and email required", i))
		}
	}
	for i, e := range s.Events {
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("events[%d]: name required", i))
		}
		if _, err := e.Status.EventStatus(); err != nil {
			errs = append(errs, fmt.Errorf("events[%d]: %w", i, err))
		}
		if e.BudgetMin > e.BudgetMax {
			errs = append(errs, fmt.Errorf("events[%d]: budget_min exceeds budget_max", i))
		}
	}
	return errors.Join(errs...)
}

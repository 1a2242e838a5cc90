// Package regulations holds the 21 CFR Part 820 reference catalog used to
// build regulation-specific analysis prompts.
//
// The catalog is embedded YAML decoded once at package init. Callers receive
// copies, so the shared tables are never mutated after start-up.
package regulations

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Subsection is one verifiable requirement within a regulation.
type Subsection struct {
	Key              string   `yaml:"key" json:"key"`
	Requirement      string   `yaml:"requirement" json:"requirement"`
	KeyElements      []string `yaml:"key_elements" json:"keyElements"`
	CriticalKeywords []string `yaml:"critical_keywords" json:"criticalKeywords"`
}

// Spec identifies one CFR section family and its subsections in catalog order.
type Spec struct {
	Key         string       `yaml:"key" json:"key"`
	Citation    string       `yaml:"citation" json:"citation"`
	Title       string       `yaml:"title" json:"title"`
	Subsections []Subsection `yaml:"subsections" json:"subsections"`
}

// SeverityLevel is display metadata for one finding tier.
type SeverityLevel struct {
	Name                  string   `yaml:"name" json:"name"`
	Description           string   `yaml:"description" json:"description"`
	RiskLevel             string   `yaml:"risk_level" json:"riskLevel"`
	EnforcementLikelihood string   `yaml:"enforcement_likelihood" json:"enforcementLikelihood"`
	Examples              []string `yaml:"examples" json:"examples"`
}

type catalogFile struct {
	Regulations    []Spec          `yaml:"regulations"`
	SeverityLevels []SeverityLevel `yaml:"severity_levels"`
}

var catalog = mustLoad(catalogYAML)

func mustLoad(data []byte) catalogFile {
	c, err := parseCatalog(data)
	if err != nil {
		panic(fmt.Sprintf("regulations: %v", err))
	}
	return c
}

func parseCatalog(data []byte) (catalogFile, error) {
	var c catalogFile
	if err := yaml.Unmarshal(data, &c); err != nil {
		return catalogFile{}, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Regulations) == 0 {
		return catalogFile{}, fmt.Errorf("catalog has no regulations")
	}
	for _, spec := range c.Regulations {
		if strings.TrimSpace(spec.Key) == "" || strings.TrimSpace(spec.Citation) == "" {
			return catalogFile{}, fmt.Errorf("regulation missing key or citation: %+v", spec)
		}
		seen := make(map[string]struct{}, len(spec.Subsections))
		for _, sub := range spec.Subsections {
			if _, dup := seen[sub.Key]; dup {
				return catalogFile{}, fmt.Errorf("%s: duplicate subsection %s", spec.Citation, sub.Key)
			}
			seen[sub.Key] = struct{}{}
			if len(sub.KeyElements) == 0 {
				return catalogFile{}, fmt.Errorf("%s: subsection %s has no key elements", spec.Citation, sub.Key)
			}
		}
	}
	return c, nil
}

// sectionToken matches a Part 820 section number such as 820.75.
var sectionToken = regexp.MustCompile(`\b820\.\d+`)

// Lookup resolves a regulation identifier to its catalog entry.
//
// The identifier matches a spec when it contains the spec's full key, or
// when one of its 820.NN section numbers equals the spec's section, so
// "820.75", "820.75(a)" and "Check 21 CFR 820.75 please" all resolve while
// "820.7" or a bare word do not. The first match in catalog order wins. An
// unknown identifier is not an error; it selects the generic prompt.
func Lookup(id string) (Spec, bool) {
	needle := strings.TrimSpace(id)
	if needle == "" {
		return Spec{}, false
	}
	sections := sectionToken.FindAllString(needle, -1)
	for _, spec := range catalog.Regulations {
		if strings.Contains(needle, spec.Key) {
			return spec.clone(), true
		}
		section := sectionToken.FindString(spec.Citation)
		for _, s := range sections {
			if section != "" && s == section {
				return spec.clone(), true
			}
		}
	}
	return Spec{}, false
}

// All returns every catalog entry in catalog order.
func All() []Spec {
	out := make([]Spec, 0, len(catalog.Regulations))
	for _, spec := range catalog.Regulations {
		out = append(out, spec.clone())
	}
	return out
}

// Keys returns the selectable regulation identifiers in catalog order.
func Keys() []string {
	out := make([]string, 0, len(catalog.Regulations))
	for _, spec := range catalog.Regulations {
		out = append(out, spec.Key)
	}
	return out
}

// SeverityLevels returns the CRITICAL, MAJOR and MINOR rubric.
func SeverityLevels() []SeverityLevel {
	out := make([]SeverityLevel, len(catalog.SeverityLevels))
	for i, lvl := range catalog.SeverityLevels {
		lvl.Examples = append([]string(nil), lvl.Examples...)
		out[i] = lvl
	}
	return out
}

func (s Spec) clone() Spec {
	out := s
	out.Subsections = make([]Subsection, len(s.Subsections))
	for i, sub := range s.Subsections {
		sub.KeyElements = append([]string(nil), sub.KeyElements...)
		sub.CriticalKeywords = append([]string(nil), sub.CriticalKeywords...)
		out.Subsections[i] = sub
	}
	return out
}

package metadata

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"treprSuite/treprErrors"
)

//go:embed mapping_tables.yaml
var rawMappingTables []byte

//Rule is one mapping operation
type Rule struct {
	//Op is one of copy, rename, combine, move
	Op string `yaml:"op"`
	//In names the section the rule works on. Empty for section renames
	In      string   `yaml:"in"`
	OldKey  string   `yaml:"old key"`
	OldKeys []string `yaml:"old keys"`
	NewKey  string   `yaml:"new key"`
	//Separator for combine, defaults to a single space
	Separator string `yaml:"separator"`
	Key       string `yaml:"key"`
	Source    string `yaml:"source"`
	Target    string `yaml:"target"`
}

//MappingTable is the rule sequence for a set of info file versions
type MappingTable struct {
	Name     string   `yaml:"name"`
	Versions []string `yaml:"versions"`
	Rules    []Rule   `yaml:"rules"`
}

type mappingFile struct {
	Format struct {
		Type    string `yaml:"type"`
		Version string `yaml:"version"`
	} `yaml:"format"`
	Tables []MappingTable `yaml:"tables"`
}

//Mapper selects the mapping table for an info file version and applies it
type Mapper struct {
	tables map[string]MappingTable
}

//NewMapper creates a Mapper from the built in mapping tables
func NewMapper() (*Mapper, error) {
	return NewMapperFromYAML(rawMappingTables)
}

//NewMapperFromYAML creates a Mapper from a mapping table document
func NewMapperFromYAML(raw []byte) (*Mapper, error) {
	var file mappingFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse mapping tables")
	}
	m := &Mapper{tables: make(map[string]MappingTable)}
	for _, table := range file.Tables {
		for _, rule := range table.Rules {
			if err := rule.check(); err != nil {
				return nil, errors.Wrapf(err, "mapping table %v", table.Name)
			}
		}
		for _, version := range table.Versions {
			if other, ok := m.tables[version]; ok {
				return nil, fmt.Errorf("version %v is claimed by mapping tables %v and %v", version, other.Name, table.Name)
			}
			m.tables[version] = table
		}
	}
	return m, nil
}

//Versions returns the info file versions the mapper knows, sorted
func (m *Mapper) Versions() []string {
	versions := make([]string, 0, len(m.tables))
	for v := range m.tables {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

//Map applies the mapping table of version to tree, modifying it in place
func (m *Mapper) Map(version string, tree Tree) error {
	table, ok := m.tables[version]
	if !ok {
		return errors.Wrapf(treprErrors.ErrSchema, "no mapping table for info file version %q", version)
	}
	for i, rule := range table.Rules {
		if err := rule.apply(tree); err != nil {
			return errors.Wrapf(err, "info file version %v, mapping rule %v (%v)", version, i+1, rule.Op)
		}
	}
	return nil
}

func (r Rule) check() error {
	switch r.Op {
	case "copy", "rename":
		if r.OldKey == "" || r.NewKey == "" {
			return fmt.Errorf("rule %v needs old and new key", r.Op)
		}
		if r.Op == "copy" && r.In == "" {
			return fmt.Errorf("copy needs a section")
		}
	case "combine":
		if r.In == "" || len(r.OldKeys) == 0 || r.NewKey == "" {
			return fmt.Errorf("combine needs section, old keys and new key")
		}
	case "move":
		if r.Key == "" || r.Source == "" || r.Target == "" {
			return fmt.Errorf("move needs key, source and target")
		}
	default:
		return fmt.Errorf("unknown mapping operation %q", r.Op)
	}
	return nil
}

func (r Rule) apply(tree Tree) error {
	if r.Op == "move" {
		return tree.MoveItem(r.Key, r.Source, r.Target)
	}
	if r.In == "" {
		return tree.RenameSection(r.OldKey, r.NewKey)
	}
	section, err := tree.Section(r.In)
	if err != nil {
		return err
	}
	switch r.Op {
	case "copy":
		return section.CopyKey(r.OldKey, r.NewKey)
	case "rename":
		return section.RenameKey(r.OldKey, r.NewKey)
	default:
		return section.CombineItems(r.OldKeys, r.NewKey, r.Separator)
	}
}

package metadata

import (
	"strings"

	"github.com/pkg/errors"
	"treprSuite/treprErrors"
)

//Section is one flat block of key value pairs as read from an info file
type Section map[string]string

//Tree maps section names to sections
type Tree map[string]Section

//NewTree copies blocks into a Tree so mapping never touches the parsed info file
func NewTree(blocks map[string]map[string]string) Tree {
	t := make(Tree, len(blocks))
	for name, block := range blocks {
		s := make(Section, len(block))
		for k, v := range block {
			s[k] = v
		}
		t[name] = s
	}
	return t
}

func missingKey(key string) error {
	return errors.Wrapf(treprErrors.ErrSchema, "key %q not found", key)
}

//RenameKey moves the value of oldKey to newKey and removes oldKey
func (s Section) RenameKey(oldKey, newKey string) error {
	v, ok := s[oldKey]
	if !ok {
		return missingKey(oldKey)
	}
	delete(s, oldKey)
	s[newKey] = v
	return nil
}

//CopyKey stores the value of oldKey additionally under newKey
func (s Section) CopyKey(oldKey, newKey string) error {
	v, ok := s[oldKey]
	if !ok {
		return missingKey(oldKey)
	}
	s[newKey] = v
	return nil
}

//CombineItems joins the values of oldKeys with separator, stores the result under newKey and removes
//the old keys. An empty separator means a single space
func (s Section) CombineItems(oldKeys []string, newKey, separator string) error {
	if separator == "" {
		separator = " "
	}
	values := make([]string, len(oldKeys))
	for i, k := range oldKeys {
		v, ok := s[k]
		if !ok {
			return missingKey(k)
		}
		values[i] = v
	}
	for _, k := range oldKeys {
		delete(s, k)
	}
	s[newKey] = strings.Join(values, separator)
	return nil
}

//Section returns the section called name or an error wrapping treprErrors.ErrSchema
func (t Tree) Section(name string) (Section, error) {
	s, ok := t[name]
	if !ok {
		return nil, errors.Wrapf(treprErrors.ErrSchema, "section %q not found", name)
	}
	return s, nil
}

//RenameSection renames a whole section
func (t Tree) RenameSection(oldName, newName string) error {
	s, err := t.Section(oldName)
	if err != nil {
		return err
	}
	delete(t, oldName)
	t[newName] = s
	return nil
}

//MoveItem moves key from section source to section target. target is created if it does not exist
func (t Tree) MoveItem(key, source, target string) error {
	src, err := t.Section(source)
	if err != nil {
		return err
	}
	v, ok := src[key]
	if !ok {
		return errors.Wrapf(missingKey(key), "section %v", source)
	}
	dst, ok := t[target]
	if !ok {
		dst = make(Section)
		t[target] = dst
	}
	delete(src, key)
	dst[key] = v
	return nil
}

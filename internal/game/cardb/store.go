package cardb

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/magefree/mage-cardfactory/internal/game/mana"
)

// Store is a name-keyed, read-only collection of templates. It is safe for
// concurrent use because it never changes after construction.
type Store struct {
	byName  map[string]*Template
	names   []string
	removed map[string]struct{}
}

// Row is a template together with where it came from, used for error reports.
type Row struct {
	Template *Template
	Source   string
	Index    int
}

// NewStore validates rows and builds a store. A row without a name, a
// duplicate name or an unparseable mana cost fails the whole build.
func NewStore(rows []Row, removed ...string) (*Store, error) {
	s := &Store{
		byName:  make(map[string]*Template, len(rows)),
		names:   make([]string, 0, len(rows)),
		removed: make(map[string]struct{}, len(removed)),
	}
	for _, row := range rows {
		if err := validate(row.Template); err != nil {
			return nil, &LoadError{Source: row.Source, Row: row.Index, Err: err}
		}
		if _, dup := s.byName[row.Template.Name]; dup {
			return nil, &LoadError{Source: row.Source, Row: row.Index, Err: fmt.Errorf("duplicate card %q", row.Template.Name)}
		}
		s.byName[row.Template.Name] = row.Template
		s.names = append(s.names, row.Template.Name)
	}
	sort.Strings(s.names)
	for _, name := range removed {
		s.removed[name] = struct{}{}
	}
	return s, nil
}

// FromTemplates builds a store from in-memory templates.
func FromTemplates(templates ...*Template) (*Store, error) {
	rows := make([]Row, len(templates))
	for i, t := range templates {
		rows[i] = Row{Template: t, Source: "memory", Index: i + 1}
	}
	return NewStore(rows)
}

func validate(t *Template) error {
	if t == nil {
		return errors.New("empty row")
	}
	if t.Name == "" {
		return errors.New("missing name")
	}
	if _, err := mana.ParseCost(t.ManaCost); err != nil {
		return fmt.Errorf("card %q: %w", t.Name, err)
	}
	return nil
}

// Lookup returns the template named name.
func (s *Store) Lookup(name string) (*Template, error) {
	t, ok := s.byName[name]
	if !ok {
		return nil, &UnknownCardError{Name: name}
	}
	return t, nil
}

// Removed reports whether name is on the removed-cards list.
func (s *Store) Removed(name string) bool {
	_, ok := s.removed[name]
	return ok
}

// All yields every template in name order. Each call starts a new pass.
func (s *Store) All() iter.Seq[*Template] {
	return func(yield func(*Template) bool) {
		for _, name := range s.names {
			if !yield(s.byName[name]) {
				return
			}
		}
	}
}

// Names returns the sorted card names.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of templates.
func (s *Store) Len() int {
	return len(s.names)
}

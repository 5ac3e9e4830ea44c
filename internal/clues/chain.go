// Package clues loads and validates the clue chain configuration.
//
// The chain is read once at startup from a YAML file mapping tag
// identifiers to clue entries. It is immutable for the process lifetime
// and injected into the services that need it.
package clues

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mboer/treasurehunt/internal/model"
)

// Entry is a single node in the clue chain
type Entry struct {
	// Tag is the identifier printed on the physical QR tag
	Tag string

	// Clue is the text revealed when this tag is scanned
	Clue string

	// Final marks the terminal entry; its clue is rendered with the
	// completion time and rank
	Final bool

	// NextTag is the tag the player must scan after this one.
	// Empty on the terminal entry.
	NextTag string
}

// Chain is the ordered, singly-linked sequence of tags for one hunt.
// The first-declared tag in the file is the designated entry point.
type Chain struct {
	first   string
	order   []string
	entries map[string]Entry
}

// entryYAML is the on-disk shape of a chain entry
type entryYAML struct {
	Clue    string `yaml:"clue"`
	Final   bool   `yaml:"final"`
	NextTag string `yaml:"next_tag"`
}

// Load reads and validates a clue chain from a YAML file.
// Any error here is fatal: the process must not serve without a valid chain.
func Load(path string) (*Chain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clue file: %w", err)
	}
	defer f.Close()

	chain, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse clue file %s: %w", path, err)
	}
	return chain, nil
}

// Parse reads a clue chain from YAML.
//
// The top level must be a mapping of tag id to entry. Declaration order is
// significant: the first tag in the file is the chain's entry point, so the
// document is walked as a yaml.Node rather than decoded into a Go map.
func Parse(r io.Reader) (*Chain, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("expected a single yaml document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of tag id to clue entry")
	}

	c := &Chain{entries: make(map[string]Entry)}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]

		tag := keyNode.Value
		if tag == "" {
			return nil, fmt.Errorf("empty tag id at line %d", keyNode.Line)
		}
		if tag == model.FinishedTag {
			return nil, fmt.Errorf("tag id %q is reserved", model.FinishedTag)
		}
		if _, exists := c.entries[tag]; exists {
			return nil, fmt.Errorf("duplicate tag id %q", tag)
		}

		var e entryYAML
		if err := valNode.Decode(&e); err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}
		if e.Clue == "" {
			return nil, fmt.Errorf("tag %q has no clue text", tag)
		}

		c.entries[tag] = Entry{
			Tag:     tag,
			Clue:    e.Clue,
			Final:   e.Final,
			NextTag: e.NextTag,
		}
		c.order = append(c.order, tag)
	}

	if len(c.order) == 0 {
		return nil, fmt.Errorf("clue chain is empty")
	}
	c.first = c.order[0]

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate checks that the entries form a single simple chain starting at
// the first-declared tag and ending at exactly one terminal entry.
func (c *Chain) validate() error {
	terminals := 0
	for _, tag := range c.order {
		e := c.entries[tag]
		if e.NextTag == "" {
			terminals++
			continue
		}
		if e.NextTag == tag {
			return fmt.Errorf("tag %q links to itself", tag)
		}
		if _, ok := c.entries[e.NextTag]; !ok {
			return fmt.Errorf("tag %q links to unknown tag %q", tag, e.NextTag)
		}
	}
	if terminals != 1 {
		return fmt.Errorf("expected exactly one terminal entry, found %d", terminals)
	}

	// Walk from the entry point; the walk must visit every entry exactly
	// once, which rules out cycles, forks and unreachable tags.
	seen := make(map[string]bool, len(c.entries))
	for tag := c.first; tag != ""; tag = c.entries[tag].NextTag {
		if seen[tag] {
			return fmt.Errorf("chain revisits tag %q", tag)
		}
		seen[tag] = true
	}
	if len(seen) != len(c.entries) {
		return fmt.Errorf("chain from %q covers %d of %d entries", c.first, len(seen), len(c.entries))
	}
	return nil
}

// FirstTag returns the chain's designated entry point
func (c *Chain) FirstTag() string {
	return c.first
}

// Get returns the entry for a tag, if it exists
func (c *Chain) Get(tag string) (Entry, bool) {
	e, ok := c.entries[tag]
	return e, ok
}

// Len returns the number of tags in the chain
func (c *Chain) Len() int {
	return len(c.entries)
}

// Tags returns all tag ids in declaration order
func (c *Chain) Tags() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

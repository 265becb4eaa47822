// Package proposal turns analysis results into name proposals for entries.
package proposal

import (
	"log"
	"sort"

	"github.com/cs-au-dk/jnames/analysis/delegation"
	bc "github.com/cs-au-dk/jnames/bytecode"
)

// Source names the analysis a proposal came from.
type Source string

const (
	ConstantFields     Source = "constant_fields"
	DelegateParameters Source = "delegate_parameters"
)

// Mapping proposes Name for Entry.
type Mapping struct {
	Entry  bc.Entry
	Name   string
	Source Source
}

// Proposer collects proposals. The first proposal for an entry wins.
type Proposer struct {
	mappings map[string]Mapping
}

func NewProposer() *Proposer {
	return &Proposer{mappings: make(map[string]Mapping)}
}

// Insert proposes name for e unless e already has a proposal. It reports
// whether the proposal was recorded.
func (p *Proposer) Insert(e bc.Entry, name string, src Source) bool {
	key := e.String()
	if old, found := p.mappings[key]; found {
		if old.Name != name {
			log.Printf("Ignoring %q for %s: already proposed %q by %s", name, e, old.Name, old.Source)
		}
		return false
	}
	p.mappings[key] = Mapping{Entry: e, Name: name, Source: src}
	return true
}

// Lookup returns the proposal for e.
func (p *Proposer) Lookup(e bc.Entry) (Mapping, bool) {
	m, found := p.mappings[e.String()]
	return m, found
}

func (p *Proposer) Len() int {
	return len(p.mappings)
}

// InsertConstantFieldNames proposes every name found for a static field.
func (p *Proposer) InsertConstantFieldNames(names map[bc.FieldEntry]string) {
	fields := make([]bc.FieldEntry, 0, len(names))
	for f := range names {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].String() < fields[j].String() })

	for _, f := range fields {
		p.Insert(f, names[f], ConstantFields)
	}
}

// PropagateParameterNames proposes the known name of a parameter for every
// slot it is passed on to, following delegation chains. Slots that share a
// delegation group with exactly one distinct known name receive that name as
// well. Known names themselves are not proposed.
func (p *Proposer) PropagateParameterNames(idx *delegation.Index, known map[bc.LocalVariableEntry]string) {
	for _, from := range idx.LinkedParameterSlots() {
		name, found := known[from]
		if !found {
			continue
		}
		for _, to := range idx.Chain(from)[1:] {
			if _, found := known[to]; found {
				break
			}
			p.Insert(to, name, DelegateParameters)
		}
	}

	for _, group := range idx.Groups() {
		name := ""
		unique := true
		for _, e := range group {
			if n, found := known[e]; found {
				if name != "" && n != name {
					unique = false
				}
				name = n
			}
		}
		if name == "" || !unique {
			continue
		}
		for _, e := range group {
			if _, found := known[e]; !found {
				p.Insert(e, name, DelegateParameters)
			}
		}
	}
}

// Mappings lists the proposals sorted by entry.
func (p *Proposer) Mappings() []Mapping {
	res := make([]Mapping, 0, len(p.mappings))
	for _, m := range p.mappings {
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Entry.String() < res[j].Entry.String() })
	return res
}

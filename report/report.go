// Package report renders analysis results as aligned text or YAML.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cs-au-dk/jnames/analysis/delegation"
	"github.com/cs-au-dk/jnames/proposal"
	bc "github.com/cs-au-dk/jnames/bytecode"
	"github.com/cs-au-dk/jnames/utils"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	Text Format = "text"
	YAML Format = "yaml"
)

// cell is a table entry; paint colors the padded text.
type cell struct {
	text  string
	paint func(string) string
}

func plain(s string) cell { return cell{s, nil} }

// writeTable writes rows with every column padded to its widest cell. Widths
// are measured on the uncolored text.
func writeTable(w io.Writer, rows [][]cell) error {
	var widths []int
	for _, row := range rows {
		for i, c := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := runewidth.StringWidth(c.text); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for _, row := range rows {
		var sb strings.Builder
		for i, c := range row {
			text := c.text
			if i < len(row)-1 {
				text = runewidth.FillRight(text, widths[i])
			}
			if c.paint != nil {
				// Color only the text, not the padding.
				pad := text[len(c.text):]
				text = c.paint(c.text) + pad
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(text)
		}
		sb.WriteString("\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

type fieldName struct {
	Owner string `yaml:"owner"`
	Field string `yaml:"field"`
	Desc  string `yaml:"desc"`
	Name  string `yaml:"name"`
}

// Names writes the proposed static field names sorted by field.
func Names(w io.Writer, names map[bc.FieldEntry]string, format Format) error {
	fields := make([]bc.FieldEntry, 0, len(names))
	for f := range names {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].String() < fields[j].String() })

	if format == YAML {
		out := make([]fieldName, 0, len(fields))
		for _, f := range fields {
			out = append(out, fieldName{f.Owner, f.Name, f.Desc, names[f]})
		}
		return writeYAML(w, map[string]any{"fields": out})
	}

	rows := make([][]cell, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []cell{
			{f.String(), utils.InsnString},
			plain("->"),
			{names[f], utils.NameString},
		})
	}
	return writeTable(w, rows)
}

type link struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Links writes every delegation link and the resulting groups.
func Links(w io.Writer, idx *delegation.Index, format Format) error {
	slots := idx.LinkedParameterSlots()
	groups := idx.Groups()

	if format == YAML {
		links := make([]link, 0, len(slots))
		for _, from := range slots {
			to, _ := idx.Resolve(from)
			links = append(links, link{from.String(), to.String()})
		}
		gs := make([][]string, 0, len(groups))
		for _, g := range groups {
			strs := make([]string, len(g))
			for i, e := range g {
				strs[i] = e.String()
			}
			gs = append(gs, strs)
		}
		return writeYAML(w, map[string]any{"links": links, "groups": gs})
	}

	rows := make([][]cell, 0, len(slots))
	for _, from := range slots {
		to, _ := idx.Resolve(from)
		rows = append(rows, []cell{
			{from.String(), utils.ClassString},
			plain("->"),
			{to.String(), utils.ClassString},
		})
	}
	if err := writeTable(w, rows); err != nil {
		return err
	}
	for i, g := range groups {
		strs := make([]string, len(g))
		for j, e := range g {
			strs[j] = e.String()
		}
		if _, err := fmt.Fprintf(w, "group %d: %s\n", i, strings.Join(strs, ", ")); err != nil {
			return err
		}
	}
	return nil
}

type mapping struct {
	Entry  string `yaml:"entry"`
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// Proposals writes the merged name proposals.
func Proposals(w io.Writer, ms []proposal.Mapping, format Format) error {
	if format == YAML {
		out := make([]mapping, 0, len(ms))
		for _, m := range ms {
			out = append(out, mapping{m.Entry.String(), m.Name, string(m.Source)})
		}
		return writeYAML(w, map[string]any{"proposals": out})
	}

	rows := make([][]cell, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []cell{
			{m.Entry.String(), utils.ClassString},
			plain("->"),
			{m.Name, utils.NameString},
			plain("(" + string(m.Source) + ")"),
		})
	}
	return writeTable(w, rows)
}

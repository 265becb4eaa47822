package dot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/goccy/go-graphviz"
	"github.com/pkg/errors"
)

// Render lays out the graph with the embedded graphviz library and writes it
// to w in the given format ("svg", "png", ...). The "dot" format writes the
// graph source unchanged.
func (g *DotGraph) Render(w io.Writer, format string) error {
	var buf bytes.Buffer
	if err := g.WriteDot(&buf); err != nil {
		return err
	}
	if format == "dot" {
		_, err := buf.WriteTo(w)
		return err
	}

	gv := graphviz.New()
	defer gv.Close()
	graph, err := graphviz.ParseBytes(buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "parsing generated dot graph")
	}
	defer graph.Close()

	return errors.Wrapf(gv.Render(graph, graphviz.Format(format), w), "rendering %s", format)
}

// DotToImage renders the graph into the file outfname.format and returns
// the path. An empty outfname picks a temporary file.
func (g *DotGraph) DotToImage(outfname string, format string) (string, error) {
	var img string
	if outfname == "" {
		f, err := os.CreateTemp("", "jnames.*."+format)
		if err != nil {
			return "", err
		}
		f.Close()
		img = f.Name()
	} else {
		img = fmt.Sprintf("%s.%s", outfname, format)
		if dir := filepath.Dir(img); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", err
			}
		}
	}

	f, err := os.Create(img)
	if err != nil {
		return "", err
	}
	if err := g.Render(f, format); err != nil {
		f.Close()
		return "", err
	}
	return img, f.Close()
}

const tmplCluster = `{{define "cluster" -}}
	{{printf "subgraph %q {" .}}
		{{printf "%s" .Attrs.Lines}}
		{{range .Nodes}}
		{{template "node" .}}
		{{- end}}
		{{range .SortedClusters}}
		{{template "cluster" .}}
		{{- end}}
	{{println "}" }}
{{- end}}`

const tmplEdge = `{{define "edge" -}}
	{{printf "%q -> %q [ %s ]" .From .To .Attrs}}
{{- end}}`

const tmplNode = `{{define "node" -}}
	{{printf "%q [ %s ]" .ID .Attrs}}
{{- end}}`

const tmplGraph = `digraph ControlFlow {
	label="{{.Title}}";
	labeljust="l";
	fontname="Arial";
	fontsize="14";
	rankdir="{{or .Options.rankdir "LR"}}";
	bgcolor="lightgray";
	style="solid";
	penwidth="0.5";
	pad="0.0";
	nodesep="{{.Options.nodesep}}";
	remincross="{{or .Options.remincross "true"}}";

	node [shape="box" style="filled" fillcolor="honeydew" fontname="Courier" penwidth="1.0" margin="0.05,0.0"];
	edge [minlen="{{.Options.minlen}}"]

	{{- range .Clusters}}
	{{template "cluster" .}}
	{{- end}}

	{{range .Nodes}}
	{{template "node" .}}
	{{- end}}

	{{- range .Edges}}
	{{template "edge" .}}
	{{- end}}
}
`

// ==[ type def/func: DotCluster ]===============================================
type DotCluster struct {
	ID       string
	Clusters map[string]*DotCluster
	Nodes    []*DotNode
	Attrs    DotAttrs
}

func NewDotCluster(id string) *DotCluster {
	return &DotCluster{
		ID:       id,
		Clusters: make(map[string]*DotCluster),
		Attrs:    make(DotAttrs),
	}
}

func (c *DotCluster) String() string {
	return fmt.Sprintf("cluster_%s", c.ID)
}

// SortedClusters lists the nested clusters ordered by ID.
func (c *DotCluster) SortedClusters() []*DotCluster {
	keys := make([]string, 0, len(c.Clusters))
	for k := range c.Clusters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]*DotCluster, len(keys))
	for i, k := range keys {
		res[i] = c.Clusters[k]
	}
	return res
}

func (c *DotCluster) countNodes() int {
	res := len(c.Nodes)

	for _, cluster := range c.Clusters {
		res += cluster.countNodes()
	}

	return res
}

// ==[ type def/func: DotNode    ]===============================================
type DotNode struct {
	ID    string
	Attrs DotAttrs
}

func (n *DotNode) String() string {
	return n.ID
}

// ==[ type def/func: DotEdge    ]===============================================
type DotEdge struct {
	From  *DotNode
	To    *DotNode
	Attrs DotAttrs
}

// ==[ type def/func: DotAttrs   ]===============================================
type DotAttrs map[string]string

// List renders the attributes sorted by key, so output is reproducible.
func (p DotAttrs) List() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	l := []string{}
	for _, k := range keys {
		l = append(l, fmt.Sprintf("%s=%q;", k, p[k]))
	}
	return l
}

func (p DotAttrs) String() string {
	return strings.Join(p.List(), " ")
}

func (p DotAttrs) Lines() string {
	return strings.Join(p.List(), "\n")
}

// ==[ type def/func: DotGraph   ]===============================================
type DotGraph struct {
	Title    string
	Attrs    DotAttrs
	Clusters []*DotCluster
	Nodes    []*DotNode
	Edges    []*DotEdge
	Options  map[string]string
}

// CountNodes counts the nodes of the graph, including nested ones.
func (g *DotGraph) CountNodes() int {
	res := len(g.Nodes)

	for _, cluster := range g.Clusters {
		res += cluster.countNodes()
	}

	return res
}

func (g *DotGraph) WriteDot(w io.Writer) error {
	t := template.New("dot")
	t.Option("missingkey=zero") // Make missing map keys return the zero value of appropriate type
	for _, s := range []string{tmplCluster, tmplNode, tmplEdge, tmplGraph} {
		if _, err := t.Parse(s); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, g); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

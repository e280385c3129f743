package iso19139

// Namespace URIs for the ISO 19139 profile. All prefixes are declared once
// on the document root, in the order listed by namespacePrefixes.
const (
	NSGMD = "http://www.isotc211.org/2005/gmd"
	NSGCO = "http://www.isotc211.org/2005/gco"
	NSGML = "http://www.opengis.net/gml"
	NSGTS = "http://www.isotc211.org/2005/gts"
	NSSRV = "http://www.isotc211.org/2005/srv"
	NSXSI = "http://www.w3.org/2001/XMLSchema-instance"
)

var namespacePrefixes = []struct {
	Prefix string
	URI    string
}{
	{"gmd", NSGMD},
	{"gco", NSGCO},
	{"gml", NSGML},
	{"gts", NSGTS},
	{"srv", NSSRV},
	{"xsi", NSXSI},
}

// Attr is one XML attribute. Attribute order is insertion order and is
// preserved by the serializer.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the document tree. An element carries either Text
// or Children, never both.
type Element struct {
	Prefix   string
	Local    string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// NewElement creates a detached element with a prefixed name.
func NewElement(prefix, local string) *Element {
	return &Element{Prefix: prefix, Local: local}
}

// Child appends and returns a new child element.
func (e *Element) Child(prefix, local string) *Element {
	child := NewElement(prefix, local)
	e.Children = append(e.Children, child)
	return child
}

// Append attaches an already-built element as the last child.
func (e *Element) Append(child *Element) {
	e.Children = append(e.Children, child)
}

// SetAttr appends an attribute, returning e for chaining.
func (e *Element) SetAttr(name, value string) *Element {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// SetText sets the text content, returning e for chaining.
func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

// Tag returns the serialized element name.
func (e *Element) Tag() string {
	if e.Prefix == "" {
		return e.Local
	}
	return e.Prefix + ":" + e.Local
}

// declareNamespaces adds one xmlns declaration per profile prefix.
// Call exactly once, on the root element, before any other attribute.
func declareNamespaces(root *Element) {
	for _, ns := range namespacePrefixes {
		root.SetAttr("xmlns:"+ns.Prefix, ns.URI)
	}
}

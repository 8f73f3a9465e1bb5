// Package xmlquery resolves prefixed queries like "sitemap:urlset/sitemap:url" against etree
// documents. Prefixes are bound to namespace URIs by the caller, so documents may use any prefix
// (or a default namespace) for the same URI. Unprefixed names match only elements without namespace.
package xmlquery

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/umputun/feed2index/pkg/domain"
)

// Resolver translates prefixed queries to etree paths
type Resolver struct {
	namespaces map[string]string // prefix -> uri

	mu    sync.Mutex
	paths map[string]etree.Path
}

// NewResolver makes a resolver with prefix to namespace uri bindings
func NewResolver(namespaces map[string]string) *Resolver {
	ns := make(map[string]string, len(namespaces))
	for k, v := range namespaces {
		ns[k] = v
	}
	return &Resolver{namespaces: ns, paths: map[string]etree.Path{}}
}

// Parse reads xml document from data
func Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.ValidateInput = true
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel // honor declared encoding, e.g. ISO-8859-1
	if _, err := doc.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: read xml: %w", domain.ErrMalformedDocument, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", domain.ErrMalformedDocument)
	}
	return doc, nil
}

// Path compiles query into etree path, compiled paths are cached
func (r *Resolver) Path(query string) (etree.Path, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.paths[query]; ok {
		return p, nil
	}

	segments := strings.Split(query, "/")
	for i, seg := range segments {
		if seg == "" || seg == "." || seg == ".." || seg == "*" {
			continue
		}
		prefix, local, found := strings.Cut(seg, ":")
		if !found {
			segments[i] = seg + "[namespace-uri()='']"
			continue
		}
		uri, ok := r.namespaces[prefix]
		if !ok {
			return etree.Path{}, fmt.Errorf("unknown namespace prefix %q in %q", prefix, query)
		}
		segments[i] = local + "[namespace-uri()='" + uri + "']"
	}

	p, err := etree.CompilePath(strings.Join(segments, "/"))
	if err != nil {
		return etree.Path{}, fmt.Errorf("compile %q: %w", query, err)
	}
	r.paths[query] = p
	return p, nil
}

// Elements returns all elements matching query relative to el, in document order
func (r *Resolver) Elements(el *etree.Element, query string) []*etree.Element {
	if el == nil {
		return nil
	}
	p, err := r.Path(query)
	if err != nil {
		return nil
	}
	return el.FindElementsPath(p)
}

// Element returns the first element matching query relative to el, nil if none
func (r *Resolver) Element(el *etree.Element, query string) *etree.Element {
	if el == nil {
		return nil
	}
	p, err := r.Path(query)
	if err != nil {
		return nil
	}
	return el.FindElementPath(p)
}

// Lookup returns inner text of the first element matching query and whether it was found
func (r *Resolver) Lookup(el *etree.Element, query string) (string, bool) {
	found := r.Element(el, query)
	if found == nil {
		return "", false
	}
	return InnerText(found), true
}

// String returns inner text of the first element matching query, or domain.Unresolvable if missing
func (r *Resolver) String(el *etree.Element, query string) string {
	if v, ok := r.Lookup(el, query); ok {
		return v
	}
	return domain.Unresolvable
}

// InnerText concatenates all character data of el and its descendants
func InnerText(el *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				sb.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return sb.String()
}

// Date parses s in any common date layout. Unparsable or missing values give zero time.
func Date(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == domain.Unresolvable {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Decimal parses s as decimal number. Unparsable or missing values give zero.
func Decimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

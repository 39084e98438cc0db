package mapping

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownNamespace is returned when a query names a namespace the table
	// does not declare.
	ErrUnknownNamespace = errors.New("unknown namespace")
	// ErrInvalidTable is returned when entities do not match the declared
	// namespaces or cannot be located while composing a derived table.
	ErrInvalidTable = errors.New("invalid mapping table")
)

// Kind identifies the sort of entity a name belongs to.
type Kind int

const (
	KindClass Kind = iota
	KindField
	KindMethod
	KindPackage
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindPackage:
		return "package"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Class is a class entity with one internal name per namespace.
type Class struct {
	Names   []string
	Fields  []*Field
	Methods []*Method

	fields  []map[string]*Field
	methods []map[string]*Method
}

// Field is a field entity. Descriptor is optional and, when set, is written in
// the table's first namespace.
type Field struct {
	Names      []string
	Descriptor string
}

// Method is a method entity. Descriptor is written in the table's first
// namespace.
type Method struct {
	Names      []string
	Descriptor string

	descriptors []string
}

// Package is a package entity, named without a trailing separator.
type Package struct {
	Names []string
}

// Table is an immutable multi-namespace mapping. Entities passed to NewTable
// are owned by the table and must not be modified afterwards.
type Table struct {
	namespaces []string
	index      map[string]int
	classes    []*Class
	packages   []*Package

	classIdx   []map[string]*Class
	packageIdx []map[string]*Package
}

// NewTable validates the entities against the declared namespaces and builds
// the lookup indexes for every namespace.
func NewTable(namespaces []string, classes []*Class, packages []*Package) (*Table, error) {
	if len(namespaces) < 2 {
		return nil, fmt.Errorf("%w: need at least two namespaces, got %d", ErrInvalidTable, len(namespaces))
	}

	t := &Table{
		namespaces: append([]string(nil), namespaces...),
		index:      make(map[string]int, len(namespaces)),
		classes:    classes,
		packages:   packages,
		classIdx:   make([]map[string]*Class, len(namespaces)),
		packageIdx: make([]map[string]*Package, len(namespaces)),
	}
	for i, ns := range namespaces {
		if ns == "" {
			return nil, fmt.Errorf("%w: empty namespace name at position %d", ErrInvalidTable, i)
		}
		if _, dup := t.index[ns]; dup {
			return nil, fmt.Errorf("%w: namespace %q declared twice", ErrInvalidTable, ns)
		}
		t.index[ns] = i
		t.classIdx[i] = make(map[string]*Class, len(classes))
		t.packageIdx[i] = make(map[string]*Package, len(packages))
	}

	n := len(namespaces)
	for _, c := range classes {
		if err := t.checkNames(KindClass, c.Names); err != nil {
			return nil, err
		}
		for i, name := range c.Names {
			if _, taken := t.classIdx[i][name]; !taken {
				t.classIdx[i][name] = c
			}
		}
	}

	// Member keys need the class index to express method descriptors in each
	// namespace, so members are indexed in a second pass.
	for _, c := range classes {
		c.fields = make([]map[string]*Field, n)
		c.methods = make([]map[string]*Method, n)
		for i := 0; i < n; i++ {
			c.fields[i] = make(map[string]*Field, len(c.Fields))
			c.methods[i] = make(map[string]*Method, len(c.Methods))
		}
		for _, f := range c.Fields {
			if err := t.checkNames(KindField, f.Names); err != nil {
				return nil, fmt.Errorf("class %q: %w", c.Names[0], err)
			}
			for i, name := range f.Names {
				if _, taken := c.fields[i][name]; !taken {
					c.fields[i][name] = f
				}
			}
		}
		for _, m := range c.Methods {
			if err := t.checkNames(KindMethod, m.Names); err != nil {
				return nil, fmt.Errorf("class %q: %w", c.Names[0], err)
			}
			m.descriptors = make([]string, n)
			for i, name := range m.Names {
				m.descriptors[i] = t.remapDescriptor(m.Descriptor, 0, i)
				key := name + m.descriptors[i]
				if _, taken := c.methods[i][key]; !taken {
					c.methods[i][key] = m
				}
			}
		}
	}

	for _, p := range packages {
		if err := t.checkNames(KindPackage, p.Names); err != nil {
			return nil, err
		}
		for i, name := range p.Names {
			if _, taken := t.packageIdx[i][name]; !taken {
				t.packageIdx[i][name] = p
			}
		}
	}

	return t, nil
}

func (t *Table) checkNames(kind Kind, names []string) error {
	if len(names) != len(t.namespaces) {
		first := ""
		if len(names) > 0 {
			first = names[0]
		}
		return fmt.Errorf("%w: %s %q has %d names, want %d", ErrInvalidTable, kind, first, len(names), len(t.namespaces))
	}
	return nil
}

// Namespaces returns the declared namespaces in declaration order.
func (t *Table) Namespaces() []string {
	return append([]string(nil), t.namespaces...)
}

// Has reports whether ns is declared by the table.
func (t *Table) Has(ns string) bool {
	_, ok := t.index[ns]
	return ok
}

// Classes returns the class entities in table order.
func (t *Table) Classes() []*Class {
	return append([]*Class(nil), t.classes...)
}

// Packages returns the package entities in table order.
func (t *Table) Packages() []*Package {
	return append([]*Package(nil), t.packages...)
}

// Map returns the pairwise view translating names from one namespace into
// another.
func (t *Table) Map(from, to string) (Mapping, error) {
	fi, ok := t.index[from]
	if !ok {
		return Mapping{}, fmt.Errorf("%w: %q", ErrUnknownNamespace, from)
	}
	ti, ok := t.index[to]
	if !ok {
		return Mapping{}, fmt.Errorf("%w: %q", ErrUnknownNamespace, to)
	}
	return Mapping{t: t, from: fi, to: ti}, nil
}

// remapClass translates an internal class name. Nested classes without an
// entry of their own keep their suffix and translate the enclosing class.
func (t *Table) remapClass(name string, from, to int) string {
	if c, ok := t.classIdx[from][name]; ok {
		return c.Names[to]
	}
	if i := strings.LastIndexByte(name, '$'); i > 0 {
		return t.remapClass(name[:i], from, to) + name[i:]
	}
	return name
}

// remapDescriptor rewrites every object type reference (L...;) in a field or
// method descriptor.
func (t *Table) remapDescriptor(desc string, from, to int) string {
	if from == to || strings.IndexByte(desc, 'L') < 0 {
		return desc
	}
	var b strings.Builder
	b.Grow(len(desc))
	for i := 0; i < len(desc); i++ {
		if desc[i] != 'L' {
			b.WriteByte(desc[i])
			continue
		}
		end := strings.IndexByte(desc[i:], ';')
		if end < 0 {
			b.WriteString(desc[i:])
			break
		}
		b.WriteByte('L')
		b.WriteString(t.remapClass(desc[i+1:i+end], from, to))
		b.WriteByte(';')
		i += end
	}
	return b.String()
}

// Mapping is a pairwise view over a Table.
type Mapping struct {
	t        *Table
	from, to int
}

func (m Mapping) From() string { return m.t.namespaces[m.from] }
func (m Mapping) To() string   { return m.t.namespaces[m.to] }

// RemapClass translates an internal class name. Unknown names are returned
// unchanged.
func (m Mapping) RemapClass(name string) string {
	return m.t.remapClass(name, m.from, m.to)
}

// RemapDescriptor translates every class reference inside a descriptor.
func (m Mapping) RemapDescriptor(desc string) string {
	return m.t.remapDescriptor(desc, m.from, m.to)
}

// RemapPackage translates a package name. Unknown names are returned unchanged.
func (m Mapping) RemapPackage(name string) string {
	if p, ok := m.t.packageIdx[m.from][name]; ok {
		return p.Names[m.to]
	}
	return name
}

// Package returns the package named name in the source namespace.
func (m Mapping) Package(name string) (*Package, bool) {
	p, ok := m.t.packageIdx[m.from][name]
	return p, ok
}

// Class returns the class named name in the source namespace.
func (m Mapping) Class(name string) (ClassMapping, bool) {
	c, ok := m.t.classIdx[m.from][name]
	if !ok {
		return ClassMapping{}, false
	}
	return ClassMapping{m: m, c: c}, true
}

// ClassMapping is one class seen through a Mapping.
type ClassMapping struct {
	m Mapping
	c *Class
}

func (c ClassMapping) Original() string { return c.c.Names[c.m.from] }
func (c ClassMapping) Mapped() string   { return c.c.Names[c.m.to] }

// Field returns the field named name in the source namespace.
func (c ClassMapping) Field(name string) (*Field, bool) {
	f, ok := c.c.fields[c.m.from][name]
	return f, ok
}

// Method returns the method with the given name and descriptor, both in the
// source namespace.
func (c ClassMapping) Method(name, desc string) (*Method, bool) {
	mt, ok := c.c.methods[c.m.from][name+desc]
	return mt, ok
}

// RemapField translates a field name, returning it unchanged when unknown.
func (c ClassMapping) RemapField(name string) string {
	if f, ok := c.Field(name); ok {
		return f.Names[c.m.to]
	}
	return name
}

// RemapMethod translates a method name, returning it unchanged when unknown.
func (c ClassMapping) RemapMethod(name, desc string) string {
	if mt, ok := c.Method(name, desc); ok {
		return mt.Names[c.m.to]
	}
	return name
}

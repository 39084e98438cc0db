package mapping

import "fmt"

// DeriveFunc yields the derived-namespace spelling of a name from the source
// namespace. Returning the input unchanged means the function has no better
// name for it.
type DeriveFunc func(kind Kind, name string) string

// Build returns primary extended with the runtime namespace, whose names are
// obtained by applying derive to the names of the source namespace.
//
// primary is returned unchanged when runtime equals source, when primary does
// not declare source, or when primary already declares runtime.
//
// The derived table declares [first, source, rest..., runtime], where first is
// the first non-source namespace of primary. Every entity must be locatable
// from first; a miss is reported as ErrInvalidTable.
func Build(primary *Table, source, runtime string, derive DeriveFunc) (*Table, error) {
	if runtime == source || !primary.Has(source) || primary.Has(runtime) {
		return primary, nil
	}
	if derive == nil {
		return nil, fmt.Errorf("%w: no derivation function for namespace %q", ErrInvalidTable, runtime)
	}

	filtered := make([]string, 0, len(primary.namespaces)-1)
	for _, ns := range primary.namespaces {
		if ns != source {
			filtered = append(filtered, ns)
		}
	}
	first := filtered[0]

	toSource, err := primary.Map(first, source)
	if err != nil {
		return nil, err
	}
	chain := make([]Mapping, 0, len(filtered)-1)
	for _, ns := range filtered[1:] {
		m, err := primary.Map(first, ns)
		if err != nil {
			return nil, err
		}
		chain = append(chain, m)
	}

	namespaces := make([]string, 0, len(primary.namespaces)+1)
	namespaces = append(namespaces, first, source)
	namespaces = append(namespaces, filtered[1:]...)
	namespaces = append(namespaces, runtime)

	fi, si := toSource.from, toSource.to
	classes := make([]*Class, 0, len(primary.classes))
	for _, cls := range primary.classes {
		orig, mapped := cls.Names[fi], cls.Names[si]
		names, err := chainNames(KindClass, orig, mapped, chain, func(m Mapping) (string, bool) {
			c, ok := m.Class(orig)
			if !ok {
				return "", false
			}
			return c.Mapped(), true
		})
		if err != nil {
			return nil, err
		}
		out := &Class{
			Names:   append(names, derive(KindClass, mapped)),
			Fields:  make([]*Field, 0, len(cls.Fields)),
			Methods: make([]*Method, 0, len(cls.Methods)),
		}

		for _, fd := range cls.Fields {
			fOrig, fMapped := fd.Names[fi], fd.Names[si]
			names, err := chainNames(KindField, orig+"."+fOrig, fMapped, chain, func(m Mapping) (string, bool) {
				c, ok := m.Class(orig)
				if !ok {
					return "", false
				}
				f, ok := c.Field(fOrig)
				if !ok {
					return "", false
				}
				return f.Names[m.to], true
			})
			if err != nil {
				return nil, err
			}
			names[0] = fOrig
			out.Fields = append(out.Fields, &Field{
				Names:      append(names, derive(KindField, fMapped)),
				Descriptor: primary.remapDescriptor(fd.Descriptor, 0, fi),
			})
		}

		for _, md := range cls.Methods {
			mOrig, mMapped, desc := md.Names[fi], md.Names[si], md.descriptors[fi]
			names, err := chainNames(KindMethod, orig+"."+mOrig+desc, mMapped, chain, func(m Mapping) (string, bool) {
				c, ok := m.Class(orig)
				if !ok {
					return "", false
				}
				mt, ok := c.Method(mOrig, desc)
				if !ok {
					return "", false
				}
				return mt.Names[m.to], true
			})
			if err != nil {
				return nil, err
			}
			names[0] = mOrig
			out.Methods = append(out.Methods, &Method{
				Names:      append(names, deriveMethodName(derive, mMapped)),
				Descriptor: desc,
			})
		}
		classes = append(classes, out)
	}

	packages := make([]*Package, 0, len(primary.packages))
	for _, pkg := range primary.packages {
		orig, mapped := pkg.Names[fi], pkg.Names[si]
		names, err := chainNames(KindPackage, orig, mapped, chain, func(m Mapping) (string, bool) {
			p, ok := m.Package(orig)
			if !ok {
				return "", false
			}
			return p.Names[m.to], true
		})
		if err != nil {
			return nil, err
		}
		// Packages are not renamed by the host; the derived spelling is the original.
		packages = append(packages, &Package{Names: append(names, orig)})
	}

	return NewTable(namespaces, classes, packages)
}

// deriveMethodName applies derive under the method rule and, when that leaves
// the name untouched, under the field rule. Record accessors are renamed as
// fields by some name functions.
func deriveMethodName(derive DeriveFunc, name string) string {
	mapped := derive(KindMethod, name)
	if mapped == name {
		mapped = derive(KindField, name)
	}
	return mapped
}

func chainNames(kind Kind, orig, mapped string, chain []Mapping, lookup func(Mapping) (string, bool)) ([]string, error) {
	names := make([]string, 0, len(chain)+3)
	names = append(names, orig, mapped)
	for _, m := range chain {
		name, ok := lookup(m)
		if !ok {
			return nil, fmt.Errorf("%w: %s %q is not locatable from namespace %q into %q", ErrInvalidTable, kind, orig, m.From(), m.To())
		}
		names = append(names, name)
	}
	return names, nil
}

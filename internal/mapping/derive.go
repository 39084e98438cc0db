package mapping

// NameTableDeriver builds a DeriveFunc from the from→to view of a table.
// Members are looked up by name alone, ignoring their owner; the first
// occurrence of a name wins. Names without an entry are returned unchanged.
func NameTableDeriver(table *Table, from, to string) (DeriveFunc, error) {
	m, err := table.Map(from, to)
	if err != nil {
		return nil, err
	}

	names := map[Kind]map[string]string{
		KindClass:   make(map[string]string, len(table.classes)),
		KindField:   make(map[string]string),
		KindMethod:  make(map[string]string),
		KindPackage: make(map[string]string, len(table.packages)),
	}
	put := func(kind Kind, entity []string) {
		if _, ok := names[kind][entity[m.from]]; !ok {
			names[kind][entity[m.from]] = entity[m.to]
		}
	}
	for _, c := range table.classes {
		put(KindClass, c.Names)
		for _, f := range c.Fields {
			put(KindField, f.Names)
		}
		for _, mt := range c.Methods {
			put(KindMethod, mt.Names)
		}
	}
	for _, p := range table.packages {
		put(KindPackage, p.Names)
	}

	return func(kind Kind, name string) string {
		if mapped, ok := names[kind][name]; ok {
			return mapped
		}
		return name
	}, nil
}

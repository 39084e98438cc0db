package testutil

// ObfSRGMappings is a tsrg2 table from obfuscated names into "srg" names.
// It carries a record component whose accessor method shares the field name.
const ObfSRGMappings = `tsrg2 obf srg
a/ net/example/
a/b net/example/Block
	a I f_10001_
	a (La/c;)V m_10001_
		static
		0 o p_10001_
	b ()I m_10002_
a/c net/example/Item
	a f_20001_
a/c$d net/example/Item$Properties
a/r net/example/Point
	a I f_30001_
	a ()I f_30001_
`

// SRGNamedMappings names every "srg" entity of ObfSRGMappings. The accessor
// of net/example/Point is only known by its field name.
const SRGNamedMappings = `tsrg2 srg named
net/example/Block net/example/Block
	f_10001_ hardness
	m_10001_ (Lnet/example/Item;)V onUse
	m_10002_ ()I getId
net/example/Item net/example/Item
	f_20001_ maxStack
net/example/Item$Properties net/example/Item$Properties
net/example/Point net/example/Point
	f_30001_ x
`

// ThreeNamespaceMappings declares src, mid and dst; none of them is the
// source namespace of a derived table.
const ThreeNamespaceMappings = `tsrg2 src mid dst
a/A m/A d/A
	f mf df
	g ()La/A; mg dg
`

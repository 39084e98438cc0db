package mapping

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTSRG_V1(t *testing.T) {
	src := `a/ net/
a/b net/Block
	a hardness
	b (La/b;)V onUse
a/c net/Item
`
	table, err := ReadTSRG(strings.NewReader(src))
	require.NoError(t, err)

	if diff := cmp.Diff([]string{TSRGLeft, TSRGRight}, table.Namespaces()); diff != "" {
		t.Errorf("Namespaces() mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, table.Classes(), 2)
	require.Len(t, table.Packages(), 1)
	assert.Equal(t, []string{"a", "net"}, table.Packages()[0].Names)

	block := table.Classes()[0]
	require.Len(t, block.Fields, 1)
	require.Len(t, block.Methods, 1)
	assert.Equal(t, []string{"b", "onUse"}, block.Methods[0].Names)
	assert.Equal(t, "(La/b;)V", block.Methods[0].Descriptor)
}

func TestReadTSRG_V2(t *testing.T) {
	src := `tsrg2 obf srg named
# header comment
a/b net/Block net/Block
	a I f_1 hardness   # trailing comment
	b (I)V m_1 onUse
		static
		0 o p_1 value
	c f_2 speed

a/c net/Item net/Item
`
	table, err := ReadTSRG(strings.NewReader(src))
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"obf", "srg", "named"}, table.Namespaces()); diff != "" {
		t.Errorf("Namespaces() mismatch (-want +got):\n%s", diff)
	}
	classes := table.Classes()
	require.Len(t, classes, 2)

	block := classes[0]
	require.Len(t, block.Fields, 2, "parameter and static lines are not members")
	require.Len(t, block.Methods, 1)
	assert.Equal(t, []string{"a", "f_1", "hardness"}, block.Fields[0].Names)
	assert.Equal(t, "I", block.Fields[0].Descriptor)
	assert.Equal(t, "", block.Fields[1].Descriptor)
	assert.Equal(t, []string{"b", "m_1", "onUse"}, block.Methods[0].Names)
}

func TestReadTSRG_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "empty stream", src: ""},
		{name: "only comments", src: "# nothing\n\n"},
		{name: "header with one namespace", src: "tsrg2 obf\n"},
		{name: "member before any class", src: "\ta f\n"},
		{name: "member after a package", src: "a/ net/\n\ta f\n"},
		{name: "class with too many names", src: "a b c\n"},
		{name: "member with too many tokens", src: "a b\n\tf g h i\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadTSRG(strings.NewReader(tc.src))
			require.ErrorIs(t, err, ErrMalformedMappings)
		})
	}
}

package mapping

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedMappings is returned when a TSRG stream cannot be parsed.
var ErrMalformedMappings = errors.New("malformed mappings")

// Namespaces assumed for TSRG v1 streams, which carry no header.
const (
	TSRGLeft  = "left"
	TSRGRight = "right"
)

// ReadTSRG parses a TSRG v1 or TSRG2 stream into a Table.
//
// TSRG2 streams start with a "tsrg2 ns1 ns2 ..." header. Classes and packages
// (names ending in '/') sit at column zero, fields and methods are indented by
// one tab and carry an optional descriptor in second position. Deeper lines
// (parameters, the static marker) are skipped.
func ReadTSRG(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		namespaces []string
		classes    []*Class
		packages   []*Package
		current    *Class
		lineNo     int
	)

	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: line %d: %s", ErrMalformedMappings, lineNo, fmt.Sprintf(format, args...))
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}

		if namespaces == nil {
			if fields := strings.Fields(raw); fields[0] == "tsrg2" {
				if len(fields) < 3 {
					return nil, fail("tsrg2 header needs at least two namespaces")
				}
				namespaces = fields[1:]
				continue
			}
			namespaces = []string{TSRGLeft, TSRGRight}
		}

		depth := len(raw) - len(strings.TrimLeft(raw, "\t"))
		tokens := strings.Fields(raw)
		n := len(namespaces)

		switch depth {
		case 0:
			if len(tokens) != n {
				return nil, fail("expected %d names, got %d", n, len(tokens))
			}
			if strings.HasSuffix(tokens[0], "/") {
				names := make([]string, n)
				for i, t := range tokens {
					names[i] = strings.TrimSuffix(t, "/")
				}
				packages = append(packages, &Package{Names: names})
				current = nil
				continue
			}
			current = &Class{Names: tokens}
			classes = append(classes, current)
		case 1:
			if current == nil {
				return nil, fail("member outside of a class")
			}
			switch {
			case len(tokens) == n:
				current.Fields = append(current.Fields, &Field{Names: tokens})
			case len(tokens) == n+1 && strings.HasPrefix(tokens[1], "("):
				current.Methods = append(current.Methods, &Method{
					Names:      append([]string{tokens[0]}, tokens[2:]...),
					Descriptor: tokens[1],
				})
			case len(tokens) == n+1:
				current.Fields = append(current.Fields, &Field{
					Names:      append([]string{tokens[0]}, tokens[2:]...),
					Descriptor: tokens[1],
				})
			default:
				return nil, fail("expected %d or %d tokens for a member, got %d", n, n+1, len(tokens))
			}
		default:
			// parameters and modifiers
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mappings: %w", err)
	}
	if namespaces == nil {
		return nil, fmt.Errorf("%w: empty stream", ErrMalformedMappings)
	}

	return NewTable(namespaces, classes, packages)
}

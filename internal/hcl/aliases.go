package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/bridgeloader/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// decodeAliases evaluates the aliases attribute. Each key maps to a string or
// a list of strings; an absent attribute yields nil.
func decodeAliases(expr hcl.Expression) (map[string][]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate aliases: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() || !(val.Type().IsObjectType() || val.Type().IsMapType()) {
		return nil, fmt.Errorf("%w: aliases must be an object, got %s", config.ErrInvalidConfig, val.Type().FriendlyName())
	}

	out := make(map[string][]string)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		id := k.AsString()

		if v.Type() == cty.String {
			v = cty.TupleVal([]cty.Value{v})
		}
		list, err := convert.Convert(v, cty.List(cty.String))
		if err != nil {
			return nil, fmt.Errorf("%w: aliases of %q: %v", config.ErrInvalidConfig, id, err)
		}
		if list.IsNull() {
			continue
		}
		for _, item := range list.AsValueSlice() {
			if item.IsNull() {
				return nil, fmt.Errorf("%w: aliases of %q contain null", config.ErrInvalidConfig, id)
			}
			out[id] = append(out[id], item.AsString())
		}
	}
	return out, nil
}

package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decode converts val to the wanted cty type and then into the Go value goVal
// points at.
func decode(val cty.Value, want cty.Type, goVal any) error {
	if !val.IsWhollyKnown() {
		return fmt.Errorf("value must be known at load time")
	}

	converted, err := convert.Convert(val, want)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), want.FriendlyName(), err)
	}

	return gocty.FromCtyValue(converted, goVal)
}

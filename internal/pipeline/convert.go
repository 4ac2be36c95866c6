package pipeline

import (
	"fmt"

	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/conversion"
	"github.com/torchlit/buildcalc/internal/modifier"
)

// extractConversionRules reads every extra.<src>_as_<dst> and
// conv.<src>_to_<dst> key the modifier store carries (as aggregated
// BASE_ADD fractions) and turns the nonzero ones into the rule lists the
// conversion engine's two phases consume. conv rules are only extracted
// for forward DAG edges; extra-as has no such restriction.
func extractConversionRules(store *modifier.Store, ctx *condition.Context) ([]conversion.ExtraAsRule, []conversion.ConversionRule) {
	var extraAs []conversion.ExtraAsRule
	var conversions []conversion.ConversionRule

	types := conversion.CanonicalOrder()
	for _, src := range types {
		for _, dst := range types {
			if src == dst {
				continue
			}
			extraKey := fmt.Sprintf("extra.%s_as_%s", src, dst)
			if v := store.SumBase(extraKey, ctx); v != 0 {
				extraAs = append(extraAs, conversion.ExtraAsRule{Src: src, Dst: dst, Value: v})
			}
			if conversion.IsForwardEdge(src, dst) {
				convKey := fmt.Sprintf("conv.%s_to_%s", src, dst)
				if v := store.SumBase(convKey, ctx); v != 0 {
					conversions = append(conversions, conversion.ConversionRule{Src: src, Dst: dst, Value: v})
				}
			}
		}
	}
	return extraAs, conversions
}

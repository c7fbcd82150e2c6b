package catalog

import (
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// NaturalSort sorts names so embedded numbers compare by value and text
// compares case-insensitively: "hero_2" < "hero_10" < "Hero_11". Names that
// differ only in case keep a byte-wise order.
func NaturalSort(names []string) {
	slices.SortStableFunc(names, naturalCompare)
}

func naturalCompare(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	switch {
	case natural.Less(la, lb):
		return -1
	case natural.Less(lb, la):
		return 1
	}
	return strings.Compare(a, b)
}

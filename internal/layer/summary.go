package layer

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"github.com/stax-ml/stax/internal/tensor"
)

// Summary renders the tree rooted at l with trainable parameter counts taken
// from the cached weights. An instance appearing at several positions is
// counted once; later occurrences are marked shared.
func Summary(l Layer) string {
	var b strings.Builder
	seen := map[uuid.UUID]bool{}
	total := summarize(&b, l, 0, seen)
	fmt.Fprintf(&b, "Total params: %s\n", humanize.Comma(int64(total)))
	return b.String()
}

// CountParams returns the number of trainable parameters cached in the tree
// rooted at l, counting shared instances once.
func CountParams(l Layer) int {
	return countParams(l, map[uuid.UUID]bool{})
}

func countParams(l Layer, seen map[uuid.UUID]bool) int {
	if seen[l.base().id] {
		return 0
	}
	seen[l.base().id] = true
	subs := l.Sublayers()
	if len(subs) == 0 {
		return numElements(l.base().weights)
	}
	n := 0
	for _, sub := range subs {
		n += countParams(sub, seen)
	}
	return n
}

func summarize(b *strings.Builder, l Layer, depth int, seen map[uuid.UUID]bool) int {
	indent := strings.Repeat("  ", depth)
	if seen[l.base().id] {
		fmt.Fprintf(b, "%s%s (shared)\n", indent, l.Name())
		return 0
	}
	n := countParams(l, maps.Clone(seen))
	fmt.Fprintf(b, "%s%s in=%d out=%d params=%s\n", indent, l.Name(), l.NIn(), l.NOut(), humanize.Comma(int64(n)))

	seen[l.base().id] = true
	for _, sub := range l.Sublayers() {
		summarize(b, sub, depth+1, seen)
	}
	return n
}

func numElements(v tensor.Value) int {
	n := 0
	for _, leaf := range tensor.Leaves(v) {
		n += tensor.SignatureOf(leaf).(tensor.Signature).NumElements()
	}
	return n
}

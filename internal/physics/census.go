package physics

import "github.com/san-kum/solarsim/internal/cosmos"

// Census counts the directed pairs per interaction, self-pairs excluded.
func Census(bodies []*cosmos.Body) map[Interaction]int {
	out := make(map[Interaction]int)
	for _, self := range bodies {
		for _, other := range bodies {
			if self == other {
				continue
			}
			out[Classify(self, other)]++
		}
	}
	return out
}

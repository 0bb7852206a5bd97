package debate

import (
	"fmt"
	"strings"
)

// Render formats entries as the transcript fed into the next prompt: one
// "<Side> (<TurnLabel>): <text>" block per entry, separated by a blank line.
func Render(entries []Entry) string {
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = fmt.Sprintf("%s (%s): %s", e.Side, e.TurnLabel, e.Text)
	}
	return strings.Join(blocks, "\n\n")
}

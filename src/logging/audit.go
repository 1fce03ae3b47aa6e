package logging

import (
	"fmt"
	"log"
)

// Action writes one audit line for a user-triggered action.
func Action(module, actorID, format string, args ...any) {
	log.Printf("%s: [%s] %s", module, actorID, fmt.Sprintf(format, args...))
}

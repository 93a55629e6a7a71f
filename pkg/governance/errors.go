package governance

import "fmt"

// errNoMemoryStore builds the sentinel error every governance agent
// returns when invoked without a memory store (RunRequest.Memory == nil).
func errNoMemoryStore(agentName string) error {
	return fmt.Errorf("%s: no memory store configured", agentName)
}

package agents

import "errors"

// errNoMemoryStore is returned by agents that require a memory store but
// were invoked without one (RunRequest.Memory == nil).
var errNoMemoryStore = errors.New("agents: no memory store configured")

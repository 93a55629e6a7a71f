package config

import "os"

// ExpandEnv expands ${VAR} and $VAR references in YAML content using the
// process environment before parsing, so secrets (DB passwords, LLM auth
// tokens) never need to live in the file itself. Missing variables expand
// to the empty string; validation is responsible for catching the fallout.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

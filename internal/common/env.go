//nolint:revive // common is an appropriate name for shared utilities package
package common

import "strings"

// ParseEnvVariable splits a "KEY=VALUE" entry as found in os.Environ.
// An entry without '=' or with an empty key is rejected; an empty value is
// accepted.
func ParseEnvVariable(env string) (key, value string, ok bool) {
	key, value, found := strings.Cut(env, "=")
	if !found || key == "" {
		return "", "", false
	}
	return key, value, true
}

//nolint:revive // common is an appropriate name for shared utilities package
package common

import "os"

// UnknownHostFallback names the host when os.Hostname fails.
const UnknownHostFallback = "unknown-host"

// osHostname is swapped out by tests to exercise the fallback.
var osHostname = os.Hostname

// GetHostname returns the machine's hostname, or UnknownHostFallback.
func GetHostname() string {
	hostname, err := osHostname()
	if err != nil || hostname == "" {
		return UnknownHostFallback
	}
	return hostname
}

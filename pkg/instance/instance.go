package instance

import "github.com/demolux/storefront/pkg/env"

// GetID returns the identifier of this process for logs:
// DEMOLUX_INSTANCE_ID, then the platform dyno or host name, then "local".
func GetID() string {
	return env.First("local", "DEMOLUX_INSTANCE_ID", "DYNO", "HOSTNAME")
}

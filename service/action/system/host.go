// Package system groups services that touch the underlying operating system.
package system

import "github.com/viant/afs/url"

// Host identifies where commands execute. The zero value (or an empty URL)
// means the local machine; any other URL selects an SSH session whose
// credentials are resolved through the secrets service.
type Host struct {
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Credentials string `json:"credentials,omitempty" yaml:"credentials,omitempty"`
}

// IsLocal reports whether commands should run on the local machine.
func (h *Host) IsLocal() bool {
	if h == nil || h.URL == "" {
		return true
	}
	return url.Host(h.URL) == "localhost"
}

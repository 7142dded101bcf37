// File: core/adapter/scope.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapter

import (
	"net/url"
	"strings"
	"time"

	"github.com/momentics/wsbridge/api"
)

// buildScope derives the immutable per-connection scope from the
// handshake request. The path is percent-decoded; the query string is
// split off and left encoded. The injected host header comes first,
// followed by the original headers in wire order.
func (a *Adapter) buildScope(req api.HandshakeRequest, start time.Time) *api.Scope {
	path, query, _ := strings.Cut(req.Target, "?")
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}

	headers := make([]api.Header, 0, len(req.Headers)+1)
	headers = append(headers, api.Header{Name: "host", Value: req.Host})
	headers = append(headers, req.Headers...)

	subprotocols := make([]string, len(req.Subprotocols))
	copy(subprotocols, req.Subprotocols)

	return &api.Scope{
		Scheme:               a.opts.Scheme,
		Path:                 path,
		RawQuery:             query,
		RootPath:             a.opts.RootPath,
		Headers:              headers,
		Client:               a.opts.Client,
		Server:               a.opts.Server,
		Subprotocols:         subprotocols,
		SupportsHTTPResponse: true,
		Start:                start,
	}
}

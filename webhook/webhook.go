package webhook

import (
	"net/http"
	"time"
)

/* Delivery is one inbound webhook request as received from the processor
 * Uses value semantics as it represents data, not behavior
 * Body is the exact raw body; the signature is computed over these bytes.
 */
type Delivery struct {
	Body       []byte
	Headers    map[string]string
	ReceivedAt time.Time
}

// NewDelivery builds a Delivery from an HTTP header set, keeping the first value of each header
func NewDelivery(body []byte, header http.Header, receivedAt time.Time) Delivery {
	headers := make(map[string]string, len(header))
	for name, values := range header {
		if len(values) > 0 {
			headers[http.CanonicalHeaderKey(name)] = values[0]
		}
	}
	return Delivery{
		Body:       body,
		Headers:    headers,
		ReceivedAt: receivedAt,
	}
}

// Header returns the value of the named header, matched case-insensitively
func (d Delivery) Header(name string) string {
	if v, ok := d.Headers[name]; ok {
		return v
	}
	if v, ok := d.Headers[http.CanonicalHeaderKey(name)]; ok {
		return v
	}
	for k, v := range d.Headers {
		if http.CanonicalHeaderKey(k) == http.CanonicalHeaderKey(name) {
			return v
		}
	}
	return ""
}

package livedns

// Zone represents a LiveDNS zone
type Zone struct {
	UUID            string `json:"uuid"`
	Name            string `json:"name"`
	ZoneHref        string `json:"zone_href"`
	ZoneRecordsHref string `json:"zone_records_href"`
	DomainsHref     string `json:"domains_href"`
}

// Domain is a domain name attached to a zone
type Domain struct {
	FQDN string `json:"fqdn"`
}

// Record represents a DNS record set of a zone
type Record struct {
	Type   string   `json:"rrset_type"`
	TTL    int      `json:"rrset_ttl"`
	Name   string   `json:"rrset_name"`
	Values []string `json:"rrset_values"`
	Href   string   `json:"rrset_href,omitempty"`
}

// Message is the body LiveDNS sends back on writes
type Message struct {
	Message string `json:"message"`
	UUID    string `json:"uuid,omitempty"`
}

// CreateResult is the outcome of a zone creation request that did not fail with >= 400
type CreateResult struct {
	StatusCode int
	UUID       string
	Body       []byte
}

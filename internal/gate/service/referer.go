package service

import (
	"net/url"
	"strings"
)

// RefererPolicy is the anti-hotlinking allow-list. It fails closed: no
// referer, an unparseable referer, or a host outside the configured
// domains all reject.
type RefererPolicy struct {
	domains []string
}

// NewRefererPolicy normalizes the configured domains (lowercase, trimmed,
// empties dropped).
func NewRefererPolicy(domains []string) *RefererPolicy {
	p := &RefererPolicy{}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			p.domains = append(p.domains, d)
		}
	}
	return p
}

// Allow reports whether the referer's hostname is an allowed domain or a
// true dot-separated subdomain of one. "evildramatize.example" does not
// match "dramatize.example"; "www.dramatize.example" does.
func (p *RefererPolicy) Allow(referer string) bool {
	if referer == "" {
		return false
	}

	u, err := url.Parse(referer)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	for _, domain := range p.domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// ipAllowList matches client addresses against single IPs and CIDR ranges
type ipAllowList struct {
	addrs    []netip.Addr
	prefixes []netip.Prefix
}

// parseAllowList ignores malformed entries
func parseAllowList(entries []string) ipAllowList {
	var l ipAllowList
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if strings.Contains(e, "/") {
			if p, err := netip.ParsePrefix(e); err == nil {
				l.prefixes = append(l.prefixes, p.Masked())
			}
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			l.addrs = append(l.addrs, a.Unmap())
		}
	}
	return l
}

func (l ipAllowList) empty() bool { return len(l.addrs) == 0 && len(l.prefixes) == 0 }

func (l ipAllowList) allows(raw string) bool {
	ip, err := netip.ParseAddr(raw)
	if err != nil {
		return false
	}
	ip = ip.Unmap()
	for _, a := range l.addrs {
		if a == ip {
			return true
		}
	}
	for _, p := range l.prefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// SwaggerProtection hides the API docs unless enabled and, when an
// allow-list is configured, serves them only to listed client IPs.
func SwaggerProtection(cfg config.SwaggerConfig) gin.HandlerFunc {
	allow := parseAllowList(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
			return
		}
		if !allow.empty() && !allow.allows(c.ClientIP()) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access to API documentation is restricted")
			return
		}
		c.Next()
	}
}

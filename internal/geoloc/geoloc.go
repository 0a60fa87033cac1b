// Package geoloc resolves client IPs to coarse locations backed by a
// MaxMind city database.
package geoloc

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/oschwald/geoip2-golang"

	"github.com/hikariosu/hikari/internal/country"
)

// Country is the flag identity sent in presence packets.
type Country struct {
	Code    uint8
	Acronym string
}

// Geolocation is a resolved client location. The placeholder country
// ("xx", code 0) renders as no flag.
type Geolocation struct {
	IP      string
	Long    float32
	Lat     float32
	Country Country
}

// Resolver looks up locations in a MaxMind database and caches results
// per IP. A Resolver without a database still works, returning
// placeholder locations.
type Resolver struct {
	db *geoip2.Reader

	mu    sync.RWMutex
	cache map[string]Geolocation
}

func NewResolver(path string) (*Resolver, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening geolocation database %s: %w", path, err)
	}

	return &Resolver{db: db, cache: make(map[string]Geolocation)}, nil
}

// NewEmptyResolver returns a resolver without a database, for setups
// that run without the mmdb file.
func NewEmptyResolver() *Resolver {
	return &Resolver{cache: make(map[string]Geolocation)}
}

func (r *Resolver) Close() error {
	if r.db == nil {
		return nil
	}

	return r.db.Close()
}

// FromRequest resolves the client behind req, honoring proxy headers.
func (r *Resolver) FromRequest(req *http.Request) Geolocation {
	return r.Lookup(ClientIP(req))
}

// Lookup resolves a single IP, consulting the cache first.
func (r *Resolver) Lookup(ip string) Geolocation {
	r.mu.RLock()
	geo, ok := r.cache[ip]
	r.mu.RUnlock()
	if ok {
		return geo
	}

	geo = r.resolve(ip)

	r.mu.Lock()
	r.cache[ip] = geo
	r.mu.Unlock()

	return geo
}

func (r *Resolver) resolve(ip string) Geolocation {
	geo := Geolocation{IP: ip, Country: Country{Acronym: "xx"}}
	if r.db == nil {
		return geo
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return geo
	}

	city, err := r.db.City(parsed)
	if err != nil {
		return geo
	}

	if acronym := strings.ToLower(city.Country.IsoCode); acronym != "" {
		geo.Country = Country{Code: country.Code(acronym), Acronym: acronym}
	}
	geo.Long = float32(city.Location.Longitude)
	geo.Lat = float32(city.Location.Latitude)

	return geo
}

// ClientIP extracts the client address from proxy headers: the
// Cloudflare header first, then the first hop of a multi-hop
// X-Forwarded-For chain, then X-Real-IP, then the socket address.
func ClientIP(req *http.Request) string {
	if ip := req.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}

	forwards := strings.Split(req.Header.Get("X-Forwarded-For"), ",")
	if len(forwards) > 1 {
		return strings.TrimSpace(forwards[0])
	}
	if ip := req.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(forwards[0]); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}

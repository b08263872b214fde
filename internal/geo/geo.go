package geo

import (
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/Artin0123/API-backend/internal/domain"
)

// Lookup maps an IP address to a location. Implementations never fail:
// anything unresolvable comes back as an empty Location.
type Lookup interface {
	Lookup(ip string) domain.Location
}

// Reader resolves locations from a MaxMind database. The zero value (or a
// Reader opened with an empty path) is a disabled lookup that always
// returns an empty Location.
type Reader struct {
	db *geoip2.Reader
}

// Open opens the database at path. An empty path returns a disabled
// Reader rather than an error, so geo enrichment stays optional.
func Open(path string) (*Reader, error) {
	if path == "" {
		return &Reader{}, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Reader) Lookup(ip string) domain.Location {
	if r.db == nil {
		return domain.Location{}
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return domain.Location{}
	}

	record, err := r.db.City(parsed)
	if err != nil {
		return domain.Location{}
	}

	loc := domain.Location{
		Country: record.Country.IsoCode,
		City:    record.City.Names["en"],
	}
	if len(record.Subdivisions) > 0 {
		loc.Region = record.Subdivisions[0].IsoCode
	}
	return loc
}

// Package navigation models the address page location and keeps it
// canonical once the identifier it names is resolved.
package navigation

import (
	"fmt"
	"net/url"
	"strings"
)

const ADDRESS_PREFIX = "/address/"

// Location is /address/<identifier>[/<suffix>][?<query>]. RawQuery is kept
// as typed, parameter order and valueless keys included.
type Location struct {
	Identifier string
	Suffix     string
	RawQuery   string
}

// ParseLocation accepts a path with or without the /address/ prefix and an
// optional query string.
func ParseLocation(raw string) (Location, error) {
	path, rawQuery, _ := strings.Cut(raw, "?")
	if _, err := url.ParseQuery(rawQuery); err != nil {
		return Location{}, fmt.Errorf("invalid query %q: %w", rawQuery, err)
	}
	path = strings.TrimPrefix(path, ADDRESS_PREFIX)
	path = strings.TrimPrefix(path, "/")
	identifier, suffix, _ := strings.Cut(path, "/")
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Location{}, fmt.Errorf("location %q has no identifier", raw)
	}
	return Location{
		Identifier: identifier,
		Suffix:     suffix,
		RawQuery:   rawQuery,
	}, nil
}

// Path is the location without its query.
func (l Location) Path() string {
	path := ADDRESS_PREFIX + l.Identifier
	if l.Suffix != "" {
		path += "/" + l.Suffix
	}
	return path
}

func (l Location) String() string {
	if l.RawQuery == "" {
		return l.Path()
	}
	return l.Path() + "?" + l.RawQuery
}

// Query parses RawQuery for lookups. Rendering always uses RawQuery.
func (l Location) Query() url.Values {
	query, _ := url.ParseQuery(l.RawQuery)
	return query
}

// WithParam returns a copy of l with key=value appended to the query.
func (l Location) WithParam(key, value string) Location {
	param := url.QueryEscape(key) + "=" + url.QueryEscape(value)
	if l.RawQuery != "" {
		param = l.RawQuery + "&" + param
	}
	l.RawQuery = param
	return l
}

// WithIdentifier returns a copy of l naming identifier, suffix and query
// kept.
func (l Location) WithIdentifier(identifier string) Location {
	l.Identifier = identifier
	return l
}

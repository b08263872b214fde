package resolver

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Artin0123/API-backend/internal/domain"
	"github.com/Artin0123/API-backend/internal/geo"
	"github.com/Artin0123/API-backend/internal/uaparse"
)

// Caps applied to client-supplied strings before they reach any sink.
// The payload is unauthenticated, so nothing is stored unbounded.
const (
	maxFieldLen = 256
	maxFontsLen = 1024
)

const defaultDeviceType = "desktop"

// Resolver merges transport data, the client payload and the enrichment
// capabilities into one normalized ClientInfo. Resolve is a total
// function: malformed or missing input degrades to the documented default
// for each field, never to an error.
type Resolver struct {
	geo geo.Lookup
	ua  uaparse.Parser
}

func New(geoLookup geo.Lookup, uaParser uaparse.Parser) *Resolver {
	return &Resolver{geo: geoLookup, ua: uaParser}
}

func (r *Resolver) Resolve(req domain.VisitRequest) domain.ClientInfo {
	info := domain.ClientInfo{SourceType: req.Source}

	info.IPAddress = ExtractIP(req.Header, req.RemoteAddr)

	var loc domain.Location
	if info.IPAddress != domain.UnknownValue {
		loc = r.geo.Lookup(info.IPAddress)
	}
	info.Country = orUnknown(loc.Country)
	info.Region = orUnknown(loc.Region)
	info.City = orUnknown(loc.City)

	agent := r.ua.Parse(req.Header.Get("User-Agent"))
	info.BrowserName = orUnknown(agent.BrowserName)
	info.BrowserVersion = orUnknown(agent.BrowserVersion)
	info.OSName = orUnknown(agent.OSName)
	info.OSVersion = orUnknown(agent.OSVersion)
	info.DeviceType = orDefault(agent.DeviceType, defaultDeviceType)
	info.DeviceVendor = orUnknown(agent.DeviceVendor)

	applyScriptFields(&info, req.Payload, req.Source)

	info.NavigatorLanguage = resolveLanguage(req)

	return info
}

// fieldRule describes one script-observable attribute: the value forced on
// the beacon path and the fallback used when a collector payload omits the
// key or supplies something unusable. The fallback's type decides how the
// payload value is coerced.
type fieldRule struct {
	key           string
	beaconDefault any
	fallback      any
	maxLen        int
	set           func(c *domain.ClientInfo, v any)
}

// scriptFieldRules is the single table behind the beacon-degradation rule.
// Attributes listed here cannot be observed without client script, so the
// beacon path never trusts query parameters for them.
func scriptFieldRules() []fieldRule {
	return []fieldRule{
		{"timezone", domain.PlaceholderValue, domain.UnknownValue, maxFieldLen,
			func(c *domain.ClientInfo, v any) { c.Timezone = v.(string) }},
		{"local_time", domain.PlaceholderValue, domain.UnknownValue, maxFieldLen,
			func(c *domain.ClientInfo, v any) { c.LocalTime = v.(string) }},
		{"utc_offset", serverUTCOffset(), serverUTCOffset(), 0,
			func(c *domain.ClientInfo, v any) { c.UTCOffset = v.(int) }},
		{"fonts_available", domain.UnknownValue, domain.UnknownValue, maxFontsLen,
			func(c *domain.ClientInfo, v any) { c.FontsAvailable = v.(string) }},
		{"screen_width", 0, 0, 0,
			func(c *domain.ClientInfo, v any) { c.ScreenWidth = v.(int) }},
		{"screen_height", 0, 0, 0,
			func(c *domain.ClientInfo, v any) { c.ScreenHeight = v.(int) }},
		{"screen_color_depth", 0, 0, 0,
			func(c *domain.ClientInfo, v any) { c.ScreenColorDepth = v.(int) }},
		{"device_pixel_ratio", 1.0, 1.0, 0,
			func(c *domain.ClientInfo, v any) { c.DevicePixelRatio = v.(float64) }},
		{"hardware_concurrency", 0, 0, 0,
			func(c *domain.ClientInfo, v any) { c.HardwareConcurrency = v.(int) }},
		{"max_touch_points", 0, 0, 0,
			func(c *domain.ClientInfo, v any) { c.MaxTouchPoints = v.(int) }},
		{"cookie_enabled", false, false, 0,
			func(c *domain.ClientInfo, v any) { c.CookieEnabled = v.(bool) }},
		{"connection_type", domain.PlaceholderValue, domain.PlaceholderValue, maxFieldLen,
			func(c *domain.ClientInfo, v any) { c.ConnectionType = v.(string) }},
		{"connection_effective_type", domain.PlaceholderValue, domain.PlaceholderValue, maxFieldLen,
			func(c *domain.ClientInfo, v any) { c.ConnectionEffectiveType = v.(string) }},
		{"connection_rtt", 0, 0, 0,
			func(c *domain.ClientInfo, v any) { c.ConnectionRTT = v.(int) }},
	}
}

func applyScriptFields(info *domain.ClientInfo, payload map[string]any, source domain.SourceType) {
	for _, rule := range scriptFieldRules() {
		if source != domain.SourcePOST {
			rule.set(info, rule.beaconDefault)
			continue
		}
		rule.set(info, coerce(payload[rule.key], rule.fallback, rule.maxLen))
	}
}

// coerce converts a payload value to the fallback's type. Anything that
// does not convert cleanly yields the fallback.
func coerce(v any, fallback any, maxLen int) any {
	switch fallback.(type) {
	case string:
		if s, ok := stringValue(v, maxLen); ok {
			return s
		}
	case int:
		if n, ok := intValue(v); ok {
			return n
		}
	case float64:
		if f, ok := floatValue(v); ok {
			return f
		}
	case bool:
		if b, ok := boolValue(v); ok {
			return b
		}
	}
	return fallback
}

// stringValue accepts non-empty strings other than the literal "Unknown",
// truncated to max runes.
func stringValue(v any, max int) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || s == domain.UnknownValue {
		return "", false
	}
	if runes := []rune(s); len(runes) > max {
		s = string(runes[:max])
	}
	return s, true
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func floatValue(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case int:
		return float64(f), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func boolValue(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return false, false
}

// ExtractIP resolves the originating address: X-Forwarded-For first, then
// X-Real-IP, then the transport remote address. The first comma-separated
// token wins, and an IPv4-mapped-IPv6 prefix is stripped.
func ExtractIP(header http.Header, remoteAddr string) string {
	candidate := header.Get("X-Forwarded-For")
	if candidate == "" {
		candidate = header.Get("X-Real-IP")
	}
	if candidate == "" {
		if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
			candidate = host
		} else {
			candidate = remoteAddr
		}
	}

	if idx := strings.Index(candidate, ","); idx != -1 {
		candidate = candidate[:idx]
	}
	candidate = strings.TrimSpace(candidate)
	candidate = strings.TrimPrefix(candidate, "::ffff:")

	if candidate == "" {
		return domain.UnknownValue
	}
	return candidate
}

// resolveLanguage prefers the script-reported language on the collector
// path and falls back to the first Accept-Language entry.
func resolveLanguage(req domain.VisitRequest) string {
	if req.Source == domain.SourcePOST {
		if lang, ok := stringValue(req.Payload["navigator_language"], maxFieldLen); ok {
			return lang
		}
	}
	if lang := firstAcceptLanguage(req.Header.Get("Accept-Language")); lang != "" {
		return lang
	}
	return domain.UnknownValue
}

func firstAcceptLanguage(header string) string {
	if idx := strings.Index(header, ","); idx != -1 {
		header = header[:idx]
	}
	if idx := strings.Index(header, ";"); idx != -1 {
		header = header[:idx]
	}
	return strings.TrimSpace(header)
}

func serverUTCOffset() int {
	_, seconds := time.Now().Zone()
	return seconds / 60
}

func orUnknown(s string) string {
	return orDefault(s, domain.UnknownValue)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

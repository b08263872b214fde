package domain

import (
	"net/http"
	"time"
)

// SourceType tells which ingestion path recorded the visit: the no-script
// image beacon (GET) or the script-submitted collector payload (POST).
type SourceType string

const (
	SourceGET  SourceType = "GET"
	SourcePOST SourceType = "POST"
)

// Placeholder values shared by the resolver and the display layer.
const (
	UnknownValue     = "Unknown"
	PlaceholderValue = " - "
)

// Location is the result of a geo lookup. Empty fields mean the IP could
// not be resolved.
type Location struct {
	Country string
	Region  string
	City    string
}

// Agent is the result of parsing a User-Agent string. Empty fields mean
// the attribute could not be determined.
type Agent struct {
	BrowserName    string
	BrowserVersion string
	OSName         string
	OSVersion      string
	DeviceType     string
	DeviceVendor   string
}

// ClientInfo is the normalized per-request fingerprint. Every field always
// holds a value: the resolver substitutes the documented default whenever
// the request cannot supply one.
type ClientInfo struct {
	IPAddress string `json:"ip_address"`

	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`

	Timezone  string `json:"timezone"`
	LocalTime string `json:"local_time"`
	UTCOffset int    `json:"utc_offset"`

	BrowserName    string `json:"browser_name"`
	BrowserVersion string `json:"browser_version"`
	OSName         string `json:"os_name"`
	OSVersion      string `json:"os_version"`
	DeviceType     string `json:"device_type"`
	DeviceVendor   string `json:"device_vendor"`

	NavigatorLanguage string `json:"navigator_language"`
	FontsAvailable    string `json:"fonts_available"`

	ScreenWidth      int     `json:"screen_width"`
	ScreenHeight     int     `json:"screen_height"`
	ScreenColorDepth int     `json:"screen_color_depth"`
	DevicePixelRatio float64 `json:"device_pixel_ratio"`

	HardwareConcurrency int  `json:"hardware_concurrency"`
	MaxTouchPoints      int  `json:"max_touch_points"`
	CookieEnabled       bool `json:"cookie_enabled"`

	ConnectionType          string `json:"connection_type"`
	ConnectionEffectiveType string `json:"connection_effective_type"`
	ConnectionRTT           int    `json:"connection_rtt"`

	SourceType SourceType `json:"source_type"`
}

// VisitorRecord is a persisted visitor row. The ClientInfo fields are the
// first-seen snapshot; repeat visits only move LastVisit and VisitCount.
type VisitorRecord struct {
	ID            int64 `json:"id"`
	VisitorNumber int   `json:"visitor_number"`
	ClientInfo
	LastVisit  time.Time `json:"last_visit"`
	VisitCount int       `json:"visit_count"`
}

// VisitRequest carries the raw transport data of one inbound hit.
// Payload is the client-supplied key/value map: query parameters for the
// beacon path, the decoded JSON body for the collector path. It may be nil.
type VisitRequest struct {
	RemoteAddr string
	Header     http.Header
	Payload    map[string]any
	Source     SourceType
}

// VisitResult is returned after a hit has been recorded.
type VisitResult struct {
	VisitorNumber int
	NewVisitor    bool
	VisitorKey    string
}

// UpsertResult is returned by the visitor store.
type UpsertResult struct {
	VisitorNumber int
	NewVisitor    bool
}

// ListVisitorsRequest holds the admin listing window.
type ListVisitorsRequest struct {
	Limit  int `form:"limit" validate:"gte=1,lte=500"`
	Offset int `form:"offset" validate:"gte=0"`
}

package uaparse

import (
	"strings"

	"github.com/mssola/user_agent"

	"github.com/Artin0123/API-backend/internal/domain"
)

// Parser extracts browser, OS and device attributes from a User-Agent
// string. Fields that cannot be determined are left empty; the resolver
// substitutes its defaults.
type Parser interface {
	Parse(uaString string) domain.Agent
}

type DefaultParser struct{}

func NewParser() *DefaultParser {
	return &DefaultParser{}
}

func (p *DefaultParser) Parse(uaString string) domain.Agent {
	if uaString == "" {
		return domain.Agent{}
	}

	ua := user_agent.New(uaString)

	name, version := ua.Browser()
	osInfo := ua.OSInfo()

	return domain.Agent{
		BrowserName:    name,
		BrowserVersion: version,
		OSName:         osInfo.Name,
		OSVersion:      osInfo.Version,
		DeviceType:     detectDeviceType(uaString, ua),
		DeviceVendor:   detectDeviceVendor(uaString),
	}
}

var (
	tabletKeywords  = []string{"tablet", "ipad", "kindle", "silk"}
	mobileKeywords  = []string{"mobile", "iphone", "ipod", "android", "blackberry", "windows phone"}
	desktopKeywords = []string{"windows", "macintosh", "x11", "linux", "cros"}
)

func detectDeviceType(uaString string, ua *user_agent.UserAgent) string {
	lower := strings.ToLower(uaString)

	if ua.Bot() {
		return "bot"
	}

	for _, keyword := range tabletKeywords {
		if strings.Contains(lower, keyword) {
			return "tablet"
		}
	}

	// Android without "mobile" is a tablet by convention.
	if strings.Contains(lower, "android") && !strings.Contains(lower, "mobile") {
		return "tablet"
	}

	if ua.Mobile() {
		return "mobile"
	}
	for _, keyword := range mobileKeywords {
		if strings.Contains(lower, keyword) {
			return "mobile"
		}
	}

	for _, keyword := range desktopKeywords {
		if strings.Contains(lower, keyword) {
			return "desktop"
		}
	}

	return ""
}

// vendorKeywords maps UA substrings to device vendors, most specific
// first. Brand tokens follow common mobile UA patterns.
var vendorKeywords = []struct {
	keyword string
	vendor  string
}{
	{"iphone", "Apple"},
	{"ipad", "Apple"},
	{"ipod", "Apple"},
	{"macintosh", "Apple"},
	{"samsung", "Samsung"},
	{"sm-g", "Samsung"},
	{"sm-a", "Samsung"},
	{"sm-n", "Samsung"},
	{"sm-t", "Samsung"},
	{"huawei", "Huawei"},
	{"honor", "Huawei"},
	{"mediapad", "Huawei"},
	{"xiaomi", "Xiaomi"},
	{"redmi", "Xiaomi"},
	{"miui", "Xiaomi"},
	{"oppo", "OPPO"},
	{"vivo", "Vivo"},
	{"oneplus", "OnePlus"},
	{"pixel", "Google"},
	{"nexus", "Google"},
	{"nokia", "Nokia"},
	{"kindle", "Amazon"},
	{"silk", "Amazon"},
}

func detectDeviceVendor(uaString string) string {
	lower := strings.ToLower(uaString)
	for _, entry := range vendorKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.vendor
		}
	}
	return ""
}

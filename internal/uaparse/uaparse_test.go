package uaparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	iphoneSafariUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"
	ipadUA          = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	googlebotUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	pixelUA         = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Mobile Safari/537.36"
	androidTabletUA = "Mozilla/5.0 (Linux; Android 13; SM-T970) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

func TestParse_DesktopBrowser(t *testing.T) {
	agent := NewParser().Parse(chromeWindowsUA)

	assert.Equal(t, "Chrome", agent.BrowserName)
	assert.NotEmpty(t, agent.BrowserVersion)
	assert.Equal(t, "desktop", agent.DeviceType)
}

func TestParse_MobileDevice(t *testing.T) {
	agent := NewParser().Parse(iphoneSafariUA)

	assert.Equal(t, "mobile", agent.DeviceType)
	assert.Equal(t, "Apple", agent.DeviceVendor)
}

func TestParse_Tablets(t *testing.T) {
	ipad := NewParser().Parse(ipadUA)
	assert.Equal(t, "tablet", ipad.DeviceType)
	assert.Equal(t, "Apple", ipad.DeviceVendor)

	android := NewParser().Parse(androidTabletUA)
	assert.Equal(t, "tablet", android.DeviceType)
	assert.Equal(t, "Samsung", android.DeviceVendor)
}

func TestParse_Bot(t *testing.T) {
	agent := NewParser().Parse(googlebotUA)

	assert.Equal(t, "bot", agent.DeviceType)
}

func TestParse_VendorKeywords(t *testing.T) {
	agent := NewParser().Parse(pixelUA)

	assert.Equal(t, "mobile", agent.DeviceType)
	assert.Equal(t, "Google", agent.DeviceVendor)
}

func TestParse_EmptyString(t *testing.T) {
	agent := NewParser().Parse("")

	assert.Empty(t, agent.BrowserName)
	assert.Empty(t, agent.DeviceType)
	assert.Empty(t, agent.DeviceVendor)
}

package ingestion

import (
	"net/url"
	"strings"
)

// Platform is a known job board.
type Platform string

const (
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformWorkday         Platform = "workday"
	PlatformWelcomeToJungle Platform = "welcometothejungle"
	PlatformUnknown         Platform = "unknown"
)

// DetectPlatform identifies the job board hosting urlStr.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com"), strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	case strings.Contains(host, "welcometothejungle.com"):
		return PlatformWelcomeToJungle
	}
	return PlatformUnknown
}

// ContentSelectors returns the selectors tried, in order, to locate the
// posting body on a platform's pages.
func ContentSelectors(p Platform) []string {
	switch p {
	case PlatformGreenhouse:
		return []string{".job__description.body", ".job__description", "#content", ".job-post-container"}
	case PlatformLever:
		return []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"}
	case PlatformWorkday:
		return []string{"[data-automation-id='jobDescription']", ".job-description"}
	case PlatformWelcomeToJungle:
		return []string{"[data-testid='job-section-description']", "main"}
	}
	return JobPostingSelectors()
}

// JobPostingSelectors are generic selectors for job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// noiseSelectors are stripped from every page before extraction.
const noiseSelectors = "nav, footer, header, script, style, noscript, form, button, .ad, .advertisement, .sidebar, .cookie-banner, .popup, [role='dialog']"

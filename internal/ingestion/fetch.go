// Package ingestion imports job descriptions from files and job board URLs.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-assistant/internal/logging"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeAssistant/1.0)"

	// maxBodyBytes caps how much of a page is read.
	maxBodyBytes = 5 << 20
)

// Error reports a failed fetch of URL.
type Error struct {
	URL     string
	Message string
	Status  int
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrNoContent is returned when a page yields no text after extraction.
var ErrNoContent = errors.New("no job description text found")

// Options configures an Importer.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Client    *http.Client
}

// Importer fetches job postings and reduces them to clean text.
type Importer struct {
	client    *http.Client
	userAgent string
	headers   map[string]string
	logger    logging.Logger
}

// NewImporter creates an Importer. A nil opts uses the defaults.
func NewImporter(opts *Options, logger logging.Logger) *Importer {
	if opts == nil {
		opts = &Options{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Importer{client: client, userAgent: ua, headers: opts.Headers, logger: logger}
}

// Result is an imported job description.
type Result struct {
	URL      string
	Platform Platform
	Text     string
}

// FromURL downloads the posting at rawURL and returns its cleaned main text.
func (im *Importer) FromURL(ctx context.Context, rawURL string) (*Result, error) {
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	html, err := im.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	platform := DetectPlatform(rawURL)
	text, err := ExtractMainText(html, ContentSelectors(platform))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to extract text", Cause: err}
	}
	text = CleanText(text)
	if text == "" {
		return nil, &Error{URL: rawURL, Message: "empty page", Cause: ErrNoContent}
	}

	im.logger.Info(ctx, "job description imported",
		"url", rawURL, "platform", string(platform), "chars", len(text))
	return &Result{URL: rawURL, Platform: platform, Text: text}, nil
}

func (im *Importer) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", im.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for k, v := range im.headers {
		req.Header.Set(k, v)
	}

	resp, err := im.client.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

// ExtractMainText parses html and returns the text of the first element
// matching contentSelectors, falling back to body. Navigation, scripts and
// other page chrome are removed first.
func ExtractMainText(html string, contentSelectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelectors).Remove()

	var main *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel); s.Length() > 0 && strings.TrimSpace(s.First().Text()) != "" {
			main = s.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	// Block elements become line breaks so paragraphs and list items survive.
	main.Find("br").ReplaceWithHtml("\n")
	main.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr, section").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "li" {
			s.PrependHtml("- ")
		}
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(main.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

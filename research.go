package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxReferenceContentLength caps extracted reference text
	MaxReferenceContentLength = 8000

	// User agent for reference fetches
	referenceUserAgent = "Clinical-Board-Reference-Fetcher/1.0 (Educational Project)"
)

// ReferenceContent is the readable text extracted from one reference URL
type ReferenceContent struct {
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Fetched time.Time `json:"fetched"`
}

// FetchReferenceContent fetches a clinical-reference URL and extracts its
// readable text content.
func FetchReferenceContent(ctx context.Context, url string) (*ReferenceContent, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", referenceUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	client := &http.Client{
		Timeout: ReferenceFetchTimeout,
	}

	// One retry on transient failure
	var resp *http.Response
	maxRetries := 2
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err = client.Do(req)
		if err == nil {
			break
		}

		if attempt < maxRetries-1 {
			log.Printf("Reference fetch attempt %d failed, retrying in 2s: %v", attempt+1, err)
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", url, maxRetries, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	content := ExtractReadableText(doc)
	if content == "" {
		return nil, fmt.Errorf("no readable content found at %s", url)
	}

	return &ReferenceContent{
		URL:     url,
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Content: content,
		Fetched: time.Now(),
	}, nil
}

// ExtractReadableText pulls heading and paragraph text out of a parsed
// document, capped at MaxReferenceContentLength.
func ExtractReadableText(doc *goquery.Document) string {
	var b strings.Builder

	doc.Find("h1, h2, h3, p, li").Each(func(i int, s *goquery.Selection) {
		if b.Len() >= MaxReferenceContentLength {
			return
		}

		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}

		b.WriteString(text)
		b.WriteString("\n")
	})

	content := strings.TrimSpace(b.String())
	if len(content) > MaxReferenceContentLength {
		content = content[:MaxReferenceContentLength]
	}
	return content
}

// FetchReferences fetches several reference URLs concurrently. Individual
// failures degrade gracefully: failed URLs are simply absent from the
// result, and an error is returned only when every fetch failed.
func FetchReferences(ctx context.Context, urls []string) ([]*ReferenceContent, error) {
	g, ctx := errgroup.WithContext(ctx)

	results := make([]*ReferenceContent, len(urls))
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			content, err := FetchReferenceContent(ctx, url)
			if err != nil {
				log.Printf("Error fetching reference %s: %v", url, err)
				return nil // Don't propagate, continue with other sources
			}
			results[i] = content
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var fetched []*ReferenceContent
	for _, r := range results {
		if r != nil {
			fetched = append(fetched, r)
		}
	}

	if len(fetched) == 0 && len(urls) > 0 {
		return nil, fmt.Errorf("all %d reference fetches failed", len(urls))
	}
	return fetched, nil
}

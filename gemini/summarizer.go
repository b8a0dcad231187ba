// Package gemini implements summarization using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/sitedigest/sitedigest"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// maxContentBytes caps how much extracted Markdown goes into the prompt.
// Pages larger than this are truncated at the limit.
const maxContentBytes = 200_000

// Ensure Summarizer implements sitedigest.Summarizer at compile time.
var _ sitedigest.Summarizer = (*Summarizer)(nil)

// Summarizer implements sitedigest.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client *genai.Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize generates a summary of a page's extracted content.
func (s *Summarizer) Summarize(ctx context.Context, page sitedigest.PageContent) (*sitedigest.Summary, error) {
	if page.Extracted == "" {
		return nil, sitedigest.Errorf(sitedigest.EINVALID, "page has no extracted content")
	}

	prompt := BuildUserPrompt(page)
	config := BuildConfig()

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, sitedigest.Errorf(sitedigest.EINTERNAL, "gemini returned nil result")
	}

	return &sitedigest.Summary{
		Text:  result.Text(),
		Model: model,
	}, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a precise technical writer. Summarize the provided web page content in a few short paragraphs. Cover what the page is about and its key facts. Use only information present in the content.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the page content.
func BuildUserPrompt(page sitedigest.PageContent) string {
	content := page.Extracted
	if len(content) > maxContentBytes {
		content = content[:maxContentBytes]
	}

	title := page.Title
	if title == "" {
		title = page.URL
	}

	var sb strings.Builder
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", title)
	fmt.Fprintf(&sb, "<source>%s</source>\n", page.URL)
	fmt.Fprintf(&sb, "<content>%s</content>\n", content)
	sb.WriteString("</page>\n\nSummarize this page.")
	return sb.String()
}

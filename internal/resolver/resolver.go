// Package resolver turns a spoken or typed website name into a URL.
// A hosted language model does the lookup through its OpenAI-compatible
// endpoint; when no API key is configured or the call fails, a
// deterministic fallback builds the URL from the name itself.
package resolver

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const prompt = `Given the website name or description: "%s"

Please provide ONLY the complete, correct URL for this website.

Rules:
1. Return ONLY the URL, nothing else
2. Include https://
3. If it's a well-known site, use the exact official URL
4. If it's ambiguous, use the most popular/official version
5. For partial names, expand to full URL (e.g., "github" -> "https://github.com")
6. For government/organization sites, use appropriate domain (e.g., ".gov.in", ".org", ".edu")
7. For regional variants, use the correct country domain (e.g., "amazon india" -> ".in")
8. For acronyms or abbreviations, identify the full official website
9. Do not include explanations or alternatives

Examples:
- "github" -> https://github.com
- "twitter" -> https://twitter.com
- "amazon india" -> https://www.amazon.in
- "reddit" -> https://www.reddit.com
- "sih" -> https://www.sih.gov.in
- "amazon" -> https://www.amazon.com
- "flipkart" -> https://www.flipkart.com
- "netflix" -> https://www.netflix.com
- "instagram" -> https://www.instagram.com
- "linkedin" -> https://www.linkedin.com
- "stack overflow" -> https://stackoverflow.com
- "medium" -> https://medium.com

Now provide the URL for: "%s"`

// Resolver resolves website names to URLs.
type Resolver struct {
	client  openai.Client
	model   openai.ChatModel
	enabled bool
	timeout time.Duration
}

// New builds a Resolver. An empty apiKey disables the remote lookup so
// every Resolve goes straight to the fallback.
func New(apiKey, baseURL, model string, timeout time.Duration) *Resolver {
	r := &Resolver{
		model:   openai.ChatModel(model),
		timeout: timeout,
	}
	if apiKey == "" {
		log.Warn("no API key configured, URL resolution uses fallback only")
		return r
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	r.client = openai.NewClient(opts...)
	r.enabled = true
	return r
}

// Resolve returns a URL for the name. It never fails: when the model is
// unavailable or returns something unusable, the fallback URL is used.
func (r *Resolver) Resolve(ctx context.Context, name string) string {
	if r.enabled {
		url, err := r.resolveRemote(ctx, name)
		if err != nil {
			log.Warn("remote URL resolution failed, using fallback", "name", name, "err", err)
		} else if url != "" {
			log.Debug("resolved URL", "name", name, "url", url)
			return url
		}
	}
	return Fallback(name)
}

func (r *Resolver) resolveRemote(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(prompt, name, name)),
		},
		Model:       r.model,
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(100),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}

	return CleanURL(resp.Choices[0].Message.Content), nil
}

// CleanURL strips markdown and surrounding prose from a model response
// and normalizes the result to an https URL. Empty input stays empty.
func CleanURL(raw string) string {
	url := strings.TrimSpace(strings.ReplaceAll(raw, "```", ""))
	if url == "" {
		return ""
	}

	// Keep only the URL when the model added prose around it.
	if strings.Contains(url, " ") {
		for _, word := range strings.Fields(url) {
			if strings.HasPrefix(word, "http") {
				url = word
				break
			}
		}
	}

	if !strings.HasPrefix(url, "http") {
		if strings.HasPrefix(url, "www.") {
			url = "https://" + url
		} else {
			url = "https://www." + url
		}
	}
	return url
}

// Fallback derives a URL directly from the name: dotted names are taken
// as hosts, bare names become a .com domain.
func Fallback(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.ReplaceAll(name, " ", "")
	if strings.Contains(name, ".") {
		return "https://" + name
	}
	return "https://www." + name + ".com"
}

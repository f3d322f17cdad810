package cuisine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"foodmap/config"

	"github.com/go-resty/resty/v2"
)

// Classification is the cuisine enrichment attached to a search result.
type Classification struct {
	Labels  []string `json:"labels"`
	Summary string   `json:"summary"`
}

// Classifier ranks a fixed cuisine taxonomy against free text by embedding
// both through an external sentence-encoder service and comparing with
// cosine similarity. It holds no per-request state and is safe to share.
type Classifier struct {
	client   *resty.Client
	model    string
	taxonomy []string
	topK     int

	mu        sync.Mutex
	labelVecs [][]float64 // taxonomy embeddings, computed once on first use
}

// Model is the process-wide classifier handle. It stays nil when no
// encoder service is configured; callers must treat that as "no
// classification available".
var Model *Classifier

// Init constructs the global classifier from the loaded configuration.
func Init() {
	cfg := config.AppConfig
	if cfg.EmbedApiURL == "" {
		return
	}
	Model = New(cfg.EmbedApiURL, cfg.EmbedModel, cfg.CuisineTaxonomy, cfg.CuisineTopK, time.Duration(cfg.ProviderTimeoutSec)*time.Second)
	log.Printf("Cuisine classifier ready: model=%s taxonomy=%d labels topK=%d", cfg.EmbedModel, len(cfg.CuisineTaxonomy), cfg.CuisineTopK)
}

// New creates a Classifier talking to the encoder service at baseURL.
func New(baseURL, model string, taxonomy []string, topK int, timeout time.Duration) *Classifier {
	if topK < 1 {
		topK = 2
	}
	return &Classifier{
		client:   resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		model:    model,
		taxonomy: taxonomy,
		topK:     topK,
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Classify ranks the taxonomy against the place description, falling back
// to the place name when no description is available. The summary notes a
// name-only inference explicitly.
func (c *Classifier) Classify(ctx context.Context, description, name string) (*Classification, error) {
	text := strings.TrimSpace(description)
	fromName := false
	if text == "" {
		text = strings.TrimSpace(name)
		fromName = true
	}
	if text == "" {
		return nil, errors.New("no text to classify")
	}

	labelVecs, err := c.labelVectors(ctx)
	if err != nil {
		return nil, err
	}

	inputVecs, err := c.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	labels := c.topLabels(labelVecs, inputVecs[0])
	joined := strings.Join(labels, ", ")

	summary := joined
	if fromName {
		summary = fmt.Sprintf("No description was available, so judging by the restaurant name alone: %s", joined)
	}

	return &Classification{Labels: labels, Summary: summary}, nil
}

// labelVectors returns the cached taxonomy embeddings, computing them on
// first use. A failed attempt is retried on the next call rather than
// poisoning the classifier for the process lifetime.
func (c *Classifier) labelVectors(ctx context.Context) ([][]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.labelVecs != nil {
		return c.labelVecs, nil
	}

	vecs, err := c.embed(ctx, c.taxonomy)
	if err != nil {
		return nil, fmt.Errorf("embedding taxonomy labels: %w", err)
	}
	c.labelVecs = vecs
	return vecs, nil
}

func (c *Classifier) embed(ctx context.Context, texts []string) ([][]float64, error) {
	result := new(embedResponse)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(embedRequest{Model: c.model, Texts: texts}).
		SetResult(result).
		Post("/embed")
	if err != nil {
		return nil, fmt.Errorf("encoder request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("encoder returned status %d", resp.StatusCode())
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("encoder returned %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}
	return result.Embeddings, nil
}

// topLabels picks the topK taxonomy labels by similarity to the input
// vector. The sort is stable so equal scores keep taxonomy order.
func (c *Classifier) topLabels(labelVecs [][]float64, input []float64) []string {
	type scoredLabel struct {
		index int
		score float64
	}

	ranked := make([]scoredLabel, len(c.taxonomy))
	for i := range c.taxonomy {
		ranked[i] = scoredLabel{index: i, score: cosineSimilarity(labelVecs[i], input)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	k := c.topK
	if k > len(ranked) {
		k = len(ranked)
	}
	labels := make([]string, 0, k)
	for _, entry := range ranked[:k] {
		labels = append(labels, c.taxonomy[entry.index])
	}
	return labels
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/quellwerk/ragline/core"
)

// Endpoints holds the base URLs of the external stage services.
type Endpoints struct {
	DetectLanguage string
	Structure      string
	Annotate       string
}

// Validate checks that every endpoint is set.
func (e *Endpoints) Validate() error {
	if e.DetectLanguage == "" {
		return fmt.Errorf("detect-language endpoint is required")
	}
	if e.Structure == "" {
		return fmt.Errorf("structure endpoint is required")
	}
	if e.Annotate == "" {
		return fmt.Errorf("annotate endpoint is required")
	}
	return nil
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Language string `json:"language"`
	Status   string `json:"status"`
}

// DetectLanguage sends raw text to the language detection service and
// returns the detected ISO 639-1 code.
func (c *Client) DetectLanguage(ctx context.Context, url, text string) (string, error) {
	var resp detectResponse
	if err := c.PostJSON(ctx, url, detectRequest{Text: text}, &resp); err != nil {
		return "", err
	}

	language := strings.TrimSpace(strings.ToLower(resp.Language))
	if language == "" {
		return "", fmt.Errorf("%w: empty language in response", ErrRejected)
	}
	return language, nil
}

type layoutElement struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// StructurePDF uploads a PDF to the structuring service and returns its
// layout blocks in document order.
func (c *Client) StructurePDF(ctx context.Context, url, filename string, data []byte) ([]core.LayoutBlock, error) {
	var elements []layoutElement
	if err := c.PostFile(ctx, url, "file", filename, data, &elements); err != nil {
		return nil, err
	}

	blocks := make([]core.LayoutBlock, len(elements))
	for i, el := range elements {
		blocks[i] = core.LayoutBlock{Type: el.Type, Text: el.Text}
	}
	return blocks, nil
}

type annotateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type annotateResponse struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
	Lemmas []struct {
		Text  string `json:"text"`
		Lemma string `json:"lemma"`
	} `json:"lemmas"`
}

// Annotate sends text to the linguistic annotation service and returns the
// named entities and lemmas it found. The language selects the model used
// by the service.
func (c *Client) Annotate(ctx context.Context, url, text, language string) (core.Annotation, error) {
	var resp annotateResponse
	err := c.PostJSON(ctx, url, annotateRequest{Text: text, Language: language}, &resp)
	if err != nil {
		return core.Annotation{}, err
	}

	annotation := core.Annotation{
		Entities: make([]core.AnnotatedEntity, len(resp.Entities)),
		Lemmas:   make([]core.Lemma, len(resp.Lemmas)),
	}
	for i, entity := range resp.Entities {
		annotation.Entities[i] = core.AnnotatedEntity{Text: entity.Text, Label: entity.Label}
	}
	for i, lemma := range resp.Lemmas {
		annotation.Lemmas[i] = core.Lemma{Text: lemma.Text, Lemma: lemma.Lemma}
	}
	return annotation, nil
}

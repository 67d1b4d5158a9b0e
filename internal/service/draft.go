package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/haimng/Bestopia/internal/llm"
	"github.com/haimng/Bestopia/internal/tsv"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
)

// draftProductCount is how many products a draft shortlists.
const draftProductCount = 5

// TextGenerator produces text for a prompt. Implemented by llm.Client.
type TextGenerator interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// DraftService drafts review content for a product category. Drafts are
// returned for human review and are not persisted; a separate ingestion call
// publishes them.
type DraftService struct {
	llm    TextGenerator
	logger *slog.Logger
}

// NewDraftService creates a new draft service.
func NewDraftService(generator TextGenerator, logger *slog.Logger) *DraftService {
	return &DraftService{
		llm:    generator,
		logger: logger,
	}
}

// DraftProduct is one shortlisted product in a draft.
type DraftProduct struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ProductPage string `json:"product_page"`
}

// DraftReview is the drafted content for one review, including the TSV
// blocks the ingestion endpoint accepts as-is.
type DraftReview struct {
	Title             string         `json:"title"`
	Subtitle          string         `json:"subtitle"`
	Introduction      string         `json:"introduction"`
	Tags              string         `json:"tags"`
	Products          []DraftProduct `json:"products"`
	ProductDetailsTSV string         `json:"product_details_tsv"`
	ProductReviewsTSV string         `json:"product_reviews_tsv"`
}

const draftContentPrompt = `Find the best %d %s available on Amazon right now and draft a comparison review.

Respond with exactly two TSV blocks separated by a line of ten dashes (----------), no other text.

Block 1: a header line "title	subtitle	introduction	tags" and one data row. The introduction is 2-3 sentences. Tags are comma-separated.
Block 2: a header line "name	description	image_url	product_page" and one row per product, best first. Leave image_url and product_page empty if unknown.

Use tab characters between fields and never inside them.`

const draftOpinionsPrompt = `Write one enthusiastic 3-4 sentence owner review for each of these products, in order:

%s

Respond with a single TSV block: a header line "review_text" and one row per product, same order. Use no tab or newline characters inside a review.`

// Draft produces review content for a product category: one search-enabled
// call drafts the title block and the product shortlist, a second call
// drafts an owner review per product.
func (s *DraftService) Draft(ctx context.Context, category string) (*DraftReview, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.InvalidInput("category is required")
	}

	response, err := s.llm.Complete(ctx, llm.ModelSearch, fmt.Sprintf(draftContentPrompt, draftProductCount, category))
	if err != nil {
		return nil, fmt.Errorf("draft review content: %w", err)
	}

	blocks := tsv.ParseBlocks(response)
	headerRecords := blocks["task1"]
	productRecords := blocks["task2"]

	if len(headerRecords) == 0 {
		return nil, apperrors.Unavailable("draft response is missing the title block")
	}
	if len(productRecords) == 0 {
		return nil, apperrors.Unavailable("draft response is missing the product block")
	}

	draft := &DraftReview{
		Title:        headerRecords[0]["title"],
		Subtitle:     headerRecords[0]["subtitle"],
		Introduction: headerRecords[0]["introduction"],
		Tags:         headerRecords[0]["tags"],
	}
	if draft.Title == "" {
		return nil, apperrors.Unavailable("draft response has an empty title")
	}

	var names []string
	for _, rec := range productRecords {
		if rec["name"] == "" {
			continue
		}
		draft.Products = append(draft.Products, DraftProduct{
			Name:        rec["name"],
			Description: rec["description"],
			ImageURL:    rec["image_url"],
			ProductPage: rec["product_page"],
		})
		names = append(names, rec["name"])
	}
	if len(draft.Products) == 0 {
		return nil, apperrors.Unavailable("draft response has no usable products")
	}

	opinions, err := s.llm.Complete(ctx, llm.ModelDefault, fmt.Sprintf(draftOpinionsPrompt, strings.Join(names, "\n")))
	if err != nil {
		return nil, fmt.Errorf("draft product reviews: %w", err)
	}

	opinionRecords := tsv.Parse(strings.ReplaceAll(opinions, "```", ""))
	if len(opinionRecords) == 0 {
		return nil, apperrors.Unavailable("draft response is missing the review block")
	}

	draft.ProductDetailsTSV = renderDetailsTSV(draft.Products)
	draft.ProductReviewsTSV = renderOpinionsTSV(opinionRecords)

	s.logger.InfoContext(ctx, "review drafted",
		slog.String("category", category),
		slog.Int("products", len(draft.Products)),
	)

	return draft, nil
}

func renderDetailsTSV(products []DraftProduct) string {
	var b strings.Builder
	b.WriteString("name\tdescription\timage_url\tproduct_page")
	for _, p := range products {
		b.WriteString("\n")
		b.WriteString(p.Name + "\t" + p.Description + "\t" + p.ImageURL + "\t" + p.ProductPage)
	}
	return b.String()
}

func renderOpinionsTSV(records []tsv.Record) string {
	var b strings.Builder
	b.WriteString("review_text")
	for _, rec := range records {
		b.WriteString("\n")
		b.WriteString(rec["review_text"])
	}
	return b.String()
}

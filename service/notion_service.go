package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/tieubaoca/line-assistant-be/types"
)

// NotionService fetches knowledge pages through the official Notion API and
// flattens their block trees into plain text.
type NotionService struct {
	client *notionapi.Client
}

func NewNotionService(apiKey string) *NotionService {
	return &NotionService{
		client: notionapi.NewClient(notionapi.Token(apiKey)),
	}
}

func (s *NotionService) FetchPage(ctx context.Context, pageID string) (*types.KnowledgePage, error) {
	page, err := s.client.Page.Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}

	var blocks []notionapi.Block
	cursor := notionapi.Cursor("")
	for {
		resp, err := s.client.Block.GetChildren(ctx, notionapi.BlockID(pageID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return nil, fmt.Errorf("list blocks of page %s: %w", pageID, err)
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	return &types.KnowledgePage{
		PageID:    pageID,
		Title:     pageTitle(page),
		Content:   FlattenBlocks(blocks),
		FetchedAt: time.Now(),
	}, nil
}

func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		titleProp, ok := prop.(*notionapi.TitleProperty)
		if !ok {
			continue
		}
		var sb strings.Builder
		for _, rt := range titleProp.Title {
			sb.WriteString(rt.PlainText)
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return "Untitled"
}

// FlattenBlocks linearizes a Notion block list into plain text, one line per
// block. Unsupported block kinds are skipped.
func FlattenBlocks(blocks []notionapi.Block) string {
	lines := make([]string, 0, len(blocks))
	for _, block := range blocks {
		line := ""
		switch b := block.(type) {
		case *notionapi.ParagraphBlock:
			line = richText(b.Paragraph.RichText)
		case *notionapi.Heading1Block:
			line = "# " + richText(b.Heading1.RichText)
		case *notionapi.Heading2Block:
			line = "## " + richText(b.Heading2.RichText)
		case *notionapi.Heading3Block:
			line = "### " + richText(b.Heading3.RichText)
		case *notionapi.BulletedListItemBlock:
			line = "- " + richText(b.BulletedListItem.RichText)
		case *notionapi.NumberedListItemBlock:
			line = "- " + richText(b.NumberedListItem.RichText)
		case *notionapi.ToDoBlock:
			if b.ToDo.Checked {
				line = "[x] " + richText(b.ToDo.RichText)
			} else {
				line = "[ ] " + richText(b.ToDo.RichText)
			}
		case *notionapi.QuoteBlock:
			line = "> " + richText(b.Quote.RichText)
		case *notionapi.CalloutBlock:
			line = richText(b.Callout.RichText)
		case *notionapi.ToggleBlock:
			line = richText(b.Toggle.RichText)
		case *notionapi.CodeBlock:
			line = richText(b.Code.RichText)
		case *notionapi.DividerBlock:
			line = "---"
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func richText(rts []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range rts {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}

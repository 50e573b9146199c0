package service

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
)

func rt(text string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: text}}
}

func TestFlattenBlocks(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.Heading1Block{Heading1: notionapi.Heading{RichText: rt("Opening Hours")}},
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: rt("We open at 9am.")}},
		&notionapi.BulletedListItemBlock{BulletedListItem: notionapi.ListItem{RichText: rt("Monday")}},
		&notionapi.NumberedListItemBlock{NumberedListItem: notionapi.ListItem{RichText: rt("Tuesday")}},
		&notionapi.ToDoBlock{ToDo: notionapi.ToDo{RichText: rt("Restock"), Checked: true}},
		&notionapi.QuoteBlock{Quote: notionapi.Quote{RichText: rt("Be kind")}},
		&notionapi.DividerBlock{},
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: rt("")}},
	}

	flat := FlattenBlocks(blocks)

	assert.Equal(t,
		"# Opening Hours\n"+
			"We open at 9am.\n"+
			"- Monday\n"+
			"- Tuesday\n"+
			"[x] Restock\n"+
			"> Be kind\n"+
			"---",
		flat)
}

func TestFlattenBlocksSkipsUnsupported(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.ImageBlock{},
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: rt("text only")}},
	}

	assert.Equal(t, "text only", FlattenBlocks(blocks))
}

func TestFlattenBlocksEmpty(t *testing.T) {
	assert.Equal(t, "", FlattenBlocks(nil))
}

func TestPageTitle(t *testing.T) {
	page := &notionapi.Page{
		Properties: notionapi.Properties{
			"Name": &notionapi.TitleProperty{Title: rt("FAQ")},
		},
	}
	assert.Equal(t, "FAQ", pageTitle(page))

	assert.Equal(t, "Untitled", pageTitle(&notionapi.Page{Properties: notionapi.Properties{}}))
}

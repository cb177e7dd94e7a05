// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the Notion block model, converter configuration,
// and the ordered document map shared by notion2md packages.
package types

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
)

// Block type names as reported by the Notion API in the "type" field.
const (
	BlockParagraph        = "paragraph"
	BlockHeading1         = "heading_1"
	BlockHeading2         = "heading_2"
	BlockHeading3         = "heading_3"
	BlockQuote            = "quote"
	BlockTemplate         = "template"
	BlockBulletedListItem = "bulleted_list_item"
	BlockNumberedListItem = "numbered_list_item"
	BlockToDo             = "to_do"
	BlockToggle           = "toggle"
	BlockCallout          = "callout"
	BlockCode             = "code"
	BlockEquation         = "equation"
	BlockDivider          = "divider"
	BlockImage            = "image"
	BlockVideo            = "video"
	BlockFile             = "file"
	BlockPDF              = "pdf"
	BlockAudio            = "audio"
	BlockBookmark         = "bookmark"
	BlockEmbed            = "embed"
	BlockLinkPreview      = "link_preview"
	BlockLinkToPage       = "link_to_page"
	BlockChildPage        = "child_page"
	BlockChildDatabase    = "child_database"
	BlockTable            = "table"
	BlockTableRow         = "table_row"
	BlockColumnList       = "column_list"
	BlockColumn           = "column"
	BlockSyncedBlock      = "synced_block"
	BlockTableOfContents  = "table_of_contents"
	BlockBreadcrumb       = "breadcrumb"
	BlockUnsupported      = "unsupported"
)

// knownTypes lists every block type with a typed payload field on Block.
var knownTypes = map[string]bool{
	BlockParagraph: true, BlockHeading1: true, BlockHeading2: true, BlockHeading3: true,
	BlockQuote: true, BlockTemplate: true, BlockBulletedListItem: true,
	BlockNumberedListItem: true, BlockToDo: true, BlockToggle: true, BlockCallout: true,
	BlockCode: true, BlockEquation: true, BlockDivider: true, BlockImage: true,
	BlockVideo: true, BlockFile: true, BlockPDF: true, BlockAudio: true,
	BlockBookmark: true, BlockEmbed: true, BlockLinkPreview: true, BlockLinkToPage: true,
	BlockChildPage: true, BlockChildDatabase: true, BlockTable: true, BlockTableRow: true,
	BlockColumnList: true, BlockColumn: true, BlockSyncedBlock: true,
	BlockTableOfContents: true, BlockBreadcrumb: true,
}

// KnownBlockType reports whether t has a typed payload on Block.
func KnownBlockType(t string) bool {
	return knownTypes[t]
}

// Block is a single Notion content block. Exactly one payload field, the
// one named by Type, is expected to be set. Payloads of block types this
// package does not model are kept verbatim in Unknown.
type Block struct {
	Object      string  `json:"object,omitempty"`
	ID          string  `json:"id,omitempty"`
	Type        string  `json:"type,omitempty"`
	HasChildren bool    `json:"has_children,omitempty"`
	Parent      *Parent `json:"parent,omitempty"`

	Paragraph        *TextBlock         `json:"paragraph,omitempty"`
	Heading1         *HeadingBlock      `json:"heading_1,omitempty"`
	Heading2         *HeadingBlock      `json:"heading_2,omitempty"`
	Heading3         *HeadingBlock      `json:"heading_3,omitempty"`
	Quote            *TextBlock         `json:"quote,omitempty"`
	Template         *TextBlock         `json:"template,omitempty"`
	BulletedListItem *TextBlock         `json:"bulleted_list_item,omitempty"`
	NumberedListItem *NumberedListBlock `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoBlock         `json:"to_do,omitempty"`
	Toggle           *TextBlock         `json:"toggle,omitempty"`
	Callout          *CalloutBlock      `json:"callout,omitempty"`
	Code             *CodeBlock         `json:"code,omitempty"`
	Equation         *Equation          `json:"equation,omitempty"`
	Divider          *EmptyBlock        `json:"divider,omitempty"`
	Image            *FileBlock         `json:"image,omitempty"`
	Video            *FileBlock         `json:"video,omitempty"`
	File             *FileBlock         `json:"file,omitempty"`
	PDF              *FileBlock         `json:"pdf,omitempty"`
	Audio            *FileBlock         `json:"audio,omitempty"`
	Bookmark         *URLBlock          `json:"bookmark,omitempty"`
	Embed            *URLBlock          `json:"embed,omitempty"`
	LinkPreview      *URLBlock          `json:"link_preview,omitempty"`
	LinkToPage       *LinkToPageBlock   `json:"link_to_page,omitempty"`
	ChildPage        *TitleBlock        `json:"child_page,omitempty"`
	ChildDatabase    *TitleBlock        `json:"child_database,omitempty"`
	Table            *TableBlock        `json:"table,omitempty"`
	TableRow         *TableRowBlock     `json:"table_row,omitempty"`
	ColumnList       *EmptyBlock        `json:"column_list,omitempty"`
	Column           *EmptyBlock        `json:"column,omitempty"`
	SyncedBlock      *SyncedBlock       `json:"synced_block,omitempty"`
	TableOfContents  *EmptyBlock        `json:"table_of_contents,omitempty"`
	Breadcrumb       *EmptyBlock        `json:"breadcrumb,omitempty"`

	// Unknown holds the raw payload for a Type that has no field above.
	Unknown json.RawMessage `json:"-"`
}

// Parent identifies the page, database, or block that contains a block.
type Parent struct {
	Type       string `json:"type,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	BlockID    string `json:"block_id,omitempty"`
	Workspace  bool   `json:"workspace,omitempty"`
}

// IsEmpty reports whether b carries no type, as with a nil or {} input.
func (b *Block) IsEmpty() bool {
	return b == nil || b.Type == ""
}

// RichText returns the inline text of text-bearing blocks, or nil.
func (b *Block) RichText() []RichText {
	if b == nil {
		return nil
	}
	switch b.Type {
	case BlockParagraph:
		return b.Paragraph.text()
	case BlockHeading1:
		return b.Heading1.text()
	case BlockHeading2:
		return b.Heading2.text()
	case BlockHeading3:
		return b.Heading3.text()
	case BlockQuote:
		return b.Quote.text()
	case BlockTemplate:
		return b.Template.text()
	case BlockBulletedListItem:
		return b.BulletedListItem.text()
	case BlockToggle:
		return b.Toggle.text()
	case BlockNumberedListItem:
		if b.NumberedListItem != nil {
			return b.NumberedListItem.RichText
		}
	case BlockToDo:
		if b.ToDo != nil {
			return b.ToDo.RichText
		}
	case BlockCallout:
		if b.Callout != nil {
			return b.Callout.RichText
		}
	case BlockCode:
		if b.Code != nil {
			return b.Code.RichText
		}
	}
	return nil
}

// FilePayload returns the file payload of image, video, file, pdf, and audio
// blocks, or nil.
func (b *Block) FilePayload() *FileBlock {
	switch b.Type {
	case BlockImage:
		return b.Image
	case BlockVideo:
		return b.Video
	case BlockFile:
		return b.File
	case BlockPDF:
		return b.PDF
	case BlockAudio:
		return b.Audio
	}
	return nil
}

// URLPayload returns the payload of bookmark, embed, and link_preview
// blocks, or nil.
func (b *Block) URLPayload() *URLBlock {
	switch b.Type {
	case BlockBookmark:
		return b.Bookmark
	case BlockEmbed:
		return b.Embed
	case BlockLinkPreview:
		return b.LinkPreview
	}
	return nil
}

// ChildrenSource returns the id whose children make up this block's
// content. Synced block copies point at their origin block.
func (b *Block) ChildrenSource() string {
	if b.Type == BlockSyncedBlock && b.SyncedBlock != nil && b.SyncedBlock.SyncedFrom != nil &&
		b.SyncedBlock.SyncedFrom.BlockID != "" {
		return b.SyncedBlock.SyncedFrom.BlockID
	}
	return b.ID
}

// UnmarshalJSON decodes the Notion wire shape and keeps the payload of
// unmodelled block types in Unknown.
func (b *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Block(p)
	if b.Type == "" || knownTypes[b.Type] {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding %s payload: %w", b.Type, err)
	}
	b.Unknown = fields[b.Type]
	return nil
}

// MarshalJSON encodes b in the Notion wire shape, restoring Unknown under
// the key named by Type.
func (b Block) MarshalJSON() ([]byte, error) {
	type plain Block
	data, err := json.Marshal(plain(b))
	if err != nil || len(b.Unknown) == 0 || b.Type == "" || knownTypes[b.Type] {
		return data, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields[b.Type] = b.Unknown
	return json.Marshal(fields)
}

// EmptyBlock is the payload of blocks that carry no data (divider, column).
type EmptyBlock struct{}

// TextBlock is the payload shared by paragraph, quote, toggle, template,
// and bulleted list items.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color,omitempty"`
}

func (t *TextBlock) text() []RichText {
	if t == nil {
		return nil
	}
	return t.RichText
}

// HeadingBlock is the payload of heading_1, heading_2, and heading_3.
type HeadingBlock struct {
	RichText     []RichText `json:"rich_text"`
	Color        string     `json:"color,omitempty"`
	IsToggleable bool       `json:"is_toggleable,omitempty"`
}

func (h *HeadingBlock) text() []RichText {
	if h == nil {
		return nil
	}
	return h.RichText
}

// NumberedListBlock is the payload of numbered_list_item. Number is not
// sent by the API; NumberListItems assigns it.
type NumberedListBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color,omitempty"`
	Number   int        `json:"number,omitempty"`
}

// ToDoBlock is the payload of to_do.
type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Color    string     `json:"color,omitempty"`
}

// CalloutBlock is the payload of callout.
type CalloutBlock struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
	Color    string     `json:"color,omitempty"`
}

// Icon is a page or callout icon.
type Icon struct {
	Type     string   `json:"type,omitempty"`
	Emoji    string   `json:"emoji,omitempty"`
	External *FileURL `json:"external,omitempty"`
	File     *FileURL `json:"file,omitempty"`
}

// CodeBlock is the payload of code.
type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Caption  []RichText `json:"caption,omitempty"`
	Language string     `json:"language,omitempty"`
}

// Equation is a block or inline math expression in KaTeX syntax.
type Equation struct {
	Expression string `json:"expression"`
}

// FileURL locates a hosted or external asset.
type FileURL struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

// FileBlock is the payload of image, video, file, pdf, and audio.
type FileBlock struct {
	Type     string     `json:"type,omitempty"`
	External *FileURL   `json:"external,omitempty"`
	File     *FileURL   `json:"file,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
	Name     string     `json:"name,omitempty"`
}

// URL returns the asset URL for either hosting variant.
func (f *FileBlock) URL() string {
	if f == nil {
		return ""
	}
	if f.Type == "external" && f.External != nil {
		return f.External.URL
	}
	if f.File != nil {
		return f.File.URL
	}
	if f.External != nil {
		return f.External.URL
	}
	return ""
}

// FileName returns the last path element of the asset URL, ignoring any
// query string.
func (f *FileBlock) FileName() string {
	raw := f.URL()
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}

// URLBlock is the payload of bookmark, embed, and link_preview.
type URLBlock struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption,omitempty"`
}

// LinkToPageBlock is the payload of link_to_page.
type LinkToPageBlock struct {
	Type       string `json:"type"`
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	BlockID    string `json:"block_id,omitempty"`
}

// Target returns the id of the linked page, database, or block.
func (l *LinkToPageBlock) Target() string {
	if l == nil {
		return ""
	}
	switch l.Type {
	case "page_id":
		return l.PageID
	case "database_id":
		return l.DatabaseID
	case "block_id":
		return l.BlockID
	}
	switch {
	case l.PageID != "":
		return l.PageID
	case l.DatabaseID != "":
		return l.DatabaseID
	}
	return l.BlockID
}

// TitleBlock is the payload of child_page and child_database.
type TitleBlock struct {
	Title string `json:"title"`
}

// TableBlock is the payload of table. Rows arrive as table_row children.
type TableBlock struct {
	TableWidth      int  `json:"table_width,omitempty"`
	HasColumnHeader bool `json:"has_column_header,omitempty"`
	HasRowHeader    bool `json:"has_row_header,omitempty"`
}

// TableRowBlock is the payload of table_row; each cell is a rich text run list.
type TableRowBlock struct {
	Cells [][]RichText `json:"cells"`
}

// SyncedBlock is the payload of synced_block. SyncedFrom is nil on the
// original block and set on every copy.
type SyncedBlock struct {
	SyncedFrom *SyncedFrom `json:"synced_from"`
}

// SyncedFrom references the origin of a synced block copy.
type SyncedFrom struct {
	Type    string `json:"type,omitempty"`
	BlockID string `json:"block_id"`
}

// RichText is one inline run. A run with Equation set is inline math and
// its annotations are ignored.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	PlainText   string       `json:"plain_text"`
	Annotations *Annotations `json:"annotations,omitempty"`
	Href        string       `json:"href,omitempty"`
	Text        *TextContent `json:"text,omitempty"`
	Equation    *Equation    `json:"equation,omitempty"`
}

// IsEquation reports whether r is an inline math run.
func (r RichText) IsEquation() bool {
	return r.Equation != nil
}

// TextContent is the "text" variant payload of a rich text run.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is a hyperlink target.
type Link struct {
	URL string `json:"url"`
}

// Annotations are the style flags of a rich text run.
type Annotations struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Color         string `json:"color,omitempty"`
}

// ChildrenPage is one page of a children listing.
type ChildrenPage struct {
	Object     string  `json:"object,omitempty"`
	Results    []Block `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more,omitempty"`
}

// Cursor returns the continuation cursor, or "" when the listing is exhausted.
func (p ChildrenPage) Cursor() string {
	if p.NextCursor == nil {
		return ""
	}
	return *p.NextCursor
}

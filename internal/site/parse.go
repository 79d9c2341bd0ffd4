package site

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maboudharam/openbento/internal/validation"
)

var (
	ErrEmptyDocument     = errors.New("site: empty document")
	ErrMissingContent    = errors.New(`site: document has neither "profile" nor "blocks"`)
	ErrUnsupportedFormat = errors.New("site: unsupported document format")
)

const (
	DefaultProfileName  = "My Bento"
	DefaultPrimaryColor = "blue"
	DefaultBlockColor   = "bg-gray-900"
	DefaultTextColor    = "text-white"
	DefaultSpan         = 3
)

//go:embed site.schema.json
var schemaSource []byte

var documentSchema = validation.MustCompile(schemaSource)

// Document is the saved or exported bento envelope. Only Profile and Blocks
// feed the exporter.
type Document struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	SiteData
}

// Parse decodes a JSON site document as-is. Markdown code fences around the
// payload are stripped and a JSON string wrapping the document is unwrapped.
// The document is checked against the embedded schema.
func Parse(raw []byte) (Document, error) {
	payload, err := normalizePayload(raw)
	if err != nil {
		return Document{}, err
	}

	var generic any
	if err := json.Unmarshal(payload, &generic); err != nil {
		return Document{}, fmt.Errorf("site: decode document: %w", err)
	}
	object, ok := generic.(map[string]any)
	if !ok {
		return Document{}, fmt.Errorf("site: document must be an object, got %T", generic)
	}
	if _, hasProfile := object["profile"]; !hasProfile {
		if _, hasBlocks := object["blocks"]; !hasBlocks {
			return Document{}, ErrMissingContent
		}
	}
	if err := documentSchema.Validate(object); err != nil {
		return Document{}, fmt.Errorf("site: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Document{}, fmt.Errorf("site: decode document: %w", err)
	}
	return doc, nil
}

// Import parses a loosely authored document, such as one produced by an
// assistant, and fills every missing field with the editor defaults.
func Import(raw []byte) (Document, error) {
	doc, err := Parse(raw)
	if err != nil {
		return Document{}, err
	}
	ApplyImportDefaults(&doc)
	return doc, nil
}

// ApplyImportDefaults fills zero values the way the editor's JSON import does.
func ApplyImportDefaults(doc *Document) {
	if doc == nil {
		return
	}
	profile := &doc.Profile
	if strings.TrimSpace(profile.Name) == "" {
		profile.Name = DefaultProfileName
	}
	if profile.Theme == "" {
		profile.Theme = ThemeLight
	}
	if profile.PrimaryColor == "" {
		profile.PrimaryColor = DefaultPrimaryColor
	}
	if profile.ShowBranding == nil {
		profile.ShowBranding = Bool(true)
	}
	if profile.Analytics == nil {
		profile.Analytics = &Analytics{}
	}
	if profile.SocialAccounts == nil {
		profile.SocialAccounts = []SocialAccount{}
	}
	if strings.TrimSpace(doc.Name) == "" {
		doc.Name = profile.Name
	}

	if doc.Blocks == nil {
		doc.Blocks = []Block{}
	}
	for i := range doc.Blocks {
		block := &doc.Blocks[i]
		if block.ID == "" {
			block.ID = fmt.Sprintf("block_%d", i+1)
		}
		if block.Type == "" {
			block.Type = BlockText
		}
		if block.ColSpan == 0 {
			block.ColSpan = DefaultSpan
		}
		if block.RowSpan == 0 {
			block.RowSpan = DefaultSpan
		}
		if block.GridColumn == nil || *block.GridColumn == 0 {
			block.GridColumn = Int(1)
		}
		if block.GridRow == nil || *block.GridRow == 0 {
			block.GridRow = Int(1)
		}
		if block.Color == "" {
			block.Color = DefaultBlockColor
		}
		if block.TextColor == "" {
			block.TextColor = DefaultTextColor
		}
	}
}

// Load reads a site document from disk. JSON and YAML files are supported.
func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("site: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", "":
		return Parse(raw)
	case ".yaml", ".yml":
		payload, err := yamlToJSON(raw)
		if err != nil {
			return Document{}, err
		}
		return Parse(payload)
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Marshal renders doc as indented JSON.
func Marshal(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func normalizePayload(raw []byte) ([]byte, error) {
	payload := stripCodeFence(raw)
	if len(payload) == 0 {
		return nil, ErrEmptyDocument
	}
	if payload[0] == '"' {
		var inner string
		if err := json.Unmarshal(payload, &inner); err != nil {
			return nil, fmt.Errorf("site: decode document: %w", err)
		}
		payload = stripCodeFence([]byte(inner))
		if len(payload) == 0 {
			return nil, ErrEmptyDocument
		}
	}
	return payload, nil
}

func stripCodeFence(raw []byte) []byte {
	cleaned := bytes.TrimSpace(raw)
	switch {
	case bytes.HasPrefix(cleaned, []byte("```json")):
		cleaned = cleaned[len("```json"):]
	case bytes.HasPrefix(cleaned, []byte("```")):
		cleaned = cleaned[len("```"):]
	}
	cleaned = bytes.TrimSuffix(bytes.TrimSpace(cleaned), []byte("```"))
	return bytes.TrimSpace(cleaned)
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("site: decode yaml: %w", err)
	}
	payload, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("site: convert yaml: %w", err)
	}
	return payload, nil
}

package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var (
	errInvalidFrontMatter = errors.New("invalid front matter")
	utf8BOM               = []byte("\xEF\xBB\xBF")
)

// Only "---" YAML blocks count as front matter; decoding goes through yaml.v3 so
// numbers, booleans and lists arrive with their YAML types.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// ParseFrontMatter splits a content file into its decoded front matter and the
// body. A leading byte order mark is dropped. A file without a front matter block yields an empty map and the whole
// input as body; validation then reports the missing fields.
func ParseFrontMatter(raw []byte) (map[string]any, string, error) {
	norm := bytes.TrimPrefix(raw, utf8BOM)
	norm = bytes.ReplaceAll(norm, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))

	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(norm), &meta, yamlFormat)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errInvalidFrontMatter, err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, string(body), nil
}

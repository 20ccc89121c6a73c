package extract

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ghl-updater/internal/model"
)

// Format identifies how an authoritative source is encoded.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a configured format name. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", eris.Errorf("extract: unknown source format %q", s)
	}
}

// FormatFor resolves FormatAuto from the file extension. Unrecognised
// extensions (.js, .ts, .txt, ...) are scanned as text.
func FormatFor(path string, f Format) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Parse builds a mapping from data in the given format.
func Parse(data []byte, f Format) (*Mapping, error) {
	switch f {
	case FormatJSON:
		return FromJSON(data)
	case FormatYAML:
		return FromYAML(data)
	case FormatText, FormatAuto, "":
		return FromText(string(data)), nil
	default:
		return nil, eris.Errorf("extract: unknown source format %q", f)
	}
}

// FromJSON reads a JSON array of objects carrying the microsite name, location
// ID and token fields. Elements missing any of the three, or holding null or a
// nested value for one of them, are skipped. Numbers keep their literal text.
func FromJSON(data []byte) (*Mapping, error) {
	if !gjson.ValidBytes(data) {
		return nil, eris.New("extract: invalid json source")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, eris.Errorf("extract: json source must be an array, got %s", root.Type)
	}

	m := NewMapping()
	i := -1
	root.ForEach(func(_, v gjson.Result) bool {
		i++
		if !v.IsObject() {
			zap.L().Warn("extract: skipping incomplete source entry", zap.Int("index", i))
			return true
		}
		name, okName := jsonScalar(v.Get(gjson.Escape(model.FieldMicrositeName)))
		id, okID := jsonScalar(v.Get(gjson.Escape(model.FieldLocationID)))
		tok, okTok := jsonScalar(v.Get(gjson.Escape(model.FieldLocationToken)))
		if !okName || !okID || !okTok {
			zap.L().Warn("extract: skipping incomplete source entry", zap.Int("index", i))
			return true
		}
		m.Put(name, Entry{LocationID: id, LocationToken: tok})
		return true
	})
	return m, nil
}

func jsonScalar(r gjson.Result) (string, bool) {
	switch r.Type {
	case gjson.String:
		return r.Str, true
	case gjson.Number, gjson.True, gjson.False:
		return r.Raw, true
	default:
		return "", false
	}
}

// FromYAML reads a YAML sequence of mappings with the same three fields as
// FromJSON. Scalars are taken as written, so 00123 stays "00123" rather than
// being resolved as a number.
func FromYAML(data []byte) (*Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "extract: decode yaml source")
	}

	m := NewMapping()
	if len(doc.Content) == 0 {
		return m, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, eris.Errorf("extract: yaml source must be a sequence, got %s", root.ShortTag())
	}

	for i, item := range root.Content {
		fields := yamlScalars(item)
		name, okName := fields[model.FieldMicrositeName]
		id, okID := fields[model.FieldLocationID]
		tok, okTok := fields[model.FieldLocationToken]
		if !okName || !okID || !okTok {
			zap.L().Warn("extract: skipping incomplete source entry", zap.Int("index", i))
			continue
		}
		m.Put(name, Entry{LocationID: id, LocationToken: tok})
	}
	return m, nil
}

// yamlScalars returns the non-null scalar values of a mapping node keyed by
// their literal key text. A repeated key keeps its last value.
func yamlScalars(n *yaml.Node) map[string]string {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	out := make(map[string]string, len(n.Content)/2)
	for j := 0; j+1 < len(n.Content); j += 2 {
		k, v := n.Content[j], n.Content[j+1]
		if v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode || v.ShortTag() == "!!null" {
			delete(out, k.Value)
			continue
		}
		out[k.Value] = v.Value
	}
	return out
}

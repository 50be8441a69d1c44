package store

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/streakr/internal/habit"
)

// Documents carry a YAML header block between --- delimiter lines, followed
// by free-form body text:
//
//	---
//	title: Morning run
//	habit: true
//	history:
//	  - 2025-11-11
//	  - 2025-11-12
//	count: 2
//	---
//	body text, preserved verbatim
//
// Parsing goes through plain maps; writing goes through *yaml.Node trees so
// that keys owned by other tools keep their position and style.

// splitDocument separates the raw header block from the body. ok is false
// when the text has no header block at all.
func splitDocument(text string) (header, body string, ok bool) {
	if !strings.HasPrefix(text, "---\n") {
		return "", text, false
	}
	rest := text[4:]
	if strings.HasPrefix(rest, "---\n") {
		return "", rest[4:], true
	}
	if i := strings.Index(rest, "\n---\n"); i >= 0 {
		return rest[:i+1], rest[i+5:], true
	}
	if strings.HasSuffix(rest, "\n---") {
		return rest[:len(rest)-3], "", true
	}
	return "", text, false
}

// ExtractHeader returns the raw header block of a document, or ok=false
// when the text has none.
func ExtractHeader(text string) (raw string, ok bool) {
	raw, _, ok = splitDocument(text)
	return raw, ok
}

// ParseHeader decodes a raw header block into a key/value map. A malformed
// block yields nil, the same as no header at all.
func ParseHeader(raw string) map[string]any {
	var m map[string]any
	if err := yaml.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

// ParseHeaderBlock extracts and decodes the header of a full document text.
// Returns nil when the document has no parseable header.
func ParseHeaderBlock(text string) map[string]any {
	raw, _, ok := splitDocument(text)
	if !ok {
		return nil
	}
	return ParseHeader(raw)
}

// parseRecord builds a habit record from a full document text. The title is
// required; history entries pass through NormalizeHistory.
func parseRecord(path, text string, cfg Config) (habit.Record, error) {
	raw, _, ok := splitDocument(text)
	if !ok {
		return habit.Record{}, fmt.Errorf("parse %s: no header block", path)
	}
	m := ParseHeader(raw)
	if m == nil {
		return habit.Record{}, fmt.Errorf("parse %s: malformed header", path)
	}

	rec := habit.Record{
		Path:     path,
		Title:    asString(m["title"]),
		Trigger:  asString(m["trigger"]),
		Schedule: asString(m["schedule"]),
	}
	if rec.Title == "" {
		return habit.Record{}, fmt.Errorf("parse %s: missing title", path)
	}

	switch v := m["history"].(type) {
	case []any:
		rec.History = NormalizeHistory(v)
	case nil:
	default:
		// A single scalar instead of a list still counts as one entry.
		rec.History = NormalizeHistory([]any{v})
	}

	if !cfg.DeriveCount {
		if n, ok := asInt(m["count"]); ok {
			rec.Count = &n
		}
	}
	return rec, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// headerNode parses the existing header of text into a mutable mapping node
// and returns it with the body. A missing or malformed header yields a fresh
// mapping and the entire original text as the body, so nothing is lost.
func headerNode(text string) (*yaml.Node, string) {
	raw, body, ok := splitDocument(text)
	if !ok {
		return newMappingNode(), text
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil ||
		len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return newMappingNode(), text
	}
	return doc.Content[0], body
}

// overlayRecord merges rec's fields into the mapping, forcing the flag field
// true. Existing keys keep their position; new keys append in the canonical
// order title, flag, trigger, schedule, history, count. Empty trigger and
// schedule are removed.
func overlayRecord(mapping *yaml.Node, rec habit.Record, flagField string) {
	upsertKey(mapping, "title", strNode(rec.Title))
	upsertKey(mapping, flagField, boolNode(true))

	if rec.Trigger != "" {
		upsertKey(mapping, "trigger", strNode(rec.Trigger))
	} else {
		deleteKey(mapping, "trigger")
	}
	if rec.Schedule != "" {
		upsertKey(mapping, "schedule", strNode(rec.Schedule))
	} else {
		deleteKey(mapping, "schedule")
	}

	upsertKey(mapping, "history", historyNode(rec.History))
	upsertKey(mapping, "count", intNode(rec.DeriveCount()))
}

// renderDocument serializes the header mapping and reattaches the body
// verbatim.
func renderDocument(mapping *yaml.Node, body string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode header: %w", err)
	}
	return "---\n" + buf.String() + "---\n" + body, nil
}

// --- yaml.Node helpers ---

func newMappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// findKey returns the index of the key node within the mapping's content
// slice, or -1.
func findKey(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func upsertKey(mapping *yaml.Node, key string, value *yaml.Node) {
	if i := findKey(mapping, key); i >= 0 {
		mapping.Content[i+1] = value
		return
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	mapping.Content = append(mapping.Content, k, value)
}

func deleteKey(mapping *yaml.Node, key string) {
	if i := findKey(mapping, key); i >= 0 {
		mapping.Content = append(mapping.Content[:i], mapping.Content[i+2:]...)
	}
}

func strNode(s string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(s)
	return n
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

// historyNode renders the history as a block sequence of plain YYYY-MM-DD
// scalars, matching the on-disk shape other tools expect. Empty histories
// collapse to a flow [].
func historyNode(days []habit.Day) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(days) == 0 {
		seq.Style = yaml.FlowStyle
		return seq
	}
	sorted := append([]habit.Day(nil), days...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, d := range sorted {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: string(d)})
	}
	return seq
}

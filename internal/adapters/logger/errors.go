package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager is implemented by zerr errors: Message returns the text of one link
// without its causes.
type messager interface {
	Message() string
}

// metadataCarrier is implemented by zerr errors that carry structured context.
type metadataCarrier interface {
	Metadata() map[string]any
}

// errorEntry is one link of an error chain.
type errorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks err outermost first. zerr links contribute their own
// message and metadata; the first foreign error contributes its full text and ends
// the walk. A zerr link without a message only carries metadata, which moves to the
// next entry.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	var carried map[string]any
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{Message: current.Error(), Metadata: carried})
			break
		}

		md := carried
		carried = nil
		if mc, ok := current.(metadataCarrier); ok {
			md = merge(md, mc.Metadata())
		}

		if m.Message() == "" && errors.Unwrap(current) != nil {
			carried = md
		} else {
			entries = append(entries, errorEntry{Message: m.Message(), Metadata: md})
		}
		current = errors.Unwrap(current)
	}
	return entries
}

func merge(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// formatErrorEntries renders entries as
//
//	Error: outer
//	       key: value
//
//	  Caused by:
//	    → inner
func formatErrorEntries(entries []errorEntry) string {
	var lines []string
	for i, e := range entries {
		msgLines := strings.Split(e.Message, "\n")

		lead, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			lead, indent = "    → ", "      "
		}

		lines = append(lines, lead+msgLines[0])
		for _, l := range msgLines[1:] {
			lines = append(lines, indent+l)
		}
		for _, k := range slices.Sorted(maps.Keys(e.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, e.Metadata[k]))
		}
	}
	return strings.Join(lines, "\n")
}

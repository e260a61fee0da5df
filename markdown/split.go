// Package markdown splits converted documents into heading-scoped chunks and
// handles YAML front matter.
package markdown

import "strings"

// Chunk is one heading-delimited span of a markdown document. Headings holds
// the heading titles that scope the chunk, outermost first; the heading line
// itself stays part of Text.
type Chunk struct {
	Headings []string
	Text     string
	Tokens   int
}

// Split cuts text at heading boundaries (levels 1 to 6). Text between two
// headings is never split further, and heading markers inside fenced code
// blocks are ignored. Content before the first heading becomes a chunk with
// no headings. Order follows the document.
func Split(text string) []Chunk {
	var (
		chunks  []Chunk
		current strings.Builder
		context [6]string
		inFence bool
	)

	flush := func() {
		body := strings.TrimSpace(current.String())
		current.Reset()
		if body == "" {
			return
		}
		chunks = append(chunks, Chunk{Headings: activeHeadings(context), Text: body})
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}

		if level, title, ok := parseHeading(line); ok && !inFence {
			flush()
			context[level-1] = title
			for i := level; i < len(context); i++ {
				context[i] = ""
			}
		}

		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	return chunks
}

func parseHeading(line string) (level int, title string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	i := 0
	for i < len(trimmed) && trimmed[i] == '#' {
		i++
	}
	if i == 0 || i > 6 {
		return 0, "", false
	}
	if i < len(trimmed) && trimmed[i] != ' ' {
		return 0, "", false
	}
	return i, strings.TrimSpace(trimmed[i:]), true
}

func activeHeadings(context [6]string) []string {
	var out []string
	for _, h := range context {
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

package ingest

import "strings"

// Splitter cuts source text into retrieval-sized chunks. It splits on the
// strongest boundary available (paragraph, then line, then word) and merges
// the pieces back into chunks of at most chunkSize runes, carrying
// overlap runes of trailing text into the next chunk so passage boundaries
// do not cut facts in half.
type Splitter struct {
	chunkSize int
	overlap   int
}

var boundaries = []string{"\n\n", "\n", " "}

// NewSplitter creates a splitter. Zero values select the defaults
// (1000-rune chunks, 200-rune overlap); overlap is clamped below chunkSize.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 200
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Split returns the chunks for text, in document order. Whitespace-only
// input yields no chunks.
func (s *Splitter) Split(text string) []string {
	return s.merge(s.segment(text, boundaries))
}

// segment recursively cuts text into pieces no longer than chunkSize,
// preferring the earliest boundary in the hierarchy that gets it there.
func (s *Splitter) segment(text string, seps []string) []string {
	if runeLen(text) <= s.chunkSize {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}
	if len(seps) == 0 {
		return s.hardCut(text)
	}

	var out []string
	for _, piece := range splitAfter(text, seps[0]) {
		out = append(out, s.segment(piece, seps[1:])...)
	}
	return out
}

// hardCut windows unbreakable text. The window step keeps the configured
// overlap even without a natural boundary.
func (s *Splitter) hardCut(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// merge packs segments into chunks of at most chunkSize runes. When a chunk
// flushes, trailing segments totalling at most overlap runes seed the next
// chunk.
func (s *Splitter) merge(segments []string) []string {
	var chunks []string
	var buf []string
	bufLen := 0
	fresh := false // buf holds segments not yet emitted

	flush := func() {
		chunk := strings.TrimSpace(strings.Join(buf, ""))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		fresh = false
	}

	for _, seg := range segments {
		segLen := runeLen(seg)
		if bufLen+segLen > s.chunkSize && fresh {
			flush()
			for len(buf) > 0 && (bufLen > s.overlap || bufLen+segLen > s.chunkSize) {
				bufLen -= runeLen(buf[0])
				buf = buf[1:]
			}
		}
		buf = append(buf, seg)
		bufLen += segLen
		fresh = true
	}
	if fresh {
		flush()
	}
	return chunks
}

// splitAfter is strings.SplitAfter without producing a trailing empty piece.
func splitAfter(text, sep string) []string {
	pieces := strings.SplitAfter(text, sep)
	if n := len(pieces); n > 0 && pieces[n-1] == "" {
		pieces = pieces[:n-1]
	}
	return pieces
}

func runeLen(s string) int {
	return len([]rune(s))
}

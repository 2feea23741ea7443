// Package loader turns raw documents into overlap-stitched, size-bounded
// chunks ready for embedding.
//
// A DocumentLoader accumulates page-level text fragments from files or
// directories, optionally stitches text across page boundaries so sentences
// split by pagination stay retrievable, and finally fragments everything into
// fixed-size overlapping chunks that inherit their source provenance.
package loader

import (
	"strings"
	"unicode/utf8"

	"github.com/ragline/ragline"
)

// DefaultDelimiters are the sentence boundary characters used by overlap
// stitching and the chunk splitter.
const DefaultDelimiters = ".!?\n"

// DefaultOverlapRatio is the fraction of each page's length borrowed across a
// page boundary by OverlapPages.
const DefaultOverlapRatio = 0.15

const (
	defaultChunkSize    = 300
	defaultChunkOverlap = 60
)

// DocumentLoader accumulates page fragments and splits them into chunks.
// It is not safe for concurrent use.
type DocumentLoader struct {
	fragments    []ragline.PageFragment
	chunkSize    int
	chunkOverlap int
}

// Option configures a DocumentLoader.
type Option func(*DocumentLoader)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) Option {
	return func(l *DocumentLoader) {
		if size > 0 {
			l.chunkSize = size
		}
	}
}

// WithChunkOverlap sets how many trailing characters of one chunk are carried
// into the next chunk from the same fragment.
func WithChunkOverlap(overlap int) Option {
	return func(l *DocumentLoader) {
		if overlap >= 0 {
			l.chunkOverlap = overlap
		}
	}
}

// New creates a DocumentLoader. Defaults: chunk size 300, chunk overlap 60.
func New(opts ...Option) *DocumentLoader {
	l := &DocumentLoader{
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add appends already-parsed page fragments to the loader, preserving order.
// A fragment missing required metadata is a fatal input error and nothing is
// appended.
func (l *DocumentLoader) Add(fragments ...ragline.PageFragment) error {
	for _, f := range fragments {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	l.fragments = append(l.fragments, fragments...)
	return nil
}

// Fragments returns the current fragment sequence. The returned slice is the
// loader's own backing store; callers must not mutate it.
func (l *DocumentLoader) Fragments() []ragline.PageFragment {
	return l.fragments
}

// OverlapPages stitches text across page boundaries. For every adjacent pair
// of fragments from the same document but different pages, a trailing slice of
// the earlier page and a leading slice of the later page (each overlapRatio of
// its page's length) are borrowed and exchanged: the borrowed head of the
// later page is appended to the earlier page, and the borrowed tail of the
// earlier page is prepended to the later page. Each borrowed slice is trimmed
// to the nearest delimiter so stitched text does not split mid-sentence; when
// the slice contains no delimiter at all the full slice is used.
//
// Adjacency is determined by sequence position, not by page labels. If
// fragments arrive out of source order, unrelated pages may be stitched.
//
// overlapRatio <= 0 falls back to DefaultOverlapRatio; ratios of 1 or more
// borrow entire pages. An empty delimiters string falls back to
// DefaultDelimiters. Borrowed slices are cut on rune boundaries, so stitching
// never produces invalid UTF-8.
func (l *DocumentLoader) OverlapPages(overlapRatio float64, delimiters string) {
	if overlapRatio <= 0 {
		overlapRatio = DefaultOverlapRatio
	}
	if delimiters == "" {
		delimiters = DefaultDelimiters
	}

	for i := 0; i+1 < len(l.fragments); i++ {
		p1 := &l.fragments[i]
		p2 := &l.fragments[i+1]
		if p1.DocumentName != p2.DocumentName || p1.Page == p2.Page {
			continue
		}

		text1 := p1.Text
		text2 := p2.Text
		tail := text1[runeAligned(text1, len(text1)-int(overlapRatio*float64(len(text1)))):]
		head := text2[:runeAligned(text2, int(overlapRatio*float64(len(text2))))]

		// The borrowed tail opens right after its first delimiter so it
		// starts on a sentence boundary.
		if idx := strings.IndexAny(tail, delimiters); idx >= 0 {
			tail = tail[idx+1:]
		}
		// The borrowed head closes at its last delimiter so it ends a
		// sentence.
		if idx := strings.LastIndexAny(head, delimiters); idx >= 0 {
			head = head[:idx+1]
		}

		p1.Text = text1 + head
		p2.Text = tail + text2
	}
}

// runeAligned clamps a byte offset into s and backs it up to the start of the
// rune it falls inside, keeping slice cuts valid UTF-8.
func runeAligned(s string, i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// Split fragments every page into chunks bounded by the configured chunk size,
// with the configured overlap shared between consecutive chunks from the same
// fragment. Each chunk inherits its fragment's provenance; embeddings are left
// empty. An empty fragment set yields an empty chunk sequence.
func (l *DocumentLoader) Split() []ragline.Chunk {
	var chunks []ragline.Chunk
	for _, f := range l.fragments {
		for _, text := range splitText(f.Text, l.chunkSize, l.chunkOverlap) {
			chunks = append(chunks, ragline.Chunk{
				Text:         text,
				DocumentName: f.DocumentName,
				DocumentPath: f.DocumentPath,
				Page:         f.Page,
			})
		}
	}
	return chunks
}

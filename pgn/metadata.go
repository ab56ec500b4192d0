// Package pgn formats encoded games as PGN text and parses them back.
package pgn

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Tag values written into every game.
const (
	DefaultEvent = "Check-MateData"
	DefaultSite  = "Web party"
	DefaultWhite = "Player"

	// DefaultExtension is written when the payload has no file extension.
	DefaultExtension = "bin"

	extensionSuffix = " File"
	dateLayout      = "2006.01.02"
	timeLayout      = "15:04:05"
	unknownDate     = "????.??.??"
)

// Tag names, Seven Tag Roster first.
const (
	TagEvent       = "Event"
	TagSite        = "Site"
	TagDate        = "Date"
	TagRound       = "Round"
	TagWhite       = "White"
	TagBlack       = "Black"
	TagResult      = "Result"
	TagTime        = "Time"
	TagOrdering    = "Ordering"
	TagLength      = "Length"
	TagCompression = "Compression"
)

var knownTags = []string{
	TagEvent, TagSite, TagDate, TagRound, TagWhite, TagBlack, TagResult,
	TagTime, TagOrdering, TagLength, TagCompression,
}

// Metadata is the header information carried with a game. The file extension
// travels in the Black tag as "<ext> File" for compatibility with older archives.
type Metadata struct {
	Event     string
	Site      string
	Played    time.Time // zero renders as an unknown date
	Round     int
	White     string
	Extension string
	Result    string

	// Ordering names the legal move ordering the game was encoded with.
	Ordering string
	// Length is the exact payload size in bytes; negative when unknown.
	Length int
	// Compression names the shrink-only compressor applied to the payload, empty for none.
	Compression string

	// Extra holds tags this package does not interpret.
	Extra map[string]string
}

// NewMetadata returns metadata with the default tag values and an unknown length.
func NewMetadata() Metadata {
	return Metadata{
		Event:     DefaultEvent,
		Site:      DefaultSite,
		White:     DefaultWhite,
		Extension: DefaultExtension,
		Result:    "*",
		Length:    -1,
	}
}

// NormalizeExtension lower-cases an extension and strips a leading dot.
// An empty extension becomes DefaultExtension.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return DefaultExtension
	}
	return ext
}

// Tag is a single PGN tag pair.
type Tag struct {
	Name  string
	Value string
}

// Tags returns the tag pairs in PGN export order.
func (m Metadata) Tags() []Tag {
	date := unknownDate
	if !m.Played.IsZero() {
		date = m.Played.Format(dateLayout)
	}
	round := "?"
	if m.Round > 0 {
		round = strconv.Itoa(m.Round)
	}
	result := m.Result
	if result == "" {
		result = "*"
	}
	tags := []Tag{
		{TagEvent, m.Event},
		{TagSite, m.Site},
		{TagDate, date},
		{TagRound, round},
		{TagWhite, m.White},
		{TagBlack, NormalizeExtension(m.Extension) + extensionSuffix},
		{TagResult, result},
	}
	if !m.Played.IsZero() {
		tags = append(tags, Tag{TagTime, m.Played.Format(timeLayout)})
	}
	if m.Ordering != "" {
		tags = append(tags, Tag{TagOrdering, m.Ordering})
	}
	if m.Length >= 0 {
		tags = append(tags, Tag{TagLength, strconv.Itoa(m.Length)})
	}
	if m.Compression != "" {
		tags = append(tags, Tag{TagCompression, m.Compression})
	}
	extra := maps.Keys(m.Extra)
	slices.Sort(extra)
	for _, k := range extra {
		tags = append(tags, Tag{k, m.Extra[k]})
	}
	return tags
}

// MetadataFromTags interprets parsed tag pairs. Unknown tags land in Extra.
// Malformed numeric values are treated as absent.
func MetadataFromTags(tags map[string]string) Metadata {
	m := Metadata{
		Event:       tags[TagEvent],
		Site:        tags[TagSite],
		White:       tags[TagWhite],
		Result:      tags[TagResult],
		Ordering:    tags[TagOrdering],
		Compression: tags[TagCompression],
		Length:      -1,
	}
	m.Extension = extensionFromBlack(tags[TagBlack])
	if n, err := strconv.Atoi(tags[TagRound]); err == nil && n > 0 {
		m.Round = n
	}
	if n, err := strconv.Atoi(tags[TagLength]); err == nil && n >= 0 {
		m.Length = n
	}
	if d, err := time.Parse(dateLayout, tags[TagDate]); err == nil {
		if c, err := time.Parse(timeLayout, tags[TagTime]); err == nil {
			d = d.Add(time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute + time.Duration(c.Second())*time.Second)
		}
		m.Played = d
	}
	for k, v := range tags {
		if slices.Contains(knownTags, k) {
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]string)
		}
		m.Extra[k] = v
	}
	return m
}

// extensionFromBlack recovers the extension from a "<EXT> File" player name.
func extensionFromBlack(black string) string {
	black = strings.TrimSpace(black)
	if !strings.HasSuffix(black, extensionSuffix) {
		return DefaultExtension
	}
	return NormalizeExtension(strings.TrimSuffix(black, extensionSuffix))
}

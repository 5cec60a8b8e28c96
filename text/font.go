// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package text

import (
	"bytes"
	"errors"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/pop-os/iced/scene"
)

// ErrFontParse is returned when font data cannot be parsed.
var ErrFontParse = errors.New("text: font parse failed")

// ErrUnknownFont is returned when a font ID has not been registered.
var ErrUnknownFont = errors.New("text: unknown font")

// GID is a glyph index within a font.
type GID uint32

// fontEntry holds both parsed views of a registered font. The
// typesetting Font drives shaping, the sfnt Font drives outline
// extraction. Both wrap the same underlying data.
type fontEntry struct {
	name  string
	typo  *font.Font
	sfnt  *sfnt.Font
	upem  float32
}

// Store registers font data and resolves font IDs.
//
// Fonts are parsed once at registration. Store is safe for concurrent
// use; parsed fonts are read-only afterwards.
type Store struct {
	mu    sync.RWMutex
	fonts map[scene.FontID]*fontEntry
	next  scene.FontID
}

// NewStore creates an empty font store.
func NewStore() *Store {
	return &Store{fonts: make(map[scene.FontID]*fontEntry)}
}

// Register parses TTF or OTF data and returns the ID to reference it
// by in text primitives.
func (s *Store) Register(name string, data []byte) (scene.FontID, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return 0, errors.Join(ErrFontParse, err)
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return 0, errors.Join(ErrFontParse, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := s.next
	s.fonts[id] = &fontEntry{
		name: name,
		typo: face.Font,
		sfnt: sf,
		upem: float32(sf.UnitsPerEm()),
	}
	return id, nil
}

// Lookup returns the registered name of a font ID.
func (s *Store) Lookup(id scene.FontID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.fonts[id]
	if !ok {
		return "", false
	}
	return e.name, true
}

// Len returns the number of registered fonts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fonts)
}

func (s *Store) entry(id scene.FontID) (*fontEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.fonts[id]
	if !ok {
		return nil, ErrUnknownFont
	}
	return e, nil
}

// Metrics describes the vertical extent of a font at a given size.
type Metrics struct {
	Ascent  float32
	Descent float32
	LineGap float32
}

// Height returns the default line height.
func (m Metrics) Height() float32 { return m.Ascent + m.Descent + m.LineGap }

// Metrics returns font metrics scaled to the given pixel size.
func (s *Store) Metrics(id scene.FontID, size float32) (Metrics, error) {
	e, err := s.entry(id)
	if err != nil {
		return Metrics{}, err
	}
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(size * 64)
	m, err := e.sfnt.Metrics(&buf, ppem, 0)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{
		Ascent:  float32(m.Ascent) / 64,
		Descent: float32(m.Descent) / 64,
		LineGap: float32(m.Height-m.Ascent-m.Descent) / 64,
	}, nil
}

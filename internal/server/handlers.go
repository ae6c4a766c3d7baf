package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/buildinfo"
	"github.com/matzehuels/blockdock/pkg/cache"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	"github.com/matzehuels/blockdock/pkg/geometry"
	"github.com/matzehuels/blockdock/pkg/store"
)

// PublishedCategory is the catalog category published definitions join.
const PublishedCategory = "published"

type blockInfo struct {
	ID           string                    `json:"id"`
	Kind         block.Kind                `json:"kind"`
	Variant      string                    `json:"variant"`
	Branches     int                       `json:"branches,omitempty"`
	Color        block.Color               `json:"color"`
	Code         string                    `json:"code"`
	Text         string                    `json:"text"`
	Slots        []string                  `json:"slots,omitempty"`
	SlotTypes    map[string]block.SlotType `json:"slot_types,omitempty"`
	Translations map[string]string         `json:"translations,omitempty"`
	Width        float64                   `json:"width"`
	Height       float64                   `json:"height"`
	Version      uint16                    `json:"version,omitempty"`
	Status       string                    `json:"status,omitempty"`
}

func newBlockInfo(t *block.Template, lang string) blockInfo {
	m := t.Meta(lang)
	return blockInfo{
		ID:           t.ID,
		Kind:         t.Kind,
		Variant:      t.Variant.Sockets().String(),
		Branches:     t.Variant.Branches(),
		Color:        t.Color,
		Code:         t.Code,
		Text:         t.Text(lang),
		Slots:        t.Slots(lang),
		SlotTypes:    t.SlotTypes,
		Translations: t.Translations,
		Width:        m.Size.W,
		Height:       m.Size.H,
	}
}

func (b *blockInfo) setVersion(info codec.Info) {
	b.Version = info.Version
	b.Status = info.Status.String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"version":           buildinfo.Version,
		"definition_format": codec.FormatVersion,
		"templates":         s.catalog.Len(),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	type category struct {
		Name   string      `json:"name"`
		Blocks []blockInfo `json:"blocks"`
	}
	lang := r.URL.Query().Get("lang")

	cats := s.catalog.Categories()
	out := struct {
		Categories []category `json:"categories"`
		Problems   []string   `json:"problems,omitempty"`
	}{Categories: make([]category, 0, len(cats))}

	for _, c := range cats {
		cat := category{Name: c.Name, Blocks: make([]blockInfo, 0, len(c.IDs))}
		for _, id := range c.IDs {
			t, err := s.catalog.Lookup(id)
			if err != nil {
				continue
			}
			cat.Blocks = append(cat.Blocks, newBlockInfo(t, lang))
		}
		out.Categories = append(out.Categories, cat)
	}
	for _, p := range s.catalog.Problems {
		out.Problems = append(out.Problems, p.String())
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	t, err := s.catalog.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	info := newBlockInfo(t, r.URL.Query().Get("lang"))
	if v, ok := s.catalog.Version(t.ID); ok {
		info.setVersion(v)
	}
	s.writeJSON(w, http.StatusOK, info)
}

// outlineEntry is the cached form of an outline: it depends only on the
// block metadata, so templates sharing a shape share an entry.
type outlineEntry struct {
	ViewBox [4]float64 `json:"view_box"`
	Path    string     `json:"path"`
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	t, err := s.catalog.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	m := t.Meta(q.Get("lang"))
	width, err := floatParam(q.Get("width"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	height, err := floatParam(q.Get("height"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	m.Size = block.ClampSize(m.Kind, m.SlotCount, block.Size{W: width, H: height})

	entry, err := s.outline(r, m)
	if err != nil {
		s.writeError(w, err)
		return
	}

	vb := entry.ViewBox
	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		vb[0], vb[1], vb[2], vb[3], vb[2], vb[3])
	fmt.Fprintf(w, `  <path d="%s" fill="%s" stroke="%s" stroke-width="1"/>`+"\n", entry.Path, t.Color.Hex(), t.Color.Border().Hex())
	fmt.Fprint(w, "</svg>\n")
}

func (s *Server) outline(r *http.Request, m block.Meta) (outlineEntry, error) {
	ctx := r.Context()
	key := s.keyer.OutlineKey(m)
	var entry outlineEntry

	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		if json.Unmarshal(data, &entry) == nil {
			return entry, nil
		}
	} else if err != nil {
		s.logger.Warn("outline cache read failed", "err", err)
	}

	const pad = 2.0
	p := geometry.DrawOutline(m)
	lo, hi := p.Bounds()
	entry = outlineEntry{
		ViewBox: [4]float64{lo.X - pad, lo.Y - pad, hi.X - lo.X + 2*pad, hi.Y - lo.Y + 2*pad},
		Path:    p.SVG(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return entry, err
	}
	if err := s.cache.Set(ctx, key, data, cache.TTLOutline); err != nil {
		s.logger.Warn("outline cache write failed", "err", err)
	}
	return entry, nil
}

func (s *Server) handleBlockDefinition(w http.ResponseWriter, r *http.Request) {
	t, err := s.catalog.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDefinition(w, t)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	t, info, err := codec.Decode(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := newBlockInfo(t, r.URL.Query().Get("lang"))
	out.setVersion(info)
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	type entry struct {
		ID        string    `json:"id"`
		Size      int       `json:"size"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	out := make([]entry, len(entries))
	for i, e := range entries {
		out[i] = entry{ID: e.ID, Size: e.Size, UpdatedAt: e.UpdatedAt}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDefinition(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDefinition(w, t)
}

// handlePutDefinition stores a posted definition under {id} and adds it to
// the served catalog. The body must decode cleanly, carry a supported
// version and name the same identifier as the URL.
func (s *Server) handlePutDefinition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := bderrors.ValidateIdentifier(id); err != nil {
		s.writeError(w, err)
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	t, info, err := codec.Decode(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !info.Supported() {
		s.writeError(w, bderrors.New(bderrors.ErrCodeInvalidInput, "definition version %d is %s", info.Version, info.Status))
		return
	}
	if t.ID != id {
		s.writeError(w, bderrors.New(bderrors.ErrCodeInvalidIdentifier, "definition is %q, not %q", t.ID, id))
		return
	}
	if err := s.store.Put(r.Context(), t); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.catalog.Add(PublishedCategory, t); err != nil {
		s.logger.Warn("published definition not added to catalog", "id", id, "err", err)
	}
	s.logger.Info("published definition", "id", id, "bytes", len(data))

	out := newBlockInfo(t, "")
	out.setVersion(info)
	s.writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteDefinition(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeDefinition(w http.ResponseWriter, t *block.Template) {
	data, err := codec.Encode(t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.ID+codec.Ext))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDefinitionSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, bderrors.New(bderrors.ErrCodeTooLarge, "definition exceeds %d bytes", MaxDefinitionSize)
		}
		return nil, bderrors.Wrap(bderrors.ErrCodeInvalidInput, err, "read body")
	}
	return data, nil
}

func floatParam(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, bderrors.New(bderrors.ErrCodeInvalidInput, "invalid size %q", v)
	}
	if f > MaxOutlineSize {
		return 0, bderrors.New(bderrors.ErrCodeInvalidInput, "size %q exceeds %d", v, MaxOutlineSize)
	}
	return f, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := bderrors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code, status = bderrors.ErrCodeNotFound, http.StatusNotFound
	case bderrors.IsMalformed(err):
		status = http.StatusUnprocessableEntity
	case code == bderrors.ErrCodeNotFound, code == bderrors.ErrCodeTemplateNotFound, code == bderrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case code == bderrors.ErrCodeTooLarge:
		status = http.StatusRequestEntityTooLarge
	case code == bderrors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	case code == bderrors.ErrCodeStorage, code == bderrors.ErrCodeTimeout:
		status = http.StatusServiceUnavailable
	case code != "" && code != bderrors.ErrCodeInternal:
		status = http.StatusBadRequest
	}
	if code == "" {
		code = bderrors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{
		"error":   string(code),
		"message": bderrors.UserMessage(err),
	})
}

package serve

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dualpace/internal/domain/content"
	domainerr "dualpace/internal/domain/errors"
	"dualpace/internal/index"
	"dualpace/internal/related"
	"dualpace/internal/render"
)

type postDetail struct {
	Post     content.Post      `json:"post"`
	Headings []content.Heading `json:"headings"`
	Content  string            `json:"content"`
	HTML     string            `json:"html"`
}

type relatedResponse struct {
	Posts      []content.Post `json:"posts"`
	HasRelated bool           `json:"hasRelated"`
}

type categoryInfo struct {
	Category content.Category `json:"category"`
	Title    string           `json:"title"`
	Count    int              `json:"count"`
	Latest   string           `json:"latest,omitempty"`
}

type warningInfo struct {
	Path string `json:"path"`
	Msg  string `json:"message"`
}

func (h *handlers) apiLocale(w http.ResponseWriter, r *http.Request) (content.Locale, bool) {
	raw := chi.URLParam(r, "locale")
	loc, ok := h.locales.Supports(raw)
	if !ok {
		h.resp.writeError(w, domainerr.NotFoundError{Kind: "locale", Key: raw})
		return "", false
	}
	return loc, true
}

func queryInt(r *http.Request, key string, ve *domainerr.ValidationError) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		ve.Add(key, "must be a non-negative integer")
		return 0
	}
	return n
}

// apiPosts lists a locale newest first. ?category= narrows to one category;
// ?page= and ?size= page through the result.
func (h *handlers) apiPosts(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.apiLocale(w, r)
	if !ok {
		return
	}

	var ve domainerr.ValidationError
	opt := index.ListOptions{
		Page: queryInt(r, "page", &ve),
		Size: queryInt(r, "size", &ve),
	}
	var cat content.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, valid := content.ParseCategory(raw)
		if !valid {
			ve.Add("category", "unknown category")
		}
		cat = c
	}
	if ve.HasAny() {
		h.resp.writeError(w, ve)
		return
	}

	var (
		posts []content.Post
		err   error
	)
	if cat != "" {
		posts, err = h.s.idx.ListByCategory(loc, cat, opt)
	} else {
		posts, err = h.s.idx.List(loc, opt)
	}
	if err != nil {
		h.resp.writeError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusOK, posts)
}

func (h *handlers) apiPost(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.apiLocale(w, r)
	if !ok {
		return
	}
	e, err := h.s.idx.Get(loc, chi.URLParam(r, "slug"))
	if err != nil {
		h.resp.writeError(w, err)
		return
	}
	res, err := h.s.pages.MD.Render([]byte(e.Body))
	if err != nil {
		h.resp.writeError(w, err)
		return
	}
	h.resp.writeJSON(w, http.StatusOK, postDetail{
		Post:     e.Post,
		Headings: res.Headings,
		Content:  e.Body,
		HTML:     string(res.HTML),
	})
}

// apiRelated ranks related posts; ?limit= overrides the configured limit.
func (h *handlers) apiRelated(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.apiLocale(w, r)
	if !ok {
		return
	}
	var ve domainerr.ValidationError
	limit := queryInt(r, "limit", &ve)
	if ve.HasAny() {
		h.resp.writeError(w, ve)
		return
	}

	e, err := h.s.idx.Get(loc, chi.URLParam(r, "slug"))
	if err != nil {
		h.resp.writeError(w, err)
		return
	}
	all, err := h.s.idx.List(loc, index.ListOptions{})
	if err != nil {
		h.resp.writeError(w, err)
		return
	}

	opts := []related.Option{related.WithLimit(h.s.pages.RelatedLimit())}
	if r.URL.Query().Has("limit") {
		opts = append(opts, related.WithLimit(limit))
	}
	posts, has := related.For(e.Post, all, opts...)
	if posts == nil {
		posts = []content.Post{}
	}
	h.resp.writeJSON(w, http.StatusOK, relatedResponse{Posts: posts, HasRelated: has})
}

func (h *handlers) apiCategories(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.apiLocale(w, r)
	if !ok {
		return
	}
	sums, err := h.s.idx.Categories(loc)
	if err != nil {
		h.resp.writeError(w, err)
		return
	}
	out := make([]categoryInfo, 0, len(sums))
	for _, s := range sums {
		out = append(out, categoryInfo{
			Category: s.Category,
			Title:    render.CategoryTitle(s.Category, loc),
			Count:    s.Count,
			Latest:   s.Latest,
		})
	}
	h.resp.writeJSON(w, http.StatusOK, out)
}

func (h *handlers) apiWarnings(w http.ResponseWriter, r *http.Request) {
	warns := h.s.Warnings()
	out := make([]warningInfo, 0, len(warns))
	for _, wn := range warns {
		out = append(out, warningInfo{Path: wn.Path, Msg: wn.Msg})
	}
	h.resp.writeJSON(w, http.StatusOK, out)
}

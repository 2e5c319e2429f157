// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package lmstest provides an in-process fake of the micro-LMS API for tests.

Two servers are started: the API itself and a separate storage host that
serves the signed download links, so tests can observe which host received
which headers.

Usage:

	fake := lmstest.New(t)
	fake.AddCourse(lmstest.Course{ID: 1, Name: "Go: basics"})
	fake.AddTheme(1, lmstest.Theme{ID: 10, Name: "Неделя 1", Longreads: []lmstest.Longread{{ID: 100, Name: "Intro"}}})
	fake.AddFile(100, "notes.pdf", "v1", payload)
*/
package lmstest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
)

// Cookie is the credential the fake expects when [Server.RequireCookie] is set.
const Cookie = "bff.cookie=test-session"

// # Wire Schema

// Course mirrors one item of the student course list.
type Course struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	State      string `json:"state"`
	IsArchived bool   `json:"isArchived"`
}

// Longread mirrors a section nested in a theme.
type Longread struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Theme mirrors one node of the course overview.
type Theme struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Longreads []Longread `json:"longreads"`
}

// Material mirrors one item of a longread material list.
type Material struct {
	Discriminator string  `json:"discriminator"`
	Filename      string  `json:"filename,omitempty"`
	Version       string  `json:"version,omitempty"`
	Length        int64   `json:"length,omitempty"`
	ViewType      *string `json:"viewType,omitempty"`
	MediaType     *string `json:"mediaType,omitempty"`
}

// blob is a stored file body and the status the storage host answers with.
type blob struct {
	data   []byte
	status int
	noLink bool
}

// # Server

// Server is the fake LMS. All mutators are safe to call while requests are served.
type Server struct {
	API     *httptest.Server
	Storage *httptest.Server

	mu            sync.Mutex
	courses       []Course
	themes        map[int][]Theme
	materials     map[int][]Material
	blobs         map[string]*blob
	failures      map[string]int
	requireCookie bool
	hits          map[string]int
	queries       map[string]url.Values
	storageCookie bool
}

// New starts both servers and registers their shutdown with t.Cleanup.
func New(t testing.TB) *Server {
	t.Helper()

	server := &Server{
		themes:    make(map[int][]Theme),
		materials: make(map[int][]Material),
		blobs:     make(map[string]*blob),
		failures:  make(map[string]int),
		hits:      make(map[string]int),
		queries:   make(map[string]url.Values),
	}

	server.API = httptest.NewServer(server.apiRouter())
	server.Storage = httptest.NewServer(server.storageRouter())

	t.Cleanup(func() {
		server.API.Close()
		server.Storage.Close()
	})

	return server
}

// # Fixtures

// AddCourse appends a course to the student list. An empty state defaults to published.
func (server *Server) AddCourse(course Course) {
	server.mu.Lock()
	defer server.mu.Unlock()

	if course.State == "" {
		course.State = constants.CourseStatePublished
	}
	server.courses = append(server.courses, course)
}

// AddTheme appends a theme to the overview of a course.
func (server *Server) AddTheme(courseID int, theme Theme) {
	server.mu.Lock()
	defer server.mu.Unlock()

	for i := range theme.Longreads {
		if theme.Longreads[i].Type == "" {
			theme.Longreads[i].Type = "common"
		}
	}
	server.themes[courseID] = append(server.themes[courseID], theme)
}

// AddMaterial appends a raw material (file or not) to a longread.
func (server *Server) AddMaterial(longreadID int, material Material) {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.materials[longreadID] = append(server.materials[longreadID], material)
}

// AddFile appends a downloadable file to a longread and stores its body.
func (server *Server) AddFile(longreadID int, filename, version string, data []byte) {
	server.AddMaterial(longreadID, Material{
		Discriminator: constants.DiscriminatorFile,
		Filename:      filename,
		Version:       version,
		Length:        int64(len(data)),
	})
	server.SetBlob(filename, version, http.StatusOK, data)
}

// SetBlob replaces the body and status served for (filename, version).
func (server *Server) SetBlob(filename, version string, status int, data []byte) {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.blobs[key(filename, version)] = &blob{data: data, status: status}
}

// WithoutLink makes the download-link endpoint answer without a url for (filename, version).
func (server *Server) WithoutLink(filename, version string) {
	server.mu.Lock()
	defer server.mu.Unlock()

	if stored, ok := server.blobs[key(filename, version)]; ok {
		stored.noLink = true
		return
	}
	server.blobs[key(filename, version)] = &blob{noLink: true}
}

// FailNext makes the next n requests to path answer with status 503.
func (server *Server) FailNext(path string, n int) {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.failures[path] = n
}

// RequireCookie makes every API endpoint answer 401 unless [Cookie] is sent.
func (server *Server) RequireCookie() {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.requireCookie = true
}

// Hits returns how many times an API path or storage key was requested.
func (server *Server) Hits(path string) int {
	server.mu.Lock()
	defer server.mu.Unlock()

	return server.hits[path]
}

// LastQuery returns the query string of the latest request to an API path, or nil.
func (server *Server) LastQuery(path string) url.Values {
	server.mu.Lock()
	defer server.mu.Unlock()

	return server.queries[path]
}

// StorageSawCookie reports whether the storage host ever received the session cookie.
func (server *Server) StorageSawCookie() bool {
	server.mu.Lock()
	defer server.mu.Unlock()

	return server.storageCookie
}

// Headers returns request headers that satisfy [Server.RequireCookie].
func Headers() http.Header {
	headers := http.Header{}
	headers.Set("Cookie", Cookie)
	return headers
}

// # Routing

func (server *Server) apiRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(server.guard)

	router.Route("/api/micro-lms", func(r chi.Router) {
		r.Get("/courses/student", server.handleCourses)
		r.Get("/courses/{id}/overview", server.handleOverview)
		r.Get("/longreads/{id}/materials", server.handleMaterials)
		r.Get("/content/download-link", server.handleDownloadLink)
	})

	return router
}

func (server *Server) storageRouter() http.Handler {
	router := chi.NewRouter()
	router.Get("/files/{key}", server.handleBlob)
	return router
}

// guard counts hits and applies the cookie and failure injection rules.
func (server *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		server.mu.Lock()
		server.hits[request.URL.Path]++
		server.queries[request.URL.Path] = request.URL.Query()
		requireCookie := server.requireCookie
		failing := server.failures[request.URL.Path] > 0
		if failing {
			server.failures[request.URL.Path]--
		}
		server.mu.Unlock()

		if requireCookie && request.Header.Get("Cookie") != Cookie {
			writeJSON(writer, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		if failing {
			writeJSON(writer, http.StatusServiceUnavailable, map[string]string{"error": "try again later"})
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// # Handlers

func (server *Server) handleCourses(writer http.ResponseWriter, request *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()

	state := request.URL.Query().Get(constants.QueryState)

	items := make([]Course, 0, len(server.courses))
	for _, course := range server.courses {
		if state == "" || course.State == state {
			items = append(items, course)
		}
	}

	writeJSON(writer, http.StatusOK, map[string]any{"items": items})
}

func (server *Server) handleOverview(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	themes, found := server.themes[id]
	if !found && !server.hasCourse(id) {
		writeJSON(writer, http.StatusNotFound, map[string]string{"error": "course not found"})
		return
	}
	if themes == nil {
		themes = []Theme{}
	}

	writeJSON(writer, http.StatusOK, map[string]any{"id": id, "themes": themes})
}

func (server *Server) handleMaterials(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	items, found := server.materials[id]
	if !found {
		items = []Material{}
	}

	writeJSON(writer, http.StatusOK, map[string]any{"items": items})
}

func (server *Server) handleDownloadLink(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	k := key(query.Get(constants.QueryFilename), query.Get(constants.QueryVersion))

	server.mu.Lock()
	stored, found := server.blobs[k]
	server.mu.Unlock()

	if !found {
		writeJSON(writer, http.StatusNotFound, map[string]string{"error": "file not found"})
		return
	}
	if stored.noLink {
		writeJSON(writer, http.StatusOK, map[string]any{})
		return
	}

	link := server.Storage.URL + "/files/" + url.PathEscape(k) + "?X-Amz-Signature=signed"
	writeJSON(writer, http.StatusOK, map[string]string{"url": link})
}

func (server *Server) handleBlob(writer http.ResponseWriter, request *http.Request) {
	k := chi.URLParam(request, "key")
	if unescaped, err := url.PathUnescape(k); err == nil {
		k = unescaped
	}

	server.mu.Lock()
	server.hits[k]++
	if request.Header.Get("Cookie") != "" {
		server.storageCookie = true
	}
	stored, found := server.blobs[k]
	server.mu.Unlock()

	if !found {
		http.NotFound(writer, request)
		return
	}

	writer.Header().Set("Content-Type", "application/octet-stream")
	writer.WriteHeader(stored.status)
	_, _ = writer.Write(stored.data)
}

// # Helpers

func (server *Server) hasCourse(id int) bool {
	for _, course := range server.courses {
		if course.ID == id {
			return true
		}
	}
	return false
}

func pathID(writer http.ResponseWriter, request *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(request, "id"))
	if err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// key identifies a stored blob by its natural download key.
func key(filename, version string) string {
	return fmt.Sprintf("%s@%s", filename, version)
}

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

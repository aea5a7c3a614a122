// Package livednstest provides an in-memory LiveDNS API for tests.
package livednstest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/catalystcommunity/livedns/internal/livedns"
)

// Zone is the server-side state of one zone
type Zone struct {
	UUID    string
	Name    string
	Domains []string
	Records []livedns.Record
	Text    string
}

// Call records one request received by the server
type Call struct {
	Method string
	Path   string
}

type failure struct {
	status int
	body   string
}

// Server is a fake LiveDNS API backed by httptest.Server
type Server struct {
	*httptest.Server

	APIKey string
	// PutStatus is the status returned by successful record replacement (default 201)
	PutStatus int
	// CreateStatus is the status returned by successful zone creation (default 200)
	CreateStatus int
	// CreateUUID is the uuid assigned to the next created zone
	CreateUUID string

	mu       sync.Mutex
	order    []string
	zones    map[string]*Zone
	calls    []Call
	failures map[string]failure
}

// NewServer starts a fake API accepting apiKey and holding the given zones
func NewServer(apiKey string, zones ...Zone) *Server {
	s := &Server{
		APIKey:       apiKey,
		PutStatus:    http.StatusCreated,
		CreateStatus: http.StatusOK,
		zones:        make(map[string]*Zone),
		failures:     make(map[string]failure),
	}
	for _, z := range zones {
		s.AddZone(z)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /zones", s.listZones)
	mux.HandleFunc("POST /zones", s.createZone)
	mux.HandleFunc("GET /zones/{uuid}", s.getZone)
	mux.HandleFunc("GET /zones/{uuid}/domains", s.listDomains)
	mux.HandleFunc("GET /zones/{uuid}/records", s.getRecords)
	mux.HandleFunc("PUT /zones/{uuid}/records", s.putRecords)

	s.Server = httptest.NewServer(s.middleware(mux))
	return s
}

// AddZone adds or replaces a zone
func (s *Server) AddZone(z Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.zones[z.UUID]; !ok {
		s.order = append(s.order, z.UUID)
	}
	zone := z
	s.zones[z.UUID] = &zone
}

// Zone returns a copy of the zone state
func (s *Server) Zone(uuid string) (Zone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zones[uuid]
	if !ok {
		return Zone{}, false
	}
	return *z, true
}

// Rename changes the remote name of a zone
func (s *Server) Rename(uuid, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if z, ok := s.zones[uuid]; ok {
		z.Name = name
	}
}

// FailWith makes requests matching method and path answer with status and body
func (s *Server) FailWith(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Calls returns every request received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CountCalls counts the requests with the given method; an empty method matches all
func (s *Server) CountCalls(method string) int {
	n := 0
	for _, c := range s.Calls() {
		if method == "" || c.Method == method {
			n++
		}
	}
	return n
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})
		f, failed := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if r.Header.Get(livedns.APIKeyHeader) != s.APIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"code": 401, "message": "Invalid API key"})
			return
		}
		if failed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) zoneJSON(z *Zone) livedns.Zone {
	base := s.URL + "/zones/" + z.UUID
	return livedns.Zone{
		UUID:            z.UUID,
		Name:            z.Name,
		ZoneHref:        base,
		ZoneRecordsHref: base + "/records",
		DomainsHref:     base + "/domains",
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*Zone, bool) {
	z, ok := s.zones[r.PathValue("uuid")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"code": 404, "message": "Unknown zone", "object": "LocalizedHTTPNotFound"})
	}
	return z, ok
}

func (s *Server) listZones(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]livedns.Zone, 0, len(s.order))
	for _, uuid := range s.order {
		out = append(out, s.zoneJSON(s.zones[uuid]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createZone(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"code": 400, "message": "name is required"})
		return
	}

	s.mu.Lock()
	uuid := s.CreateUUID
	if uuid == "" {
		uuid = fmt.Sprintf("zone-%d", len(s.order)+1)
	}
	status := s.CreateStatus
	s.mu.Unlock()

	s.AddZone(Zone{UUID: uuid, Name: payload.Name})
	writeJSON(w, status, map[string]string{"message": "Zone Created", "uuid": uuid})
}

func (s *Server) getZone(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.zoneJSON(z))
}

func (s *Server) listDomains(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.lookup(w, r)
	if !ok {
		return
	}
	out := make([]livedns.Domain, 0, len(z.Domains))
	for _, d := range z.Domains {
		out = append(out, livedns.Domain{FQDN: d})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getRecords(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, z.Text)
		return
	}
	records := z.Records
	if records == nil {
		records = []livedns.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) putRecords(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"code": 400, "message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if s.PutStatus == http.StatusCreated {
		z.Text = string(body)
	}
	writeJSON(w, s.PutStatus, map[string]string{"message": "DNS Record Created"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

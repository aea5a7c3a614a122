package zone

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/catalystcommunity/livedns/internal/livedns"
	"github.com/catalystcommunity/livedns/internal/livedns/livednstest"
	"github.com/catalystcommunity/livedns/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-api-key"

const exampleText = "@ 10800 IN A 192.0.2.1\nwww 10800 IN CNAME webredir.vip.gandi.net.\n"

func exampleZone() livednstest.Zone {
	return livednstest.Zone{
		UUID:    "11111111-aaaa",
		Name:    "example",
		Domains: []string{"example.com", "example.org"},
		Records: []livedns.Record{
			{Type: "A", TTL: 10800, Name: "@", Values: []string{"192.0.2.1"}},
			{Type: "MX", TTL: 10800, Name: "@", Values: []string{"10 spool.mail.gandi.net.", "50 fb.mail.gandi.net."}},
		},
		Text: exampleText,
	}
}

func otherZone() livednstest.Zone {
	return livednstest.Zone{UUID: "22222222-bbbb", Name: "other", Text: "@ 300 IN A 198.51.100.7\n"}
}

type fixture struct {
	server *livednstest.Server
	svc    *Service
	out    *bytes.Buffer
	dir    string
}

func newFixture(t *testing.T, zones ...livednstest.Zone) *fixture {
	t.Helper()
	server := livednstest.NewServer(testKey, zones...)
	t.Cleanup(server.Close)

	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "zones")
	client := livedns.NewClient(server.URL, testKey)
	return &fixture{
		server: server,
		svc:    NewService(client, output.New(&out, false), dir),
		out:    &out,
		dir:    dir,
	}
}

func (f *fixture) writeZoneFile(t *testing.T, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.dir, 0755))
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestView(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())

	err := f.svc.Dispatch(context.Background(), View, Options{})
	require.NoError(t, err)

	want := "== Zone example [11111111-aaaa] ==\n" +
		"\tDomain(s) associated with this zone: example.com, example.org\n" +
		"\t2 records in this zone:\n\n" +
		" A\t10800\t@                   \t192.0.2.1\n" +
		" MX\t10800\t@                   \t10 spool.mail.gandi.net.\n" +
		" MX\t10800\t@                   \t50 fb.mail.gandi.net.\n" +
		"\n" +
		"== Zone other [22222222-bbbb] ==\n" +
		"\tNo domain associated with this zone.\n" +
		"\t0 records in this zone:\n\n" +
		"\n"
	assert.Equal(t, want, f.out.String())
	assert.Zero(t, f.server.CountCalls(http.MethodPut))
}

func TestView_ZoneFilter(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())

	require.NoError(t, f.svc.View(context.Background(), "other"))
	assert.Contains(t, f.out.String(), "== Zone other")
	assert.NotContains(t, f.out.String(), "== Zone example")
}

func TestView_APIErrorStopsCommand(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())
	f.server.FailWith(http.MethodGet, "/zones/11111111-aaaa/domains", http.StatusBadRequest, `{"message":"boom"}`)

	err := f.svc.View(context.Background(), "")
	require.Error(t, err)

	var apiErr *livedns.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.JSONEq(t, `{"message":"boom"}`, string(apiErr.Body))

	// zones list + failing domains call, nothing after
	assert.Equal(t, 2, f.server.CountCalls(""))
}

func TestPull(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())

	// stale content is overwritten
	f.writeZoneFile(t, "example_11111111-aaaa.txt", "stale\n")

	require.NoError(t, f.svc.Dispatch(context.Background(), Pull, Options{}))

	data, err := os.ReadFile(filepath.Join(f.dir, "example_11111111-aaaa.txt"))
	require.NoError(t, err)
	assert.Equal(t, exampleText, string(data))

	data, err = os.ReadFile(filepath.Join(f.dir, "other_22222222-bbbb.txt"))
	require.NoError(t, err)
	assert.Equal(t, "@ 300 IN A 198.51.100.7\n", string(data))

	out := f.out.String()
	assert.Contains(t, out, "== Zone example [11111111-aaaa] ==\n\tWriting... done (example_11111111-aaaa.txt)\n")
	assert.Contains(t, out, "\nWritten all zones in "+f.dir+"\n")
}

func TestPull_ZoneFilter(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())

	require.NoError(t, f.svc.Pull(context.Background(), "example"))

	_, err := os.Stat(filepath.Join(f.dir, "other_22222222-bbbb.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestPush(t *testing.T) {
	f := newFixture(t, exampleZone())
	edited := "@ 300 IN A 203.0.113.9\n"
	f.writeZoneFile(t, "example_11111111-aaaa.txt", edited)

	require.NoError(t, f.svc.Dispatch(context.Background(), Push, Options{}))

	z, ok := f.server.Zone("11111111-aaaa")
	require.True(t, ok)
	assert.Equal(t, edited, z.Text)
	assert.Equal(t, 1, f.server.CountCalls(http.MethodPut))

	out := f.out.String()
	assert.Contains(t, out, "Found zone example (11111111-aaaa)\n")
	assert.Contains(t, out, "\tUploading the zone... ok\n")
	assert.Contains(t, out, "\tServer answered: DNS Record Created\n")
}

func TestPush_IgnoresFilesNotMatchingConvention(t *testing.T) {
	f := newFixture(t, exampleZone())
	f.writeZoneFile(t, "README.txt", "notes")
	f.writeZoneFile(t, "example_11111111-aaaa.txt.bak", exampleText)
	f.writeZoneFile(t, "example.zone", exampleText)

	require.NoError(t, f.svc.Push(context.Background(), ""))
	assert.Zero(t, f.server.CountCalls(""))
	assert.Empty(t, f.out.String())
}

func TestPush_SkipsEmptyFile(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())
	f.writeZoneFile(t, "example_11111111-aaaa.txt", "")
	f.writeZoneFile(t, "other_22222222-bbbb.txt", "@ 60 IN A 198.51.100.8\n")

	require.NoError(t, f.svc.Push(context.Background(), ""))

	z, _ := f.server.Zone("11111111-aaaa")
	assert.Equal(t, exampleText, z.Text, "empty file must not touch the remote zone")
	o, _ := f.server.Zone("22222222-bbbb")
	assert.Equal(t, "@ 60 IN A 198.51.100.8\n", o.Text, "batch continues after an empty file")

	for _, c := range f.server.Calls() {
		assert.NotContains(t, c.Path, "11111111-aaaa", "no request for the empty zone")
	}
	assert.Contains(t, f.out.String(), "Empty zone file, aborting!")
}

func TestPush_SkipsRenamedZone(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())
	f.server.Rename("11111111-aaaa", "example-renamed")
	f.writeZoneFile(t, "example_11111111-aaaa.txt", "@ 300 IN A 203.0.113.9\n")
	f.writeZoneFile(t, "other_22222222-bbbb.txt", "@ 60 IN A 198.51.100.8\n")

	require.NoError(t, f.svc.Push(context.Background(), ""))

	z, _ := f.server.Zone("11111111-aaaa")
	assert.Equal(t, exampleText, z.Text)
	assert.Equal(t, 1, f.server.CountCalls(http.MethodPut), "only the matching zone is written")
	assert.Contains(t, f.out.String(), "Zone file was renamed, aborting.")
}

func TestPush_ZoneFilter(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())
	f.writeZoneFile(t, "example_11111111-aaaa.txt", "@ 300 IN A 203.0.113.9\n")
	f.writeZoneFile(t, "other_22222222-bbbb.txt", "@ 60 IN A 198.51.100.8\n")

	require.NoError(t, f.svc.Dispatch(context.Background(), Push, Options{ZoneName: "other"}))

	assert.Contains(t, f.out.String(), "  Ignoring zone example\n")
	z, _ := f.server.Zone("11111111-aaaa")
	assert.Equal(t, exampleText, z.Text)
	o, _ := f.server.Zone("22222222-bbbb")
	assert.Equal(t, "@ 60 IN A 198.51.100.8\n", o.Text)
}

func TestPush_WriteNotCreatedAborts(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())
	f.server.PutStatus = http.StatusOK
	f.writeZoneFile(t, "example_11111111-aaaa.txt", "@ 300 IN A 203.0.113.9\n")
	f.writeZoneFile(t, "other_22222222-bbbb.txt", "@ 60 IN A 198.51.100.8\n")

	err := f.svc.Push(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWriteFailed))
	assert.Contains(t, f.out.String(), "Write failed (?)")
	assert.Equal(t, 1, f.server.CountCalls(http.MethodPut), "run stops at the first failed write")
}

func TestPush_APIErrorAborts(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())
	f.server.FailWith(http.MethodPut, "/zones/11111111-aaaa/records", http.StatusBadRequest, `{"message":"invalid zone"}`)
	f.writeZoneFile(t, "example_11111111-aaaa.txt", "garbage\n")
	f.writeZoneFile(t, "other_22222222-bbbb.txt", "@ 60 IN A 198.51.100.8\n")

	err := f.svc.Push(context.Background(), "")
	var apiErr *livedns.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	o, _ := f.server.Zone("22222222-bbbb")
	assert.Equal(t, "@ 300 IN A 198.51.100.7\n", o.Text, "no further calls after an API error")
}

func TestPush_UnknownZoneIsAPIError(t *testing.T) {
	f := newFixture(t)
	f.writeZoneFile(t, "ghost_00000000-dead.txt", exampleText)

	err := f.svc.Push(context.Background(), "")
	var apiErr *livedns.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestPullPushRoundTrip(t *testing.T) {
	f := newFixture(t, exampleZone(), otherZone())
	ctx := context.Background()

	require.NoError(t, f.svc.Pull(ctx, ""))
	require.NoError(t, f.svc.Push(ctx, ""))

	assert.Equal(t, 2, f.server.CountCalls(http.MethodPut), "both writes accepted")
	z, _ := f.server.Zone("11111111-aaaa")
	assert.Equal(t, exampleText, z.Text)
	o, _ := f.server.Zone("22222222-bbbb")
	assert.Equal(t, "@ 300 IN A 198.51.100.7\n", o.Text)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	f.server.CreateUUID = "abc-123"

	err := f.svc.Dispatch(context.Background(), New, Options{Args: []string{"example-zone"}})
	require.NoError(t, err)
	assert.Equal(t, "Creating new zone \"example-zone\"... done, uuid=abc-123\n", f.out.String())

	z, ok := f.server.Zone("abc-123")
	require.True(t, ok)
	assert.Equal(t, "example-zone", z.Name)
}

func TestCreate_NonOKSuccessCodePrintsError(t *testing.T) {
	f := newFixture(t)
	f.server.CreateStatus = http.StatusCreated
	f.server.CreateUUID = "abc-123"

	err := f.svc.Create(context.Background(), "example-zone")
	require.NoError(t, err, "codes below 400 are not fatal")
	assert.Contains(t, f.out.String(), "... error\n")
	assert.Contains(t, f.out.String(), `"uuid":"abc-123"`)
}

func TestCreate_APIError(t *testing.T) {
	f := newFixture(t)
	f.server.FailWith(http.MethodPost, "/zones", http.StatusBadRequest, `{"message":"name taken"}`)

	err := f.svc.Create(context.Background(), "example-zone")
	var apiErr *livedns.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestCreate_MissingNameMakesNoCalls(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Dispatch(context.Background(), New, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
	assert.Zero(t, f.server.CountCalls(""))
}

func TestDispatch_UnknownCommand(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Dispatch(context.Background(), Command(42), Options{})
	assert.True(t, errors.Is(err, ErrUsage))
}

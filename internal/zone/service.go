package zone

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/catalystcommunity/livedns/internal/livedns"
	"github.com/catalystcommunity/livedns/internal/output"
	"github.com/catalystcommunity/livedns/internal/zonefile"
)

// API is the part of the LiveDNS client used by the zone commands
type API interface {
	ListZones(ctx context.Context) ([]livedns.Zone, error)
	GetZone(ctx context.Context, uuid string) (*livedns.Zone, error)
	ListDomains(ctx context.Context, zone livedns.Zone) ([]livedns.Domain, error)
	ListRecords(ctx context.Context, zone livedns.Zone) ([]livedns.Record, error)
	ExportRecords(ctx context.Context, zone livedns.Zone) ([]byte, error)
	ReplaceRecords(ctx context.Context, zone livedns.Zone, text []byte) (*livedns.Response, error)
	CreateZone(ctx context.Context, name string) (*livedns.CreateResult, error)
}

// Options carries per-invocation arguments
type Options struct {
	// ZoneName restricts view, pull and push to one zone
	ZoneName string
	// Args are the trailing positional arguments
	Args []string
}

// Service runs zone commands against the API and the zones directory
type Service struct {
	api      API
	out      *output.Printer
	zonesDir string
}

// NewService creates a zone command service
func NewService(api API, out *output.Printer, zonesDir string) *Service {
	if zonesDir == "" {
		zonesDir = zonefile.DefaultDir
	}
	return &Service{api: api, out: out, zonesDir: zonesDir}
}

// Dispatch runs cmd. Argument errors are reported before any API call.
func (s *Service) Dispatch(ctx context.Context, cmd Command, opts Options) error {
	if err := cmd.CheckArgs(opts.Args); err != nil {
		return err
	}

	switch cmd {
	case View:
		return s.View(ctx, opts.ZoneName)
	case Pull:
		return s.Pull(ctx, opts.ZoneName)
	case Push:
		return s.Push(ctx, opts.ZoneName)
	case New:
		return s.Create(ctx, opts.Args[0])
	default:
		return fmt.Errorf("%w: unknown command %s", ErrUsage, cmd)
	}
}

func (s *Service) zones(ctx context.Context, only string) ([]livedns.Zone, error) {
	zones, err := s.api.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	if only == "" {
		return zones, nil
	}

	filtered := zones[:0]
	for _, z := range zones {
		if z.Name == only {
			filtered = append(filtered, z)
		}
	}
	return filtered, nil
}

func (s *Service) header(z livedns.Zone) {
	s.out.Println(s.out.Header(fmt.Sprintf("== Zone %s [%s] ==", z.Name, z.UUID)))
}

// View prints every zone with its domains and records
func (s *Service) View(ctx context.Context, only string) error {
	zones, err := s.zones(ctx, only)
	if err != nil {
		return err
	}

	for _, z := range zones {
		s.header(z)

		domains, err := s.api.ListDomains(ctx, z)
		if err != nil {
			return err
		}
		if len(domains) > 0 {
			names := make([]string, 0, len(domains))
			for _, d := range domains {
				names = append(names, d.FQDN)
			}
			s.out.Printf("\t%s %s\n", s.out.Minor("Domain(s) associated with this zone:"), strings.Join(names, ", "))
		} else {
			s.out.Println("\tNo domain associated with this zone.")
		}

		records, err := s.api.ListRecords(ctx, z)
		if err != nil {
			return err
		}
		s.out.Printf("\t%d %s\n\n", len(records), s.out.Minor("records in this zone:"))
		for _, r := range records {
			s.out.Record(r)
		}
		s.out.Println()
	}
	return nil
}

// Pull writes the plain-text records of every zone to the zones directory
func (s *Service) Pull(ctx context.Context, only string) error {
	zones, err := s.zones(ctx, only)
	if err != nil {
		return err
	}

	for _, z := range zones {
		s.header(z)

		text, err := s.api.ExportRecords(ctx, z)
		if err != nil {
			return err
		}
		s.out.Printf("\tWriting... ")

		path, err := zonefile.Write(s.zonesDir, z.Name, z.UUID, text)
		if err != nil {
			return err
		}
		slog.Debug("Wrote zone file", "zone", z.Name, "path", path, "bytes", len(text))
		s.out.Printf("%s (%s)\n", s.out.OK("done"), zonefile.FileName(z.Name, z.UUID))
	}

	s.out.Println("\n" + s.out.Blue("Written all zones in "+s.zonesDir))
	return nil
}

// Push uploads every zone file whose name still matches the remote zone.
// Empty and renamed files are skipped; a rejected upload stops the run.
func (s *Service) Push(ctx context.Context, only string) error {
	files, err := zonefile.List(s.zonesDir)
	if err != nil {
		return err
	}

	for _, f := range files {
		s.out.Printf("%s %s %s\n", s.out.Minor("Found zone"), f.Name, s.out.Minor("("+f.UUID+")"))

		if only != "" && only != f.Name {
			s.out.Printf("  %s %s\n", s.out.Minor("Ignoring zone"), f.Name)
			continue
		}

		text, err := zonefile.Read(f)
		if err != nil {
			return err
		}
		if len(text) == 0 {
			slog.Info("Skipping empty zone file", "path", f.Path)
			s.out.Println(s.out.Warn("Empty zone file, aborting!"))
			continue
		}

		remote, err := s.api.GetZone(ctx, f.UUID)
		if err != nil {
			return err
		}
		if remote.Name != f.Name {
			slog.Info("Skipping renamed zone file", "path", f.Path, "remote_name", remote.Name)
			s.out.Println(s.out.Fail("Zone file was renamed, aborting. Please rename the zone file with the new name if you want to continue."))
			continue
		}

		s.out.Printf("%s ", s.out.Minor("\tUploading the zone..."))
		resp, err := s.api.ReplaceRecords(ctx, *remote, text)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated {
			s.out.Println(s.out.Fail("\tWrite failed (?)\n"))
			s.out.Println(s.out.Fail(strings.TrimSpace(string(resp.Body))))
			return fmt.Errorf("%w: zone %s answered with status %d", ErrWriteFailed, f.Name, resp.StatusCode)
		}

		s.out.Println(s.out.OK("ok"))
		s.out.Println(s.out.Minor("\tServer answered: " + serverMessage(resp.Body)))
	}
	return nil
}

// Create creates a zone and prints its uuid.
// Only status 200 counts as success; other non-error codes print the body and return nil.
func (s *Service) Create(ctx context.Context, name string) error {
	s.out.Printf("Creating new zone \"%s\"... ", s.out.Bold(name))

	res, err := s.api.CreateZone(ctx, name)
	if err != nil {
		return err
	}

	if res.StatusCode == http.StatusOK {
		s.out.Println(s.out.OK("done") + ", uuid=" + res.UUID)
		return nil
	}

	slog.Info("Unexpected zone creation status", "status", res.StatusCode)
	s.out.Println(s.out.Fail("error"))
	s.out.Println(strings.TrimSpace(string(res.Body)))
	return nil
}

func serverMessage(body []byte) string {
	var msg livedns.Message
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	return strings.TrimSpace(string(body))
}

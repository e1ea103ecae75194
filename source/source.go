// Package source loads the HCAHPS survey file and the hospital directory from
// CSV, either on disk or over HTTP.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
)

// ErrMissingColumn is returned when a CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Column names in the CMS files. Headers are matched after trimming spaces.
const (
	ColFacilityID    = "Facility ID"
	ColFacilityName  = "Facility Name"
	ColState         = "State"
	ColMeasureID     = "HCAHPS Measure ID"
	ColAnswerPercent = "HCAHPS Answer Percent"
)

// Dataset is everything a session needs: survey records and the directory
// used to resolve hospital names.
type Dataset struct {
	Records   []hcahps.SurveyRecord
	Directory *hcahps.Directory
}

// Load reads both sources concurrently.
func Load(ctx context.Context, client *http.Client, hcahpsLoc, infoLoc string) (*Dataset, error) {
	var (
		records   []hcahps.SurveyRecord
		hospitals []hcahps.Hospital
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rc, err := Open(ctx, client, hcahpsLoc)
		if err != nil {
			return err
		}
		defer rc.Close()
		records, err = ReadSurvey(rc)
		if err != nil {
			return fmt.Errorf("%s: %w", hcahpsLoc, err)
		}
		return nil
	})
	g.Go(func() error {
		rc, err := Open(ctx, client, infoLoc)
		if err != nil {
			return err
		}
		defer rc.Close()
		hospitals, err = ReadHospitals(rc)
		if err != nil {
			return fmt.Errorf("%s: %w", infoLoc, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dataset{Records: records, Directory: hcahps.NewDirectory(hospitals)}, nil
}

// IsRemote reports whether loc is an http(s) URL.
func IsRemote(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// Open returns a reader for a local path or an http(s) URL.
func Open(ctx context.Context, client *http.Client, loc string) (io.ReadCloser, error) {
	if loc == "" {
		return nil, errors.New("empty data location")
	}
	if !IsRemote(loc) {
		f, err := os.Open(loc)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", loc, err)
		}
		return f, nil
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", loc, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", loc, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", loc, resp.StatusCode)
	}
	return resp.Body, nil
}

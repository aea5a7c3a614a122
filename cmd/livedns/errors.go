package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/catalystcommunity/livedns/internal/credentials"
	"github.com/catalystcommunity/livedns/internal/livedns"
	"github.com/catalystcommunity/livedns/internal/output"
	"github.com/catalystcommunity/livedns/internal/zone"
)

// reportError prints a failed run the way an operator expects to read it
func reportError(w io.Writer, colorMode string, err error) {
	if colorMode == "" {
		colorMode = output.ColorAuto
	}
	p := output.New(w, output.ColorEnabled(colorMode, w))

	var apiErr *livedns.APIError
	switch {
	case errors.As(err, &apiErr):
		p.Println(p.Fail("The API returned an error:"))
		p.Println(strings.TrimSpace(string(apiErr.Body)))
	case errors.Is(err, credentials.ErrNotFound):
		p.Println(p.Fail(fmt.Sprintf("You must specify the %s environment variable to use this tool "+
			"(or put the key in the key file, see --key-file)", credentials.DefaultEnvVar)))
	case errors.Is(err, zone.ErrUsage):
		p.Println(p.Fail(strings.TrimPrefix(err.Error(), zone.ErrUsage.Error()+": ")))
		p.Println("Run 'livedns --help' for usage.")
	default:
		p.Println(p.Fail("Error: " + err.Error()))
	}
}

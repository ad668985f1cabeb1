package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/broady/outcome/config"
	"github.com/broady/outcome/openapi"
)

type OpenAPICmd struct {
	Format string `help:"Output format." enum:"json,yaml" default:"json" short:"f"`
}

func (c *OpenAPICmd) Run() error {
	return c.write(os.Stdout)
}

func (c *OpenAPICmd) write(w io.Writer) error {
	app, err := newApp(defaultConfig(), slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}
	spec, err := openapi.FromApp(app, openapi.Info{
		Title:       "outcomed",
		Version:     Version(),
		Description: "Tic-tac-toe and pet shop APIs with declared response contracts.",
	})
	if err != nil {
		return err
	}
	var data []byte
	if c.Format == "yaml" {
		data, err = spec.MarshalYAML()
	} else {
		data, err = spec.MarshalJSON()
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type ContractsCmd struct{}

func (c *ContractsCmd) Run() error {
	return c.write(os.Stdout)
}

func (c *ContractsCmd) write(w io.Writer) error {
	app, err := newApp(defaultConfig(), slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tROUTE\tTAG\tSTATUS\tBODY\tHEADERS")
	for _, e := range app.Endpoints() {
		for _, o := range e.Outcomes {
			headers := append([]string(nil), o.Required...)
			for _, h := range o.Optional {
				headers = append(headers, h+"?")
			}
			fmt.Fprintf(tw, "%s\t%s %s\t%s\t%d\t%s\t%s\n",
				e.Operation, e.Method, e.Path, o.Tag, o.Status, o.Body, strings.Join(headers, ", "))
		}
	}
	return tw.Flush()
}

// defaultConfig is the configuration used when nothing is served, so the
// environment cannot make the printed contracts differ.
func defaultConfig() config.Config {
	return config.Config{
		LogFormat:       "json",
		DefaultPageSize: 20,
		MaxPageSize:     100,
		MaxBodySize:     1 << 20,
	}
}

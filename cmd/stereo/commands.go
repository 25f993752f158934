package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cimpress-mcp/go-stereotype/stereotype"
)

func newClient(cctx *cli.Context) (*stereotype.Client, error) {
	return stereotype.NewClient(cctx.String("access-token"), stereotype.Config{
		BaseURL: cctx.String("host"),
	})
}

var cmdLs = &cli.Command{
	Name:  "ls",
	Usage: "list templates",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "public",
			Usage: "list only public templates",
		},
	},
	Action: func(cctx *cli.Context) error {
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		out, err := c.ListTemplates(cctx.Context, cctx.Bool("public"), false)
		if err != nil {
			return err
		}
		for _, entry := range out {
			fmt.Printf("%s\tcopy=%v edit=%v\n", entry.TemplateID, entry.CanCopy, entry.CanEdit)
		}
		return nil
	},
}

var cmdGet = &cli.Command{
	Name:      "get",
	Usage:     "fetch a template body and metadata",
	ArgsUsage: `<template-id>`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "skip-cache",
			Usage: "bust intermediary caches",
		},
	},
	Action: func(cctx *cli.Context) error {
		id := cctx.Args().First()
		if id == "" {
			return fmt.Errorf("need template id as argument")
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		tmpl, err := c.GetTemplate(cctx.Context, stereotype.TemplateID(id), cctx.Bool("skip-cache"))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "contentType=%s public=%v\n", tmpl.ContentType, tmpl.Public)
		os.Stdout.Write(tmpl.Body)
		return nil
	},
}

var cmdPut = &cli.Command{
	Name:      "put",
	Usage:     "store a template from a file",
	ArgsUsage: `<template-id> <file>`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "content-type",
			Usage:    "template dialect, eg text/mustache",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "public",
			Usage: "mark the template public",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "display name",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "free-text description",
		},
	},
	Action: func(cctx *cli.Context) error {
		id := cctx.Args().Get(0)
		file := cctx.Args().Get(1)
		if id == "" || file == "" {
			return fmt.Errorf("need template id and file as arguments")
		}
		body, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		ref, err := c.PutTemplate(cctx.Context, stereotype.TemplateID(id), stereotype.Template{
			ContentType: cctx.String("content-type"),
			Body:        body,
			Public:      cctx.Bool("public"),
			Name:        cctx.String("name"),
			Description: cctx.String("description"),
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%d\n", ref.ID, ref.Status)
		return nil
	},
}

var cmdRm = &cli.Command{
	Name:      "rm",
	Usage:     "delete a template",
	ArgsUsage: `<template-id>`,
	Action: func(cctx *cli.Context) error {
		id := cctx.Args().First()
		if id == "" {
			return fmt.Errorf("need template id as argument")
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		status, err := c.DeleteTemplate(cctx.Context, stereotype.TemplateID(id))
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil
	},
}

var cmdMaterialize = &cli.Command{
	Name:      "materialize",
	Usage:     "materialize a template with a property bag read from a JSON file",
	ArgsUsage: `<template-id> <payload-file>`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "async",
			Usage: "request async materialization; prints the poll location",
		},
	},
	Action: func(cctx *cli.Context) error {
		id := cctx.Args().Get(0)
		file := cctx.Args().Get(1)
		if id == "" || file == "" {
			return fmt.Errorf("need template id and payload file as arguments")
		}
		raw, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		var bag stereotype.PropertyBag
		if err := json.Unmarshal(raw, &bag); err != nil {
			return fmt.Errorf("payload file is not a JSON object: %w", err)
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		m, err := c.Materialize(cctx.Context, stereotype.TemplateID(id), bag, stereotype.MaterializeOptions{
			Async: cctx.Bool("async"),
		})
		if err != nil {
			return err
		}
		if m.Location != "" {
			fmt.Println(m.Location)
			return nil
		}
		os.Stdout.Write(m.Body)
		return nil
	},
}

var cmdExpand = &cli.Command{
	Name:      "expand",
	Usage:     "expand a property bag's links without materializing",
	ArgsUsage: `<payload-file>`,
	Action: func(cctx *cli.Context) error {
		file := cctx.Args().First()
		if file == "" {
			return fmt.Errorf("need payload file as argument")
		}
		raw, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		var bag stereotype.PropertyBag
		if err := json.Unmarshal(raw, &bag); err != nil {
			return fmt.Errorf("payload file is not a JSON object: %w", err)
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		out, err := c.Expand(cctx.Context, bag)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var cmdCheck = &cli.Command{
	Name:  "check",
	Usage: "check service health",
	Action: func(cctx *cli.Context) error {
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		if _, err := c.Livecheck(cctx.Context); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	},
}

package command

import (
	"errors"
	"github.com/skybi/portal-gateway/internal/backend"
	"github.com/skybi/portal-gateway/internal/query"
	"github.com/urfave/cli/v2"
	"net/http"
	"net/url"
)

func listFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Value: 1,
			Usage: "Page number",
		},
		&cli.IntFlag{
			Name:  "limit",
			Value: 10,
			Usage: "Page size (max 100)",
		},
		&cli.StringFlag{
			Name:  "search",
			Usage: "Search term",
		},
		&cli.StringFlag{
			Name:  "status",
			Usage: "Filter by status",
		},
	}, extra...)
}

func listParams(c *cli.Context) query.Params {
	return query.Params{
		{Key: "page", Value: c.Int("page")},
		{Key: "limit", Value: c.Int("limit")},
		{Key: "search", Value: c.String("search")},
		{Key: "status", Value: c.String("status")},
	}
}

func getResource(collection string) cli.ActionFunc {
	return func(c *cli.Context) error {
		id := c.Args().First()
		if id == "" {
			return errors.New("ID required")
		}
		return send(c, &backend.Call{
			Method: http.MethodGet,
			Path:   "/" + collection + "/" + url.PathEscape(id),
		})
	}
}

// CompaniesCommand returns the companies subcommand group
func CompaniesCommand() *cli.Command {
	return &cli.Command{
		Name:  "companies",
		Usage: "Inspect companies",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List companies",
				Flags: listFlags(),
				Action: func(c *cli.Context) error {
					return send(c, &backend.Call{
						Method: http.MethodGet,
						Path:   "/companies",
						Query:  listParams(c),
					})
				},
			},
			{
				Name:      "get",
				Usage:     "Get company details",
				ArgsUsage: "COMPANY_ID",
				Action:    getResource("companies"),
			},
		},
	}
}

// EventsCommand returns the events subcommand group
func EventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Inspect events",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List events",
				Flags: listFlags(&cli.StringFlag{
					Name:  "company-id",
					Usage: "Filter by company",
				}),
				Action: func(c *cli.Context) error {
					return send(c, &backend.Call{
						Method: http.MethodGet,
						Path:   "/events",
						Query:  listParams(c).Set("companyId", c.String("company-id")),
					})
				},
			},
			{
				Name:      "get",
				Usage:     "Get event details",
				ArgsUsage: "EVENT_ID",
				Action:    getResource("events"),
			},
		},
	}
}

// QRCommand returns the qr subcommand group
func QRCommand() *cli.Command {
	return &cli.Command{
		Name:  "qr",
		Usage: "Work with ticket QR codes",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate a scanned QR code",
				ArgsUsage: "CODE",
				Action: func(c *cli.Context) error {
					code := c.Args().First()
					if code == "" {
						return errors.New("QR code required")
					}
					return send(c, &backend.Call{
						Method: http.MethodPost,
						Path:   "/qr/validate",
						Body:   map[string]string{"code": code},
					})
				},
			},
		},
	}
}

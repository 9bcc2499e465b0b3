// Package command provides the command definitions of portalctl.
//
// portalctl talks to the backend directly, the same way the portal's browser-side code does:
// its calls carry the bearer token cached by 'portalctl login' and use no client-side timeout.
package command

import (
	"fmt"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/backend"
	"github.com/skybi/portal-gateway/internal/cli/output"
	"github.com/urfave/cli/v2"
)

// Version is set via ldflags
var Version = "dev"

// App creates the portalctl application
func App() *cli.App {
	return &cli.App{
		Name:    "portalctl",
		Usage:   "Command line client for the event portal backend",
		Version: Version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			CompaniesCommand(),
			EventsCommand(),
			QRCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Backend base URL",
			EnvVars: []string{"PORTALCTL_SERVER"},
			Value:   "http://localhost:4000/api",
		},
		&cli.StringFlag{
			Name:    "token-file",
			Usage:   "Location of the cached access token",
			EnvVars: []string{"PORTALCTL_TOKEN_FILE"},
			Value:   DefaultTokenFile(),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: json, table",
			Value:   string(output.FormatJSON),
		},
	}
}

// newClient builds a backend client carrying the cached access token, if any
func newClient(c *cli.Context) (*backend.Client, error) {
	cache, err := LoadTokenCache(c.String("token-file"))
	if err != nil {
		return nil, err
	}
	server := c.String("server")
	if cache.Server != "" && cache.Server != server {
		cache.AccessToken = ""
	}
	return backend.NewBrowserFactory(server).New(session.StaticResolver{AccessToken: cache.AccessToken}), nil
}

// send performs a single backend call and prints its result
func send(c *cli.Context, call *backend.Call) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}
	client, err := newClient(c)
	if err != nil {
		return err
	}

	result := client.Send(c.Context, call)
	if !result.Ok() {
		return failure(result.Err)
	}
	return output.Write(c.App.Writer, format, result.Response.Body)
}

func failure(err *backend.NormalizedError) error {
	return fmt.Errorf("%s (status %d)", err.Message, err.Status)
}

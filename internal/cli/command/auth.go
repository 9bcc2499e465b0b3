package command

import (
	"errors"
	"fmt"
	"github.com/skybi/portal-gateway/internal/backend"
	"github.com/urfave/cli/v2"
	"net/http"
)

// LoginCommand returns the login command
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and cache the access token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Account email address",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Account password",
				EnvVars:  []string{"PORTALCTL_PASSWORD"},
				Required: true,
			},
		},
		Action: login,
	}
}

func login(c *cli.Context) error {
	server := c.String("server")
	client := backend.NewBrowserFactory(server).New(nil)

	result := client.Send(c.Context, &backend.Call{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body: map[string]string{
			"email":    c.String("email"),
			"password": c.String("password"),
		},
	})
	if !result.Ok() {
		return failure(result.Err)
	}
	credentials, _, err := backend.DecodeLogin(result.Response.Body)
	if err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if credentials.AccessToken == "" {
		return errors.New("the backend answered without an access token")
	}

	cache := &TokenCache{
		Server:      server,
		Email:       c.String("email"),
		AccessToken: credentials.AccessToken,
	}
	if err := cache.Save(c.String("token-file")); err != nil {
		return fmt.Errorf("save token file: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "logged in as %s\n", cache.Email)
	return nil
}

// LogoutCommand returns the logout command
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the cached access token",
		Action: func(c *cli.Context) error {
			if err := RemoveTokenCache(c.String("token-file")); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "logged out")
			return nil
		},
	}
}

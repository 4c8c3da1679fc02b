package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the reload and step endpoints",
		Long: `token signs a token with server.auth.secret. It is valid for
server.auth.token_ttl and accepted by any server sharing the secret.`,
		Example: `  GIRVAN_SERVER_AUTH_SECRET=... girvan-newman token --subject ci
  curl -X POST -H "Authorization: Bearer $(girvan-newman token)" localhost:3000/api/reload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jwtManager, err := a.jwtManager()
			if err != nil {
				return err
			}
			token, err := jwtManager.GenerateToken(subject)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "identity recorded in the token")

	return cmd
}

func (a *app) jwtManager() (*auth.JWTManager, error) {
	if !a.cfg.Server.Auth.Enabled() {
		return nil, errors.New("server.auth.secret is not set")
	}
	return auth.NewJWTManager(a.cfg.Server.Auth.Secret, a.cfg.Server.Auth.TokenTTL)
}

package cmd

import (
	"fmt"

	internalApp "github.com/haierkeys/fast-vault-sync-service/internal/app"
	pkgapp "github.com/haierkeys/fast-vault-sync-service/pkg/app"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type tokenFlags struct {
	config   string
	uid      string
	session  string
	readOnly bool
}

// newTokenCmd issues a session token signed with security.auth-token-key.
// Production tokens come from the auth service; this is for local clients and smoke tests.
func newTokenCmd() *cobra.Command {
	f := new(tokenFlags)
	c := &cobra.Command{
		Use:   "token --uid <user_uuid> [-c config_file] [--session <session_uuid>] [--read-only]",
		Short: "Issue a session token for a user // 为用户签发会话令牌",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(f.uid); err != nil {
				return errors.Wrap(err, "invalid --uid")
			}
			if f.session == "" {
				f.session = uuid.NewString()
			}

			cfg, _, err := internalApp.LoadConfig(f.config)
			if err != nil {
				return err
			}
			tm := pkgapp.NewTokenManager(pkgapp.TokenConfig{
				SecretKey: cfg.Security.AuthTokenKey,
				Expiry:    cfg.GetTokenExpiry(),
			})
			token, err := tm.Generate(f.uid, f.session, f.readOnly)
			if err != nil {
				return errors.Wrap(err, "sign token")
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	fs := c.Flags()
	fs.StringVarP(&f.config, "config", "c", "config/config.yaml", "config file")
	fs.StringVar(&f.uid, "uid", "", "user uuid")
	fs.StringVar(&f.session, "session", "", "session uuid, random when empty")
	fs.BoolVar(&f.readOnly, "read-only", false, "issue a read-only session")
	_ = c.MarkFlagRequired("uid")
	return c
}

func init() {
	rootCmd.AddCommand(newTokenCmd())
}

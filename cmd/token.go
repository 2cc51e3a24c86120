package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/auth"
)

var (
	tokenSubject string
	tokenName    string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token",
	Long:  `Issue a signed bearer token for a staff member. Identities live outside this service; this is how operators hand out access.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		return issueToken(cmd.OutOrStdout(), cfg.Security, tokenSubject, tokenName, tokenRole)
	},
}

type issuedToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func issueToken(out io.Writer, cfg internal.SecurityConfig, subject, name, role string) error {
	if subject == "" {
		return fmt.Errorf("--subject is required")
	}
	issuer := auth.NewJWTTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenDuration)
	token, expiresAt, err := issuer.Issue(subject, name, internal.Role(role))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(issuedToken{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "stable identifier of the staff member")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name recorded as cashier on sales")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(internal.RoleCashier), "owner, admin or cashier")
}

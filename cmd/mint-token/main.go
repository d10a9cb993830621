// Package main implements mint-token, which signs operator tokens for the avatar control API.
//
// Usage:
//
//	CONTROL_JWT_SECRET=... mint-token --subject mod_alice --channel streamer --ttl 720h
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"chatavatars/internal/pkg/auth/jwt"
)

var (
	subject string
	channel string
	ttl     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "mint-token",
	Short: "Sign an operator token for the avatar control API",
	Long: `Signs a bearer token accepted by the /api endpoints.
The signing secret is read from CONTROL_JWT_SECRET (a .env file is honored).`,
	Args: cobra.NoArgs,
	RunE: runMint,
}

func init() {
	rootCmd.Flags().StringVar(&subject, "subject", "", "operator name recorded in the token (required)")
	rootCmd.Flags().StringVar(&channel, "channel", "", "restrict the token to one Twitch channel")
	rootCmd.Flags().DurationVar(&ttl, "ttl", jwt.OperatorTokenExpiration, "token lifetime")
	_ = rootCmd.MarkFlagRequired("subject")
}

func runMint(cmd *cobra.Command, args []string) error {
	secret := os.Getenv("CONTROL_JWT_SECRET")
	if secret == "" {
		return errors.New("CONTROL_JWT_SECRET is not set")
	}
	if ttl <= 0 {
		return fmt.Errorf("--ttl must be positive, got %s", ttl)
	}

	token, err := jwt.GenerateToken(subject, channel, secret, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the fappie terminal client.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fappie/backend/internal/client"
	"github.com/fappie/backend/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "fappie",
	Short: "Turn meeting transcripts into e-mails and calendar invitations",
	Long: `fappie talks to a Fappie server: it logs in with the shared password and
generates an e-mail or a calendar invitation from a transcript, either in one
shot or as a conversation.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("server", "http://localhost:3000", "Fappie server URL")
	rootCmd.PersistentFlags().String("password", "", "shared password (prompted when empty)")
	rootCmd.PersistentFlags().String("mode", "email", "generation mode (email|calendar)")
	rootCmd.PersistentFlags().Bool("plain", false, "print without terminal styling")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")

	for _, name := range []string{"server", "password", "mode", "plain", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	viper.SetEnvPrefix("FAPPIE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(chatCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := logger.InitWithOutput(viper.GetString("log-level"), "text", os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

// connect logs in and returns a client holding the session cookie.
func connect(ctx context.Context, in *bufio.Reader) (*client.Client, error) {
	c, err := client.New(viper.GetString("server"))
	if err != nil {
		return nil, err
	}

	password := viper.GetString("password")
	if password == "" {
		fmt.Fprint(os.Stderr, "Wachtwoord: ")
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if err := c.Login(ctx, password); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	logger.Debugf("[cli] logged in to %s", viper.GetString("server"))
	return c, nil
}

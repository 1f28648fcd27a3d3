package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/reviewblame/internal/adapter/driven/github"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations for the configured driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			s, err := openStores(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer s.close()

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.DBDriver)
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Ping the configured store and exit non-zero when it is unreachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			s, err := openStores(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.StoreTimeout)
			defer cancel()

			if err := s.ping(ctx); err != nil {
				return fmt.Errorf("store check failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "register <owner>",
		Short: "Register every GitHub repository of an owner under a topic",
		Long: "Lists the owner's repositories through the GitHub API and records the topic " +
			"for each one. A topic is generated when --topic is not given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.HasGitHubCredentials() {
				return errors.New("REVIEWBLAME_GITHUB_TOKEN is required to list repositories")
			}

			s, err := openStores(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer s.close()

			listers := map[string]driven.RepoLister{
				"github": githubadapter.NewClient(cfg.GitHubToken, slog.Default()),
			}
			app, err := newServices(cfg, s, listers, slog.Default())
			if err != nil {
				return err
			}
			svc := app.topics

			if topic == "" {
				topic = svc.GenerateTopicName(args[0])
			}

			result, err := svc.RegisterInstallation(cmd.Context(), args[0], "github", topic)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "topic %s: %d registered, %d failed\n", topic, len(result.Saved), len(result.Failed))
			for _, f := range result.Failed {
				fmt.Fprintf(out, "  %s: %v\n", f.Key, f.Err)
			}
			if !result.OK() {
				return fmt.Errorf("%d repositories could not be registered", len(result.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "topic name to register (generated when empty)")
	return cmd
}

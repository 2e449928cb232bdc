package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.HTTPStatus
				errObj["error"] = apiErr.Message
			}
			_ = printJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// settings holds connection values after flag, env, and profile resolution.
type settings struct {
	host    string
	token   string
	output  string
	profile string
	model   string
	quiet   bool
}

func newRootCmd() *cobra.Command {
	s := &settings{}
	client := NewClient("", "")

	rootCmd := &cobra.Command{
		Use:           "nlq",
		Short:         "Natural-language analytics query CLI",
		Long:          "Command-line client for generating and executing analytics queries from plain-English prompts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				// profile file is optional
				cfg = &UserConfig{CurrentProfile: "default", Profiles: map[string]Profile{}}
			}
			p := cfg.ActiveProfile(s.profile)

			// flag > env > profile > default
			flags := cmd.Flags()
			resolve(&s.host, flags.Changed("host"), "NLQ_HOST", p.Host)
			resolve(&s.token, flags.Changed("token"), "NLQ_TOKEN", p.Token)
			resolve(&s.output, flags.Changed("output"), "NLQ_OUTPUT", p.Output)
			resolve(&s.model, flags.Changed("model"), "NLQ_MODEL", p.Model)

			if err := validateOutputFormat(s.output); err != nil {
				return err
			}
			client.BaseURL = s.host
			client.Token = s.token
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&s.host, "host", "http://localhost:8080", "API host URL")
	pf.StringVar(&s.token, "token", "", "Bearer token for authentication")
	pf.StringVarP(&s.output, "output", "o", "table", "Output format (table, json)")
	pf.StringVarP(&s.profile, "profile", "p", "", "Config profile to use")
	pf.StringVarP(&s.model, "model", "m", "", "Semantic model id")
	pf.BoolVarP(&s.quiet, "quiet", "q", false, "Only output the essential value")

	rootCmd.AddCommand(newGenerateCmd(client, s))
	rootCmd.AddCommand(newExecuteCmd(client, s))
	rootCmd.AddCommand(newAnalyticsCmd(client, s))
	rootCmd.AddCommand(newHistoryCmd(client, s))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func resolve(dst *string, flagSet bool, envKey, profileValue string) {
	if flagSet {
		return
	}
	if v := os.Getenv(envKey); v != "" {
		*dst = v
	} else if profileValue != "" {
		*dst = profileValue
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version": version,
					"commit":  commit,
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "nlq version %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}

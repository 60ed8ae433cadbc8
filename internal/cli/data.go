package cli

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/go-oura-client/oura"
	"github.com/jrsteele09/go-oura-client/token"
	"github.com/jrsteele09/go-oura-client/token/filerepo"
	"github.com/spf13/cobra"
)

var (
	startDate   string
	endDate     string
	strictQuery bool
)

var userinfoCmd = &cobra.Command{
	Use:   "userinfo",
	Short: "Show the authorized user's personal info",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runData(cmd, func(ctx context.Context, c *oura.Client) (any, error) {
			return c.GetUserInfo(ctx)
		})
	},
}

func newSummaryCmd(summaryType oura.SummaryType, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(summaryType),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runData(cmd, func(ctx context.Context, c *oura.Client) (any, error) {
				switch summaryType {
				case oura.SummarySleep:
					return c.GetSleep(ctx, startDate, endDate)
				case oura.SummaryActivity:
					return c.GetActivity(ctx, startDate, endDate)
				default:
					return c.GetReadiness(ctx, startDate, endDate)
				}
			})
		},
	}
	cmd.Flags().StringVar(&startDate, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&endDate, "end", "", "last day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&strictQuery, "strict-query", false, "join start and end with & instead of ?")
	return cmd
}

func init() {
	rootCmd.AddCommand(userinfoCmd)
	rootCmd.AddCommand(newSummaryCmd(oura.SummarySleep, "Show daily sleep summaries"))
	rootCmd.AddCommand(newSummaryCmd(oura.SummaryActivity, "Show daily activity summaries"))
	rootCmd.AddCommand(newSummaryCmd(oura.SummaryReadiness, "Show daily readiness summaries"))
}

func runData(cmd *cobra.Command, call func(context.Context, *oura.Client) (any, error)) error {
	repo := filerepo.New(cfg.GetTokenFile())
	tok, err := repo.Load()
	if err != nil {
		return err
	}

	client, err := oura.NewClient(oura.Config{
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
		Token:        tok,
		TokenSaver:   token.SaverFor(repo),
		RefreshURL:   cfg.GetTokenURL(),
		BaseURL:      cfg.GetAPIURL(),
		StrictQuery:  strictQuery,
		Env:          cfg.GetEnv(),
	})
	if err != nil {
		return err
	}

	result, err := call(cmd.Context(), client)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

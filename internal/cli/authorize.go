package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-oura-client/authflow"
	"github.com/jrsteele09/go-oura-client/server"
	"github.com/jrsteele09/go-oura-client/token/filerepo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

var (
	authorizeScopes  []string
	authorizeTimeout time.Duration
	authorizePaste   bool
	exchangeCode     string
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Grant ouractl access to your Oura data",
	Long: `Prints the Oura consent URL and waits for the redirect on the local
callback server (OURA_REDIRECT_URI). With --paste, no server is started and the
full URL the browser was redirected to is read from stdin instead.

The resulting token is written to the token file.`,
	RunE: runAuthorize,
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Exchange an authorization code for a token",
	RunE:  runExchange,
}

func init() {
	authorizeCmd.Flags().StringSliceVar(&authorizeScopes, "scope", nil, "scopes to request (default from config)")
	authorizeCmd.Flags().DurationVar(&authorizeTimeout, "timeout", 5*time.Minute, "how long to wait for the callback")
	authorizeCmd.Flags().BoolVar(&authorizePaste, "paste", false, "read the callback URL from stdin instead of listening")
	rootCmd.AddCommand(authorizeCmd)

	exchangeCmd.Flags().StringVar(&exchangeCode, "code", "", "authorization code from the callback URL")
	_ = exchangeCmd.MarkFlagRequired("code")
	rootCmd.AddCommand(exchangeCmd)
}

func newFlow() (*authflow.Flow, error) {
	return authflow.New(authflow.ConfigFrom(cfg), nil)
}

func runAuthorize(cmd *cobra.Command, _ []string) error {
	displayAppname(cmd, cfg.GetAppName())

	flow, err := newFlow()
	if err != nil {
		return err
	}
	authURL, _, err := flow.AuthorizationURL(authorizeScopes...)
	if err != nil {
		return err
	}

	cmd.Println("Open this URL in your browser to authorize ouractl:")
	cmd.Println()
	cmd.Println(authURL)
	cmd.Println()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, authorizeTimeout)
	defer cancel()

	var tok *oauth2.Token
	if authorizePaste {
		tok, err = exchangePasted(ctx, cmd, flow)
	} else {
		tok, err = waitForCallback(ctx, flow)
	}
	if err != nil {
		return err
	}
	return saveToken(cmd, tok)
}

func runExchange(cmd *cobra.Command, _ []string) error {
	flow, err := newFlow()
	if err != nil {
		return err
	}
	tok, err := flow.ExchangeToken(cmd.Context(), "", exchangeCode)
	if err != nil {
		return err
	}
	return saveToken(cmd, tok)
}

func exchangePasted(ctx context.Context, cmd *cobra.Command, flow *authflow.Flow) (*oauth2.Token, error) {
	cmd.Print("Paste the URL you were redirected to: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("reading callback url: %w", err)
	}
	return flow.ExchangeToken(ctx, strings.TrimSpace(line), "")
}

func waitForCallback(ctx context.Context, flow *authflow.Flow) (*oauth2.Token, error) {
	callbacks, err := server.New(cfg.GetEnv(), cfg.GetRedirectURI(), flow)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{Addr: callbacks.Addr(), Handler: callbacks, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()
	defer func() {
		if err := shutdown(httpServer); err != nil {
			log.Warn().Err(err).Msg("callback server shutdown")
		}
	}()

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := <-serveErr; err != nil {
			log.Error().Err(err).Msg("callback server stopped")
			cancel()
		}
	}()

	return callbacks.WaitForToken(waitCtx)
}

func saveToken(cmd *cobra.Command, tok *oauth2.Token) error {
	repo := filerepo.New(cfg.GetTokenFile())
	if err := repo.Save(tok); err != nil {
		return err
	}
	cmd.Printf("Token saved to %s\n", repo.Path())
	return nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("waiting for the authorization callback")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(cmd *cobra.Command, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	cmd.Println(myFigure.String())
}

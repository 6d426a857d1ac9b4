package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/superfix/superfix-backend/internal/client"
	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/session"
)

var (
	flagAPI       string
	flagSession   string
	flagJSON      bool
	flagAnalytics string
	flagVerbose   bool
	flagTimeout   time.Duration
)

// app - то, что нужно командам после разбора флагов.
type app struct {
	sess      *session.Session
	api       *client.Client
	analytics *client.Analytics
}

var cur *app

var rootCmd = &cobra.Command{
	Use:           "superfixctl",
	Short:         "Портал героя и админка Superfix в терминале",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			logger.Init("debug")
			logger.SetTextFormatter()
		}
		sess, err := session.Hydrate(flagSession)
		if err != nil {
			return err
		}
		api := client.New(flagAPI,
			client.WithTokenSource(sess),
			client.WithHTTPClient(&http.Client{Timeout: flagTimeout}))
		cur = &app{
			sess:      sess,
			api:       api,
			analytics: client.NewAnalytics(flagAnalytics, os.Getenv("SUPERFIX_ANALYTICS_ID"), sess),
		}
		cur.analytics.Pageview(cmd.Context(), "/"+cmd.Name())
		return nil
	},
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "superfix", "session.yaml")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printJSON печатает значение как JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// requireRole - команда доступна только после входа с нужной ролью.
func requireRole(role string) error {
	if !cur.sess.LoggedIn() {
		return fmt.Errorf("нужно войти: superfixctl login")
	}
	if cur.sess.Role() != role {
		return fmt.Errorf("команда доступна только для роли %s", role)
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAPI, "api", envOr("SUPERFIX_API", "http://localhost:8080/api"), "адрес API")
	pf.StringVar(&flagSession, "session", envOr("SUPERFIX_SESSION", defaultSessionPath()), "файл сессии")
	pf.StringVar(&flagAnalytics, "analytics-url", os.Getenv("SUPERFIX_ANALYTICS_URL"), "адрес для beacon аналитики")
	pf.DurationVar(&flagTimeout, "timeout", 30*time.Second, "таймаут запроса к API")
	pf.BoolVar(&flagJSON, "json", false, "вывод в JSON")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "подробные логи")

	rootCmd.AddCommand(loginCmd, logoutCmd, consentCmd)
	rootCmd.AddCommand(missionsCmd, onboardingCmd)
	rootCmd.AddCommand(missionActionCmds()...)
	rootCmd.AddCommand(requestsCmd, requestStatusCmd, dossierCmd, heroCmd, applicationsCmd, categoriesCmd, uploadCmd)
	rootCmd.AddCommand(heroesCmd, contactCmd, reviewCmd, applyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

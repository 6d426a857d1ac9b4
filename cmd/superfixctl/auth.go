package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/superfix/superfix-backend/internal/session"
)

var (
	flagAdmin    bool
	flagUsername string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти как герой (по умолчанию) или администратор",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := flagPassword
		if password == "" {
			password = os.Getenv("SUPERFIX_PASSWORD")
		}
		if flagUsername == "" || password == "" {
			return fmt.Errorf("укажите --username и --password")
		}

		login := cur.api.HeroLogin
		if flagAdmin {
			login = cur.api.Login
		}
		res, err := login(cmd.Context(), flagUsername, password)
		if err != nil {
			return err
		}
		if err := cur.sess.Login(res.Token, res.Role); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "вход выполнен: %s\n", res.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти и удалить токен",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cur.sess.Logout()
	},
}

var consentCmd = &cobra.Command{
	Use:       "consent [accepted|declined]",
	Short:     "Показать или изменить согласие на аналитику",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(session.ConsentAccepted), string(session.ConsentDeclined)},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			c := cur.sess.Consent()
			if c == session.ConsentUnset {
				c = "не задано"
			}
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return nil
		}
		return cur.sess.SetConsent(session.Consent(args[0]))
	},
}

func init() {
	loginCmd.Flags().BoolVar(&flagAdmin, "admin", false, "вход администратора")
	loginCmd.Flags().StringVarP(&flagUsername, "username", "u", "", "логин")
	loginCmd.Flags().StringVarP(&flagPassword, "password", "p", "", "пароль (или SUPERFIX_PASSWORD)")
}

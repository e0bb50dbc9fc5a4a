package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	"github.com/imgshare/gallery-client/internal/ports"
	"github.com/imgshare/gallery-client/internal/service"
	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in; run \"imgshare login\" first")

type loginOptions struct {
	Email    string
	Password string
}

func newLoginCmd(a *app) *cobra.Command {
	var opts loginOptions
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Password == "" {
				opts.Password = readSecret(cmd.InOrStdin())
			}

			sess, err := svc.Auth.Login(cmd.Context(), service.LoginInput{
				Email:    opts.Email,
				Password: opts.Password,
			})
			if err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "Logged in as %s\n", describeUser(sess))
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Auth.Logout(cmd.Context())
			if err != nil {
				_ = writeln(cmd.ErrOrStderr(), "Logout failed; you are still logged in.")
				return err
			}
			out := cmd.OutOrStdout()
			if res.RedirectURL != "" {
				if err := writef(out, "Server redirect: %s\n", res.RedirectURL); err != nil {
					return err
				}
			}
			return writeln(out, "Logged out.")
		},
	}
}

func newWhoAmICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := requireSession(cmd.Context(), svc.Sessions, a.logger)
			if err != nil {
				return err
			}
			return writeln(cmd.OutOrStdout(), describeUser(sess))
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var in ports.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account; a one-time code is sent by email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if in.Password == "" {
				in.Password = readSecret(cmd.InOrStdin())
			}

			msg, err := svc.Auth.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if msg != "" {
				if err := writeln(out, msg); err != nil {
					return err
				}
			}
			return writef(out, "Finish with: imgshare verify --email %s --code <code>\n", strings.TrimSpace(in.Email))
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password (read from stdin when omitted)")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var in service.VerifyInput
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm a registration with the emailed code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := svc.Auth.VerifyOTP(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "Verified. Logged in as %s\n", describeUser(sess))
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Code, "code", "", "one-time code from the email")
	return cmd
}

func describeUser(sess domainauth.Session) string {
	user, ok := sess.User()
	if !ok {
		return "nobody"
	}
	return fmt.Sprintf("%s <%s> (%s)", user.Name, user.Email, user.ID)
}

// readSecret reads one line from r. Piped input is the expected use.
func readSecret(r io.Reader) string {
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

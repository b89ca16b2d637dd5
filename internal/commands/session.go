package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/AnshRaj112/mindjourney-backend/internal/client"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

func addLogin(topLevel *cobra.Command) {
	var email, password, idToken string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password, or with an identity provider token.",
		Example: `
mindjourney login --email sam@example.com --password secret123
MINDJOURNEY_PASSWORD=secret123 mindjourney login --email sam@example.com
mindjourney login --id-token "$ID_TOKEN"
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := newClient(ctx)
			if err != nil {
				return err
			}

			var s *client.Session
			if idToken != "" {
				tok := (&oauth2.Token{AccessToken: idToken, Expiry: time.Now().Add(time.Hour)}).
					WithExtra(map[string]interface{}{"id_token": idToken})
				s, err = c.LoginExternal(ctx, tok)
			} else {
				if password == "" {
					password = viper.GetString("password")
				}
				if email == "" || password == "" {
					return errors.New("--email and --password are required")
				}
				s, err = c.Login(ctx, email, password)
			}
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(sessionView(s), func() { welcome(c, s) })
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email.")
	cmd.Flags().StringVar(&password, "password", "", "Account password. Also read from MINDJOURNEY_PASSWORD.")
	cmd.Flags().StringVar(&idToken, "id-token", "", "ID token from the configured identity provider.")

	topLevel.AddCommand(cmd)
}

func addRegister(topLevel *cobra.Command) {
	p := client.Profile{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in.",
		Example: `
mindjourney register --name Sam --email sam@example.com --password secret123
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := newClient(ctx)
			if err != nil {
				return err
			}
			if p.Password == "" {
				p.Password = viper.GetString("password")
			}
			s, err := c.Register(ctx, p)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(sessionView(s), func() { welcome(c, s) })
		},
	}

	cmd.Flags().StringVar(&p.Name, "name", "", "Display name.")
	cmd.Flags().StringVar(&p.Email, "email", "", "Account email.")
	cmd.Flags().StringVar(&p.Password, "password", "", "At least 6 characters. Also read from MINDJOURNEY_PASSWORD.")

	topLevel.AddCommand(cmd)
}

func addAnon(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "anon",
		Short: "Continue without an account. Data stays on this device.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			c, err := newClient(context.Background())
			if err != nil {
				return err
			}
			s := c.ContinueAnonymously()
			return oo.Print(sessionView(s), func() { welcome(c, s) })
		},
	}

	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out. Anonymous data is kept on this device.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := newClient(ctx)
			if err != nil {
				return err
			}
			c.Logout(ctx)
			return oo.Print(map[string]bool{"signed_out": true}, func() { line("Signed out.") })
		},
	}

	topLevel.AddCommand(cmd)
}

func addWhoami(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			c, err := signedIn(context.Background())
			if err != nil {
				return oo.HandleError(err)
			}
			s := c.CurrentSession()
			return oo.Print(sessionView(s), func() {
				tbl := newTable("Name", "Email", "Mode", "Theme", "Since")
				tbl.AddRow(s.User.Name, s.User.Email, string(s.Mode), s.User.Settings.Theme, s.CreatedAt.Local().Format(time.RFC822))
				printTable(tbl)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addSettings(topLevel *cobra.Command) {
	in := models.Settings{}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Update display preferences.",
		Example: `
mindjourney settings --theme dark --text-size large
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			out, err := c.UpdateSettings(ctx, in)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(out, func() {
				tbl := newTable("Theme", "Color", "Text size")
				tbl.AddRow(out.Theme, out.ColorScheme, out.TextSize)
				printTable(tbl)
			})
		},
	}

	cmd.Flags().StringVar(&in.Theme, "theme", "", "light or dark.")
	cmd.Flags().StringVar(&in.ColorScheme, "color", "", "blue, green, purple, orange or pink.")
	cmd.Flags().StringVar(&in.TextSize, "text-size", "", "small, medium or large.")

	topLevel.AddCommand(cmd)
}

func welcome(c *client.Client, s *client.Session) {
	if c.FirstRun() {
		heading("Welcome to MindJourney")
		line("Write with `mindjourney write`, check in with `mindjourney mood`.")
	}
	if s.Mode == client.ModeAnonymous {
		linef("Continuing as %s. Entries are stored only on this device.\n", bold(s.User.Name))
		return
	}
	linef("Signed in as %s.\n", bold(s.User.Name))
}

// sessionView is the --json form of a session. Credentials stay out of it.
func sessionView(s *client.Session) map[string]interface{} {
	return map[string]interface{}{
		"mode":       s.Mode,
		"user":       s.User.Public(),
		"created_at": s.CreatedAt,
	}
}

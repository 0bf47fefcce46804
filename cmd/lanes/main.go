package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/dori/lanes/internal/app"
	"github.com/dori/lanes/internal/auth"
	"github.com/dori/lanes/internal/board"
	"github.com/dori/lanes/internal/config"
	"github.com/dori/lanes/internal/model"
	"github.com/dori/lanes/internal/ui"
	"github.com/dori/lanes/internal/ui/theme"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var themeName string

	cmd := &cobra.Command{
		Use:           "lanes",
		Short:         "lanes - a kanban board for the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if themeName == "" {
				themeName = cfg.Theme
			}
			return runTUI(cfg, themeName)
		},
	}

	cmd.PersistentFlags().String("config", config.DefaultPath(), "Config file")
	cmd.Flags().StringVar(&themeName, "theme", "", "Theme ("+strings.Join(theme.Names(), ", ")+")")

	cmd.AddCommand(registerCmd())
	cmd.AddCommand(addCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func runTUI(cfg *config.Config, themeName string) error {
	t, ok := theme.ByName(themeName)
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", themeName, strings.Join(theme.Names(), ", "))
	}
	theme.SetTheme(t)

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	p := tea.NewProgram(
		ui.NewRootModel(application),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

func registerCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a local account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				prompt := huh.NewInput().
					Title("Password for " + email).
					EchoMode(huh.EchoModePassword).
					Validate(model.ValidatePassword).
					Value(&password)
				if err := huh.NewForm(huh.NewGroup(prompt)).Run(); err != nil {
					return err
				}
			}
			if err := model.ValidateEmail(email); err != nil {
				return err
			}
			if err := model.ValidatePassword(password); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			err = application.Accounts.Register(contextOrBackground(cmd), email, password)
			if errors.Is(err, auth.ErrEmailAlreadyExists) {
				return errors.New("this email is already registered")
			}
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s\n", model.NormalizeEmail(email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <task>",
		Short: "Quick add a card",
		Long: `Quick add a card to a persisted board.

  lanes add "Buy groceries"
  lanes add "Review PR #Work due:tomorrow"

  List:      #Name         (defaults to the first list)
  Due date:  due:today due:friday due:2024-01-15`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Board.Persist {
				return errors.New("quick add needs board.persist: true in the config file")
			}

			now := time.Now()
			qa := parseQuickAdd(strings.Join(args, " "), now)
			if err := model.ValidateTitle(qa.Title); err != nil {
				return err
			}

			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			list, err := pickList(application.Board, qa.List)
			if err != nil {
				return err
			}

			res, err := application.Board.Dispatch(board.CreateTask{
				Title:    qa.Title,
				Category: list,
				Color:    model.DefaultColor,
				DueDate:  qa.DueDate,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created: %s\n", res.Task.Title)
			fmt.Printf("List: %s\n", res.Task.Category)
			if res.Task.DueDate != nil {
				fmt.Printf("Due: %s\n", formatDueDate(*res.Task.DueDate, now))
			}
			return nil
		},
	}
}

// pickList resolves a #Name token, case-insensitively, to an existing list
func pickList(b *board.Board, name string) (string, error) {
	cats := b.Categories()
	if len(cats) == 0 {
		return "", errors.New("the board has no lists")
	}
	if name == "" {
		return cats[0].Name, nil
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c.Name, nil
		}
	}
	return "", fmt.Errorf("no list named %q", name)
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the current settings to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lanes v%s\n", version)
		},
	}
}

// contextOrBackground returns the command context, or Background when
// the command was executed without one
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package cmd

import (
	"fmt"
	"strings"

	"chefbot/src/app"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var askUser string

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send one message through the full stack and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := app.New(ctx, config)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		reply, err := a.Dispatcher.Handle(ctx, askUser, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to handle message: %w", err)
		}

		fmt.Println(reply.Text)
		if len(reply.Buttons) == 0 {
			return nil
		}

		rows := make([][]string, len(reply.Buttons))
		for i, b := range reply.Buttons {
			rows[i] = []string{fmt.Sprint(i + 1), b.Label, b.Payload}
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
			Headers("#", "Label", "Payload").
			Rows(rows...)

		fmt.Println(t)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", "local-user", "user id the message is sent as")
	rootCmd.AddCommand(askCmd)
}

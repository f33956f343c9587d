package cmd

import (
	"fmt"
	"time"

	"chefbot/src/logger"
	"chefbot/src/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	historyUser  string
	historyLimit int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the memo tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := storage.OpenMemoStore(cmd.Context(), config.Store)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		logger.Info().Str("driver", config.Store.Driver).Msg("Memo schema is up to date")
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the questions and answers remembered for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := storage.OpenMemoStore(cmd.Context(), config.Store)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		records, err := store.History(cmd.Context(), historyUser, historyLimit)
		if err != nil {
			return err
		}

		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = []string{r.AskedAt.Local().Format(time.DateTime), r.Question, r.Answer}
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
			Headers("Asked At", "Question", "Answer").
			Rows(rows...)

		fmt.Println(t)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyUser, "user", "u", "", "user id")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of records")
	_ = historyCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(historyCmd)
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/driverboard/config"
	"github.com/kilianp07/driverboard/core/model"
	"github.com/kilianp07/driverboard/core/schedule"
	"github.com/kilianp07/driverboard/infra/upstream"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and group today's blocks once, printing the result",
	RunE:  fetchBlocks,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func fetchBlocks(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client := upstream.New(cfg.Upstream)
	date, records, err := client.FetchBlocks(context.Background())
	if err != nil {
		return fmt.Errorf("fetch blocks: %w", err)
	}
	day := model.DayBlocks{
		Date:     date,
		ByDriver: schedule.Group(schedule.Normalize(records)),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(day)
}

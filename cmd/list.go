package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/portoedu/porti/internal/logger"
	"github.com/portoedu/porti/internal/matching"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the opportunities in the catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		list(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringSliceP("category", "c", nil, "limit the listing to the given categories")
	listCmd.Flags().Bool("featured", false, "list featured opportunities only")
	listCmd.Flags().String("catalog", "", "path to an external catalog JSON file")
}

func list(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if file, err := cmd.Flags().GetString("catalog"); err == nil && file != "" {
		if config.Catalog == nil {
			config.Catalog = &CatalogConfig{}
		}
		config.Catalog.File = file
	}

	opportunities, err := loadCatalog(config)
	if err != nil {
		logger.Fatal("loading the catalog", zap.Error(err))
	}

	if categories, err := cmd.Flags().GetStringSlice("category"); err == nil && len(categories) > 0 {
		opportunities = opportunities.FilterByCategory(categories)
	}
	if cmd.Flag("featured").Value.String() == "true" {
		opportunities = opportunities.FilterFeatured()
	}

	if opportunities.Len() == 0 {
		logger.Info("no opportunities match the given filters")
		return
	}

	scorer := matching.NewScorer(matching.NewEvaluator(), featuredBoostEnabled(config))

	for _, opp := range opportunities.Items {
		deadline := "sem prazo"
		if opp.HasDeadline {
			deadline = opp.Deadline.Format("02/01/2006")
		}

		marker := " "
		if opp.Featured {
			marker = "*"
		}

		score := scorer.Score(config.Profile, opp)

		fmt.Printf("%s %-30s %-16s %-12s %3d%%  %s\n", marker, opp.ID, opp.Category, deadline, score.Percentage, opp.Title)
	}

	fmt.Printf("\n%d oportunidades\n", opportunities.Len())
}

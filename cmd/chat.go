package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/portoedu/porti/internal/ai"
	"github.com/portoedu/porti/internal/logger"
	"github.com/portoedu/porti/internal/matching"
)

const chatExitWord = "sair"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Porti about the opportunities that match your profile",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().IntP("top", "n", defaultTop, "how many ranked opportunities to share with the assistant")
	chatCmd.Flags().String("catalog", "", "path to an external catalog JSON file")
}

func chat(cmd *cobra.Command) {
	ctx := context.Background()

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

	userProfile := config.Profile

	scorer := matching.NewScorer(matching.NewEvaluator(), featuredBoostEnabled(config))
	ranked := matching.NewRanker(scorer).Rank(userProfile, opportunities)
	top := matching.Top(ranked, topCount(cmd))

	assistant, err := newAssistant(ctx, config, logger, userProfile, top)
	if err != nil {
		logger.Fatal("building assistant", zap.Error(err))
	}

	fmt.Printf("Oi! Eu sou o Porti. Pergunte sobre as oportunidades, ou digite %q para encerrar.\n", chatExitWord)

	if err := chatLoop(ctx, assistant); err != nil {
		logger.Fatal("chat failed", zap.Error(err))
	}
}

func chatLoop(ctx context.Context, assistant ai.Assistant) error {
	history := make([]ai.Message, 0)

	for {
		input := promptui.Prompt{Label: "Você"}

		message, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}

		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}
		if strings.EqualFold(message, chatExitWord) {
			return nil
		}

		answer, err := assistant.Send(ctx, history, message)
		if err != nil {
			return fmt.Errorf("asking the assistant: %w", err)
		}

		fmt.Printf("\nPorti: %s\n\n", answer)

		history = append(history,
			ai.Message{Role: ai.RoleUser, Content: message},
			ai.Message{Role: ai.RoleAssistant, Content: answer},
		)
	}
}

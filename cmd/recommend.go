package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/portoedu/porti/internal/ai"
	"github.com/portoedu/porti/internal/ai/gemini"
	"github.com/portoedu/porti/internal/catalog"
	"github.com/portoedu/porti/internal/filtering"
	"github.com/portoedu/porti/internal/logger"
	"github.com/portoedu/porti/internal/matching"
	"github.com/portoedu/porti/internal/profile"
	"github.com/portoedu/porti/internal/secrets"
)

const (
	PromptDetails     = "Ver detalhes de uma oportunidade"
	PromptDumpToFile  = "Salvar oportunidades em arquivo"
	PromptChat        = "Conversar com o Porti"
	PromptExit        = "Sair"
	PromptBack        = "voltar"
	defaultTop        = 3
	fallbackSummary   = "Encontrei oportunidades que combinam com o seu perfil! Dá uma olhada na lista abaixo."
	noProfileSummary  = "Você ainda não preencheu seu perfil, então mostrei uma análise básica. Complete o perfil para recomendações melhores!"
	defaultGeminiName = "gemini-2.5-flash"
)

var errExit = errors.New("exit requested")

var recommendPrompt = promptui.Select{
	Label: "O que deseja fazer?",
	Items: []string{PromptDetails, PromptDumpToFile, PromptChat, PromptExit},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score the catalog against your profile and show the best matches",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().IntP("top", "n", defaultTop, "how many opportunities to highlight")
	recommendCmd.Flags().StringSliceP("category", "c", nil, "limit results to the given categories")
	recommendCmd.Flags().Bool("featured-only", false, "keep only featured opportunities")
	recommendCmd.Flags().Bool("eligible-only", false, "drop opportunities with an explicitly violated required criterion")
	recommendCmd.Flags().Bool("include-expired", false, "keep opportunities whose deadline has passed")
	recommendCmd.Flags().Int("min-score", 0, "drop opportunities scoring below this percentage")
	recommendCmd.Flags().String("catalog", "", "path to an external catalog JSON file")
	recommendCmd.Flags().Bool("no-ai", false, "skip the AI welcome message")
	recommendCmd.Flags().BoolP("non-interactive", "y", false, "print the ranking and exit without prompting")

	viper.BindPFlag("catalog.file", recommendCmd.Flags().Lookup("catalog"))
}

// recommend is the main command for the cli.
func recommend(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting porti", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	opportunities, err := loadCatalog(config)
	if err != nil {
		logger.Fatal("loading the catalog", zap.Error(err))
	}

	logger.Info("loading the catalog", zap.Int("count", opportunities.Len()))

	userProfile := config.Profile
	if userProfile.IsEmpty() {
		logger.Info("profile is empty, scores fall back to the baseline",
			zap.String("hint", "fill in the profile section of the config file"),
		)
	}

	scorer := matching.NewScorer(matching.NewEvaluator(), featuredBoostEnabled(config))
	deps := filtering.Deps{
		Logger:  logger,
		Scorer:  scorer,
		Profile: userProfile,
	}

	filtered, err := filtering.Run(ctx, filterConfig(cmd, config), deps, defaultFilters(), opportunities)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if filtered.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no opportunities left after filters"))
		return
	}

	ranked := matching.NewRanker(scorer).Rank(userProfile, filtered)
	top := matching.Top(ranked, topCount(cmd))

	summary := summarize(ctx, cmd, config, logger, userProfile, top, filtered.Len())

	fmt.Printf("\n%s\n\n", summary)
	printRanked(top)

	if cmd.Flag("non-interactive").Value.String() == "true" {
		return
	}

	for {
		_, action, err := recommendPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, config, logger, userProfile, ranked, top); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, config *Config, logger *zap.Logger, p *profile.Profile, ranked, top []matching.Ranked) error {
	switch action {
	case PromptDetails:
		return showDetails(top)
	case PromptDumpToFile:
		dump := &catalog.Opportunities{}
		for _, entry := range ranked {
			dump.Items = append(dump.Items, entry.Opportunity)
		}
		filename, err := dump.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptChat:
		assistant, err := newAssistant(ctx, config, logger, p, top)
		if err != nil {
			logger.Warn("assistant unavailable", zap.Error(err))
			return nil
		}
		return chatLoop(ctx, assistant)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showDetails(top []matching.Ranked) error {
	for {
		items := make([]string, 0, len(top)+1)
		for _, entry := range top {
			items = append(items, fmt.Sprintf("%s (%d%%)", entry.Opportunity.Title, entry.Result.Percentage))
		}
		items = append(items, PromptBack)

		detailsPrompt := promptui.Select{
			Label: "Escolha uma oportunidade e pressione ENTER",
			Items: items,
		}

		index, selected, err := detailsPrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		printOpportunity(top[index])
	}
}

func printRanked(ranked []matching.Ranked) {
	for i, entry := range ranked {
		opp := entry.Opportunity

		fmt.Printf("%d. %s [%s] - %d%%\n", i+1, opp.Title, opp.Category, entry.Result.Percentage)
		if opp.ShortDescription != "" {
			fmt.Printf("   %s\n", opp.ShortDescription)
		}
		for _, reason := range entry.Result.Reasons {
			fmt.Printf("   + %s\n", reason)
		}
		for _, unmet := range entry.Result.UnmetRequired {
			fmt.Printf("   - %s\n", unmet)
		}
		fmt.Println()
	}
}

func printOpportunity(entry matching.Ranked) {
	opp := entry.Opportunity

	fmt.Printf("\n%s [%s]\n", opp.Title, opp.Category)
	if opp.FullDescription != "" {
		fmt.Println(opp.FullDescription)
	}
	if opp.Modality != "" {
		fmt.Printf("Modalidade: %s\n", opp.Modality)
	}
	if opp.Cost != "" {
		fmt.Printf("Custo: %s\n", opp.Cost)
	}
	if opp.MainBenefit != "" {
		fmt.Printf("Benefício principal: %s\n", opp.MainBenefit)
	}
	if opp.HasDeadline {
		fmt.Printf("Prazo: %s\n", opp.Deadline.Format("02/01/2006"))
	}
	if opp.OfficialLink != "" {
		fmt.Printf("Link oficial: %s\n", opp.OfficialLink)
	}
	fmt.Printf("Compatibilidade: %d%% (%d/%d critérios atendidos)\n",
		entry.Result.Percentage, entry.Result.MatchedCount, entry.Result.TotalCount)
	for _, unmet := range entry.Result.UnmetRequired {
		fmt.Printf("Pendente: %s\n", unmet)
	}
	fmt.Println()
}

func summarize(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger, p *profile.Profile, top []matching.Ranked, total int) string {
	fallback := fallbackSummary
	if p.IsEmpty() {
		fallback = noProfileSummary
	}

	if cmd.Flag("no-ai").Value.String() == "true" || !aiEnabled(config) {
		return fallback
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping AI summary", zap.Error(err))
		return fallback
	}

	var summarizer ai.Summarizer = gemini.NewSummarizer(generator, logger, maxLogLength(config))
	summary, err := summarizer.Summarize(ctx, p, top, total)
	if err != nil {
		logger.Warn("falling back to built-in summary", zap.Error(err))
		return fallback
	}

	return summary
}

func newAssistant(ctx context.Context, config *Config, logger *zap.Logger, p *profile.Profile, ranked []matching.Ranked) (ai.Assistant, error) {
	if !aiEnabled(config) {
		return nil, errors.New("the assistant requires ai.enabled and a Gemini API key")
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAssistant(generator, p, ranked), nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	geminiCfg := cfg.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}

	inlineKey := strings.TrimSpace(geminiCfg.APIKey)
	if inlineKey == "" {
		inlineKey = strings.TrimSpace(viper.GetString("ai.gemini.api-key"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: inlineKey,
		File:  geminiCfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key, ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	model := geminiCfg.Model
	if model == "" {
		model = defaultGeminiName
	}

	genLogger := logger.WithCommonFields(log, "gemini", model)

	return gemini.NewGenerator(ctx, apiKey, model, geminiCfg.MaxRetries, genLogger)
}

func loadCatalog(config *Config) (*catalog.Opportunities, error) {
	if config.Catalog != nil && config.Catalog.File != "" {
		return catalog.LoadFile(config.Catalog.File)
	}
	return catalog.Load()
}

func defaultFilters() []filtering.Filter {
	return []filtering.Filter{
		filtering.NewCategory(),
		filtering.NewFeatured(),
		filtering.NewDeadline(),
		filtering.NewEligibility(),
		filtering.NewMinScore(),
	}
}

func filterConfig(cmd *cobra.Command, config *Config) *filtering.Config {
	cfg := &filtering.Config{}
	if config.Filters != nil {
		cfg.Categories = config.Filters.Categories
		cfg.FeaturedOnly = config.Filters.FeaturedOnly
		cfg.IncludeExpired = config.Filters.IncludeExpired
		cfg.EligibleOnly = config.Filters.EligibleOnly
		cfg.MinScore = config.Filters.MinScore
	}

	if categories, err := cmd.Flags().GetStringSlice("category"); err == nil && len(categories) > 0 {
		cfg.Categories = categories
	}
	if cmd.Flag("featured-only").Changed {
		cfg.FeaturedOnly = cmd.Flag("featured-only").Value.String() == "true"
	}
	if cmd.Flag("include-expired").Changed {
		cfg.IncludeExpired = cmd.Flag("include-expired").Value.String() == "true"
	}
	if cmd.Flag("eligible-only").Changed {
		cfg.EligibleOnly = cmd.Flag("eligible-only").Value.String() == "true"
	}
	if minScore, err := cmd.Flags().GetInt("min-score"); err == nil && cmd.Flag("min-score").Changed {
		cfg.MinScore = minScore
	}

	return cfg
}

func topCount(cmd *cobra.Command) int {
	top, err := cmd.Flags().GetInt("top")
	if err != nil || top <= 0 {
		return defaultTop
	}
	return top
}

func featuredBoostEnabled(config *Config) bool {
	if config.Ranking == nil || config.Ranking.FeaturedBoost == nil {
		return true
	}
	return *config.Ranking.FeaturedBoost
}

func aiEnabled(config *Config) bool {
	return config.AI != nil && config.AI.Enabled
}

func maxLogLength(config *Config) int {
	if config.AI == nil || config.AI.Gemini == nil {
		return 0
	}
	return config.AI.Gemini.MaxLogLength
}

package main

import (
	"context"
	"fmt"

	"github.com/finprep/certquiz-backend/internal/config"
	"github.com/finprep/certquiz-backend/internal/database"
	"github.com/finprep/certquiz-backend/internal/logger"
	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/finprep/certquiz-backend/internal/repository"
)

// quizTypes mirrors published FINRA/CFP/CFA exam specifications.
var quizTypes = []model.QuizType{
	{
		Name:           "SIE",
		DisplayName:    "Securities Industry Essentials",
		TotalQuestions: 75,
		PassingScore:   70,
		TimeLimit:      105,
		Description:    "Entry-level exam covering basic securities industry knowledge",
	},
	{
		Name:           "Series 7",
		DisplayName:    "General Securities Representative",
		TotalQuestions: 125,
		PassingScore:   72,
		TimeLimit:      225,
		Description:    "Comprehensive exam for general securities representatives",
	},
	{
		Name:           "Series 63",
		DisplayName:    "Uniform Securities Agent State Law",
		TotalQuestions: 60,
		PassingScore:   72,
		TimeLimit:      75,
		Description:    "State securities law exam for agents",
	},
	{
		Name:           "Series 65",
		DisplayName:    "Uniform Investment Adviser Law",
		TotalQuestions: 130,
		PassingScore:   72,
		TimeLimit:      180,
		Description:    "Investment adviser representative qualification exam",
	},
	{
		Name:           "Series 66",
		DisplayName:    "Uniform Combined State Law",
		TotalQuestions: 100,
		PassingScore:   75,
		TimeLimit:      150,
		Description:    "Combined uniform securities agent and investment adviser law exam",
	},
	{
		Name:           "CFP",
		DisplayName:    "Certified Financial Planner",
		TotalQuestions: 170,
		PassingScore:   60,
		TimeLimit:      360,
		Description:    "Comprehensive financial planning certification exam",
	},
	{
		Name:           "CFA",
		DisplayName:    "Chartered Financial Analyst Level 1",
		TotalQuestions: 180,
		PassingScore:   70,
		TimeLimit:      360,
		Description:    "Investment analysis and portfolio management exam",
	},
}

// sampleQuestions holds a starter bank per quiz type name.
var sampleQuestions = map[string][]model.Question{
	"SIE": {
		{
			QuestionText:    "What does the M in MSRB stand for?",
			OptionA:         "Municipal",
			OptionB:         "Market",
			OptionC:         "Money",
			OptionD:         "Margin",
			CorrectOption:   0,
			Explanation:     "MSRB stands for Municipal Securities Rulemaking Board, which regulates municipal bond dealers.",
			Topic:           "Regulatory Bodies",
			DifficultyLevel: 2,
		},
		{
			QuestionText:    "Which of the following best describes a callable bond?",
			OptionA:         "A bond that can be sold back to the issuer at any time",
			OptionB:         "A bond that the issuer can redeem before maturity",
			OptionC:         "A bond with variable interest rates",
			OptionD:         "A bond backed by municipal taxes",
			CorrectOption:   1,
			Explanation:     "A callable bond gives the issuer the right to redeem the bond before its maturity date, typically when interest rates fall.",
			Topic:           "Fixed Income Securities",
			DifficultyLevel: 2,
		},
	},
	"Series 7": {
		{
			QuestionText:    "The maximum contribution to a traditional IRA for someone under 50 in 2024 is:",
			OptionA:         "$6,000",
			OptionB:         "$6,500",
			OptionC:         "$7,000",
			OptionD:         "$7,500",
			CorrectOption:   2,
			Explanation:     "For 2024, the maximum IRA contribution for those under 50 is $7,000, with an additional $1,000 catch-up contribution for those 50 and older.",
			Topic:           "Retirement Plans",
			DifficultyLevel: 1,
		},
		{
			QuestionText:    "Which order type guarantees execution but not price?",
			OptionA:         "Limit order",
			OptionB:         "Stop order",
			OptionC:         "Market order",
			OptionD:         "Stop-limit order",
			CorrectOption:   2,
			Explanation:     "A market order guarantees execution at the best available price but does not guarantee a specific price.",
			Topic:           "Trading and Securities Markets",
			DifficultyLevel: 2,
		},
	},
	"Series 63": {
		{
			QuestionText:    "Under the Uniform Securities Act, which of the following is NOT considered a security?",
			OptionA:         "Certificate of deposit issued by a bank",
			OptionB:         "Investment contract",
			OptionC:         "Stock option",
			OptionD:         "Commodity futures contract",
			CorrectOption:   0,
			Explanation:     "Bank certificates of deposit are specifically excluded from the definition of securities under most state laws.",
			Topic:           "Securities Law",
			DifficultyLevel: 3,
		},
	},
	"Series 65": {
		{
			QuestionText:    "According to Modern Portfolio Theory, the efficient frontier represents:",
			OptionA:         "The maximum return for any level of risk",
			OptionB:         "The minimum risk for any level of return",
			OptionC:         "Both maximum return for given risk and minimum risk for given return",
			OptionD:         "The correlation between different asset classes",
			CorrectOption:   2,
			Explanation:     "The efficient frontier shows portfolios that offer the highest expected return for each level of risk, or equivalently, the lowest risk for each level of expected return.",
			Topic:           "Portfolio Management Theory",
			DifficultyLevel: 3,
		},
		{
			QuestionText:    "Which of the following is a fiduciary obligation of an investment adviser?",
			OptionA:         "Guaranteeing investment returns",
			OptionB:         "Acting in the client's best interest",
			OptionC:         "Providing investment advice only during market hours",
			OptionD:         "Maintaining a minimum account balance",
			CorrectOption:   1,
			Explanation:     "Investment advisers have a fiduciary duty to act in their clients' best interests at all times.",
			Topic:           "Fiduciary Responsibilities",
			DifficultyLevel: 2,
		},
	},
	"Series 66": {
		{
			QuestionText:    "The Investment Advisers Act of 1940 applies to advisers that:",
			OptionA:         "Manage more than $100 million in assets",
			OptionB:         "Have more than 100 clients",
			OptionC:         "Operate across state lines",
			OptionD:         "All of the above",
			CorrectOption:   0,
			Explanation:     "The Investment Advisers Act of 1940 generally applies to advisers managing more than $100 million in assets under management.",
			Topic:           "Federal Securities Laws",
			DifficultyLevel: 2,
		},
	},
	"CFP": {
		{
			QuestionText:    "Which tax-advantaged account allows for tax-free withdrawals in retirement?",
			OptionA:         "Traditional IRA",
			OptionB:         "401(k)",
			OptionC:         "Roth IRA",
			OptionD:         "SEP-IRA",
			CorrectOption:   2,
			Explanation:     "Roth IRA contributions are made with after-tax dollars, and qualified withdrawals in retirement are tax-free.",
			Topic:           "Retirement Planning",
			DifficultyLevel: 1,
		},
	},
	"CFA": {
		{
			QuestionText:    "The Capital Asset Pricing Model (CAPM) assumes that:",
			OptionA:         "Markets are inefficient",
			OptionB:         "Investors are risk-seeking",
			OptionC:         "There are no transaction costs",
			OptionD:         "Information is asymmetric",
			CorrectOption:   2,
			Explanation:     "CAPM assumes perfect markets with no transaction costs, taxes, or restrictions on borrowing and lending.",
			Topic:           "Asset Pricing Models",
			DifficultyLevel: 4,
		},
	},
}

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)

	fmt.Println("=== Seeding Quiz Catalog ===")

	// Quiz types are idempotent on name: re-running the seeder leaves
	// existing rows in place.
	idsByName := make(map[string]int, len(quizTypes))
	for _, qt := range quizTypes {
		var id int
		err := pool.QueryRow(ctx,
			`INSERT INTO quiz_types (name, display_name, total_questions, passing_score, time_limit, description)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (name) DO UPDATE SET display_name = EXCLUDED.display_name
			 RETURNING id`,
			qt.Name, qt.DisplayName, qt.TotalQuestions, qt.PassingScore, qt.TimeLimit, qt.Description,
		).Scan(&id)
		if err != nil {
			log.Fatal().Err(err).Str("quiz_type", qt.Name).Msg("Failed to seed quiz type")
		}
		idsByName[qt.Name] = id
		fmt.Printf("  quiz type: %s (id=%d)\n", qt.DisplayName, id)
	}

	seeded := 0
	for name, questions := range sampleQuestions {
		quizTypeID, ok := idsByName[name]
		if !ok {
			log.Warn().Str("quiz_type", name).Msg("Skipping questions for unknown quiz type")
			continue
		}
		for _, q := range questions {
			q.QuizTypeID = quizTypeID
			q.Source = model.QuestionSourceSeed
			if err := questionRepo.Create(ctx, &q); err != nil {
				log.Fatal().Err(err).Str("quiz_type", name).Msg("Failed to seed question")
			}
			seeded++
		}
	}

	fmt.Printf("\nDone. %d quiz types, %d questions.\n", len(quizTypes), seeded)
}

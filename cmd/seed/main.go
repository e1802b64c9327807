package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"walkrisk/internal/model"
	"walkrisk/internal/repository"
	"walkrisk/internal/service"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("walkriskdb")
	puzzleRepo := repository.NewPuzzleRepo(db)
	attemptRepo := repository.NewAttemptRepo(db)
	puzzleSvc := service.NewPuzzleService(puzzleRepo, attemptRepo)

	weekOut := time.Now().Add(7 * 24 * time.Hour)

	puzzles := []*model.Puzzle{
		{
			Title:        "Samsung Electronics -6.2% Mystery",
			Description:  "Samsung Electronics suddenly dropped 6.2%. What caused it?",
			Type:         model.PuzzlePriceDrop,
			Difficulty:   model.DifficultyBeginner,
			TargetSymbol: "005930.KS",
			BaseRewardXP: 100,
			ReferenceExplanation: "The drop was a temporary oversold reaction. Foreign funds rotated " +
				"out of the chip sector on short-term memory price worries while the company's own " +
				"fundamentals stayed intact, and a fresh semiconductor investment plan pointed to " +
				"demand recovery ahead.",
			EvidenceTokens: []string{
				"oversold", "foreign", "memory price", "investment plan", "demand recovery",
			},
			Clues: []model.Clue{
				{
					ID:          "clue-news",
					Source:      model.ClueNews,
					Title:       "News scan",
					Description: "Check the latest headlines",
					Content:     "Samsung Electronics announced a new semiconductor investment plan this morning...",
					Reliability: 0.85,
					Cost:        0,
				},
				{
					ID:          "clue-financial",
					Source:      model.ClueFinancial,
					Title:       "Financial review",
					Description: "Analyze the fundamentals",
					Content:     "Revenue and operating profit are both trending up year over year...",
					Reliability: 0.70,
					Cost:        10,
				},
				{
					ID:          "clue-chart",
					Source:      model.ClueChart,
					Title:       "Chart analysis",
					Description: "Look at the price action",
					Content:     "RSI dropped below 30 on heavy volume, a classic oversold signal...",
					Reliability: 0.65,
					Cost:        10,
				},
				{
					ID:          "clue-analyst",
					Source:      model.ClueAnalyst,
					Title:       "Analyst notes",
					Description: "Read the sell-side commentary",
					Content:     "Three brokerages kept their buy ratings, citing short-term memory price noise...",
					Reliability: 0.60,
					Cost:        15,
				},
				{
					ID:          "clue-insider",
					Source:      model.ClueInsider,
					Title:       "Flow data",
					Description: "Check who was selling",
					Content:     "Foreign funds sold heavily across the whole chip sector, not just this name...",
					Reliability: 0.75,
					Cost:        15,
				},
			},
		},
		{
			Title:        "Biotech +40% in Two Days",
			Description:  "A mid-cap biotech surged 40% in two sessions. Justified or hype?",
			Type:         model.PuzzlePriceSurge,
			Difficulty:   model.DifficultyIntermediate,
			TargetSymbol: "BTGX",
			BaseRewardXP: 150,
			ReferenceExplanation: "The surge followed leaked phase 3 trial data showing strong efficacy, " +
				"amplified by heavy short covering. The move overshot fair value because thin float " +
				"and retail momentum piled on after the initial squeeze.",
			EvidenceTokens: []string{
				"phase 3", "trial data", "short covering", "thin float", "momentum",
			},
			Clues: []model.Clue{
				{
					ID:          "clue-news",
					Source:      model.ClueNews,
					Title:       "News scan",
					Description: "Check the latest headlines",
					Content:     "Unconfirmed reports of positive phase 3 trial data circulated before the open...",
					Reliability: 0.55,
					Cost:        0,
				},
				{
					ID:          "clue-chart",
					Source:      model.ClueChart,
					Title:       "Chart analysis",
					Description: "Look at the price action",
					Content:     "Volume ran 12x the daily average with gaps at both opens...",
					Reliability: 0.70,
					Cost:        10,
				},
				{
					ID:          "clue-insider",
					Source:      model.ClueInsider,
					Title:       "Flow data",
					Description: "Check positioning",
					Content:     "Short interest stood at 28% of float before the move and collapsed after...",
					Reliability: 0.80,
					Cost:        15,
				},
				{
					ID:          "clue-analyst",
					Source:      model.ClueAnalyst,
					Title:       "Analyst notes",
					Description: "Read the sell-side commentary",
					Content:     "Coverage is thin; the one covering analyst flagged retail momentum as the main driver...",
					Reliability: 0.60,
					Cost:        15,
				},
			},
		},
		{
			Title:        "Index Calm, Options Screaming",
			Description:  "The index is flat for weeks but option prices keep climbing. Why?",
			Type:         model.PuzzleVolatility,
			Difficulty:   model.DifficultyAdvanced,
			TargetSymbol: "SPX",
			BaseRewardXP: 200,
			ExpiresAt:    &weekOut,
			ReferenceExplanation: "Implied volatility decoupled from realized volatility because large " +
				"funds were buying crash protection ahead of a central bank meeting. Dealer hedging of " +
				"those puts suppressed spot movement while the hedging demand itself kept pushing " +
				"option premiums higher.",
			EvidenceTokens: []string{
				"implied volatility", "crash protection", "central bank", "dealer hedging", "put buying",
			},
			Clues: []model.Clue{
				{
					ID:          "clue-chart",
					Source:      model.ClueChart,
					Title:       "Volatility surface",
					Description: "Compare implied and realized volatility",
					Content:     "30-day implied volatility sits 9 points above realized, the widest spread in two years...",
					Reliability: 0.85,
					Cost:        0,
				},
				{
					ID:          "clue-news",
					Source:      model.ClueNews,
					Title:       "News scan",
					Description: "Check the macro calendar",
					Content:     "A central bank rate decision lands next week with markets split on the outcome...",
					Reliability: 0.80,
					Cost:        10,
				},
				{
					ID:          "clue-insider",
					Source:      model.ClueInsider,
					Title:       "Flow data",
					Description: "Check the options tape",
					Content:     "Block trades show sustained institutional put buying in far out-of-the-money strikes...",
					Reliability: 0.75,
					Cost:        15,
				},
				{
					ID:          "clue-analyst",
					Source:      model.ClueAnalyst,
					Title:       "Desk commentary",
					Description: "Read the derivatives desk notes",
					Content:     "Dealers are long gamma from the put flow, pinning spot while vol stays bid...",
					Reliability: 0.70,
					Cost:        20,
				},
				{
					ID:          "clue-financial",
					Source:      model.ClueFinancial,
					Title:       "Fund filings",
					Description: "Check reported positioning",
					Content:     "Quarterly filings show several macro funds added tail-risk hedges last month...",
					Reliability: 0.65,
					Cost:        20,
				},
			},
		},
	}

	ctx2 := context.Background()
	for _, p := range puzzles {
		id, err := puzzleSvc.CreatePuzzle(ctx2, p)
		if err != nil {
			log.Fatalf("Failed to insert puzzle %q: %v", p.Title, err)
		}
		fmt.Printf("Created puzzle %s: %s\n", id, p.Title)
	}
}

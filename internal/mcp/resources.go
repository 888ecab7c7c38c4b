// ABOUTME: MCP resource implementations for the tracker.
// ABOUTME: Provides jacktrack://today, jacktrack://meals, and jacktrack://ingredients.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/jacktrack/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI       = "jacktrack://today"
	mealsURI       = "jacktrack://meals"
	ingredientsURI = "jacktrack://ingredients"
)

func (s *Server) registerResources() {
	// jacktrack://today - Today's log with meals and totals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Log",
		Description: "Meals, metrics, and macro totals logged today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// jacktrack://meals - Saved meals with totals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         mealsURI,
		Name:        "Meal Library",
		Description: "Every saved meal with its ingredients and totals",
		MIMEType:    "application/json",
	}, s.handleMealsResource)

	// jacktrack://ingredients - The ingredient library
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         ingredientsURI,
		Name:        "Ingredient Library",
		Description: "Every ingredient with macros per 100g",
		MIMEType:    "application/json",
	}, s.handleIngredientsResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := models.Today()

	log, err := s.repo.GetDailyLog(ctx, s.userID, today)
	if errors.Is(err, models.ErrNotFound) {
		return jsonResource(todayURI, map[string]interface{}{
			"date":   today,
			"meals":  []models.DailyLogMeal{},
			"totals": models.Macros{},
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get today's log: %w", err)
	}

	return jsonResource(todayURI, dayView{DailyLog: log, Totals: log.Totals()})
}

func (s *Server) handleMealsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	meals, err := s.repo.ListMeals(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	views := make([]mealView, 0, len(meals))
	for _, m := range meals {
		views = append(views, mealView{Meal: m, Totals: m.Totals()})
	}
	return jsonResource(mealsURI, map[string]interface{}{
		"meals": views,
		"count": len(views),
	})
}

func (s *Server) handleIngredientsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	list, err := s.repo.ListIngredients(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	if list == nil {
		list = []*models.Ingredient{}
	}
	return jsonResource(ingredientsURI, map[string]interface{}{
		"ingredients": list,
		"count":       len(list),
	})
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pageza/nutrilog/config"
	"github.com/pageza/nutrilog/internal/logging"
	"github.com/pageza/nutrilog/internal/models"
)

const (
	analyzeInstruction = "You are a nutritional analysis expert. Respond ONLY with a JSON object."

	recommendInstruction = "You are a nutritional expert. Calculate BMR using Mifflin-St Jeor, then daily calories " +
		"using the Harris-Benedict activity multiplier. Adjust calories based on fitness goal (-500 for weight loss, " +
		"+300 for muscle gain). Set protein to 1.6g/kg for muscle gain, 1.2g/kg otherwise. Set fat to 25% of calories. " +
		"Fill the rest with carbs. Fiber should be 14g per 1000 calories. Respond ONLY with a JSON object with integer values."
)

var nutrientSchema = map[string]*genai.Schema{
	"calories":  {Type: genai.TypeNumber},
	"protein_g": {Type: genai.TypeNumber},
	"carbs_g":   {Type: genai.TypeNumber},
	"fat_g":     {Type: genai.TypeNumber},
	"fiber_g":   {Type: genai.TypeNumber},
}

var nutrientFields = []string{"calories", "protein_g", "carbs_g", "fat_g", "fiber_g"}

func analysisSchema() *genai.Schema {
	props := map[string]*genai.Schema{"food_name": {Type: genai.TypeString}}
	for k, v := range nutrientSchema {
		props[k] = v
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   append([]string{"food_name"}, nutrientFields...),
	}
}

func goalsSchema() *genai.Schema {
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: nutrientSchema,
		Required:   nutrientFields,
	}
}

// contentGenerator is the part of *genai.Models the service calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// LLMService asks Gemini for nutrition estimates and goal recommendations.
type LLMService struct {
	gen     contentGenerator
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewLLMService creates a Gemini-backed Inferencer from cfg
func NewLLMService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*LLMService, error) {
	if err := config.ValidateInference(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newLLMService(client.Models, cfg.GeminiModel, cfg.InferenceTimeout, logger), nil
}

func newLLMService(gen contentGenerator, model string, timeout time.Duration, logger *zap.Logger) *LLMService {
	return &LLMService{gen: gen, model: model, timeout: timeout, logger: logging.OrNop(logger)}
}

// AnalyzeFood estimates the nutrition facts of a free-text description.
func (s *LLMService) AnalyzeFood(ctx context.Context, description string) (*models.FoodAnalysis, error) {
	const op = "analyze food"

	prompt := fmt.Sprintf("Analyze the following food item and provide its nutritional information: %q", description)
	text, err := s.generate(ctx, prompt, analyzeInstruction, analysisSchema())
	if err != nil {
		return nil, &InferenceError{Op: op, Err: err}
	}

	analysis, err := parseFoodAnalysis(text, description)
	if err != nil {
		return nil, &InferenceError{Op: op, Err: err}
	}
	s.logger.Debug("analyzed food",
		zap.String("query", description),
		zap.String("food", analysis.FoodName),
		zap.Float64("calories", analysis.Calories))
	return analysis, nil
}

// RecommendGoals asks for daily targets suited to profile.
func (s *LLMService) RecommendGoals(ctx context.Context, profile models.Profile) (*models.Goals, error) {
	const op = "recommend goals"

	prompt := fmt.Sprintf(`Based on the following user profile, calculate their nutritional goals (calories, protein, carbs, fat, fiber).
- Age: %d
- Gender: %s
- Height: %g cm
- Weight: %g kg
- Activity Level: %s
- Fitness Goal: %s`,
		profile.Age, profile.Gender, profile.Height, profile.Weight, profile.ActivityLevel, profile.FitnessGoal)

	text, err := s.generate(ctx, prompt, recommendInstruction, goalsSchema())
	if err != nil {
		return nil, &InferenceError{Op: op, Err: err}
	}

	goals, err := parseGoals(text)
	if err != nil {
		return nil, &InferenceError{Op: op, Err: err}
	}
	return goals, nil
}

func (s *LLMService) generate(ctx context.Context, prompt, instruction string, schema *genai.Schema) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.gen.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	})
	if err != nil {
		s.logger.Warn("gemini request failed", zap.String("model", s.model), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp == nil {
		return "", errors.New("empty response from model")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}

// extractJSON trims anything the model wrapped around the object, such as a
// markdown fence.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}

func parseFoodAnalysis(text, description string) (*models.FoodAnalysis, error) {
	var a models.FoodAnalysis
	if err := json.Unmarshal([]byte(extractJSON(text)), &a); err != nil {
		return nil, fmt.Errorf("invalid nutrition payload: %w", err)
	}
	if strings.TrimSpace(a.FoodName) == "" {
		a.FoodName = description
	}
	for _, v := range []float64{a.Calories, a.ProteinG, a.CarbsG, a.FatG, a.FiberG} {
		if err := checkAmount(v); err != nil {
			return nil, fmt.Errorf("invalid nutrition payload: %w", err)
		}
	}
	return &a, nil
}

func parseGoals(text string) (*models.Goals, error) {
	var g models.Goals
	if err := json.Unmarshal([]byte(extractJSON(text)), &g); err != nil {
		return nil, fmt.Errorf("invalid goals payload: %w", err)
	}
	if g.IsZero() {
		return nil, errors.New("invalid goals payload: no targets")
	}
	for _, m := range models.Metrics {
		if err := checkAmount(g.Value(m)); err != nil {
			return nil, fmt.Errorf("invalid goals payload: %w", err)
		}
	}
	normalized := NormalizeGoals(g)
	return &normalized, nil
}

func checkAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("amount %v out of range", v)
	}
	return nil
}

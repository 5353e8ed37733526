package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pageza/nutrilog/config"
	"github.com/pageza/nutrilog/internal/models"
)

type fakeGenerator struct {
	text     string
	err      error
	model    string
	prompt   string
	cfg      *genai.GenerateContentConfig
	deadline bool
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.cfg = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func newTestLLM(gen *fakeGenerator) *LLMService {
	return newLLMService(gen, "gemini-test", time.Second, zap.NewNop())
}

func TestNewLLMService(t *testing.T) {
	t.Run("should fail without API key", func(t *testing.T) {
		svc, err := NewLLMService(context.Background(), &config.Config{GeminiModel: "gemini-2.5-flash"}, zap.NewNop())
		assert.Error(t, err)
		assert.Nil(t, svc)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set")
	})
}

func TestLLMService_AnalyzeFood(t *testing.T) {
	ctx := context.Background()

	t.Run("should parse a structured answer", func(t *testing.T) {
		gen := &fakeGenerator{text: `{"food_name":"Banana","calories":105,"protein_g":1.3,"carbs_g":27,"fat_g":0.4,"fiber_g":3.1}`}
		got, err := newTestLLM(gen).AnalyzeFood(ctx, "a banana")
		require.NoError(t, err)

		assert.Equal(t, &models.FoodAnalysis{FoodName: "Banana", Calories: 105, ProteinG: 1.3, CarbsG: 27, FatG: 0.4, FiberG: 3.1}, got)
		assert.Equal(t, "gemini-test", gen.model)
		assert.Contains(t, gen.prompt, `"a banana"`)
		assert.Equal(t, "application/json", gen.cfg.ResponseMIMEType)
		assert.Contains(t, gen.cfg.ResponseSchema.Required, "food_name")
		assert.True(t, gen.deadline, "requests should carry the configured timeout")
	})

	t.Run("should tolerate a fenced answer and missing fiber", func(t *testing.T) {
		gen := &fakeGenerator{text: "```json\n{\"food_name\":\"Rice\",\"calories\":200,\"protein_g\":4,\"carbs_g\":45,\"fat_g\":0.5}\n```"}
		got, err := newTestLLM(gen).AnalyzeFood(ctx, "cup of rice")
		require.NoError(t, err)
		assert.Equal(t, "Rice", got.FoodName)
		assert.Zero(t, got.FiberG)
	})

	t.Run("should fall back to the description for a blank name", func(t *testing.T) {
		gen := &fakeGenerator{text: `{"food_name":"","calories":50,"protein_g":0,"carbs_g":12,"fat_g":0,"fiber_g":2}`}
		got, err := newTestLLM(gen).AnalyzeFood(ctx, "small apple")
		require.NoError(t, err)
		assert.Equal(t, "small apple", got.FoodName)
	})

	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"should fail on transport errors", &fakeGenerator{err: errors.New("status 429")}},
		{"should fail on an empty answer", &fakeGenerator{text: "  "}},
		{"should fail on malformed JSON", &fakeGenerator{text: "no idea, sorry"}},
		{"should fail on negative amounts", &fakeGenerator{text: `{"food_name":"x","calories":-5,"protein_g":0,"carbs_g":0,"fat_g":0,"fiber_g":0}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestLLM(tt.gen).AnalyzeFood(ctx, "anything")
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, IsInferenceError(err))
		})
	}
}

func TestLLMService_RecommendGoals(t *testing.T) {
	ctx := context.Background()
	profile := models.Profile{Age: 40, Gender: "male", Height: 175, Weight: 82, ActivityLevel: models.ActivityLightlyActive, FitnessGoal: models.FitnessLose}

	t.Run("should describe the profile and round the answer", func(t *testing.T) {
		gen := &fakeGenerator{text: `{"calories":2045.4,"protein_g":98.4,"carbs_g":230,"fat_g":57,"fiber_g":28.6}`}
		got, err := newTestLLM(gen).RecommendGoals(ctx, profile)
		require.NoError(t, err)

		assert.Equal(t, &models.Goals{Calories: 2045, ProteinG: 98, CarbsG: 230, FatG: 57, FiberG: 29}, got)
		assert.Contains(t, gen.prompt, "- Age: 40")
		assert.Contains(t, gen.prompt, "- Weight: 82 kg")
		assert.Contains(t, gen.prompt, "- Activity Level: lightly_active")
		assert.NotContains(t, gen.cfg.ResponseSchema.Required, "food_name")
	})

	t.Run("should reject an answer with no targets", func(t *testing.T) {
		gen := &fakeGenerator{text: `{}`}
		_, err := newTestLLM(gen).RecommendGoals(ctx, profile)
		assert.True(t, IsInferenceError(err))
	})
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("here you go: {\"a\":1} enjoy"))
	assert.Equal(t, "plain", extractJSON("plain"))
}

package assessment

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/shortlister/internal/llm"
	"github.com/jonathan/shortlister/internal/prompts"
	"github.com/jonathan/shortlister/internal/schemas"
	"github.com/jonathan/shortlister/internal/types"
)

// Classifier assesses the project level described by free text
type Classifier interface {
	ClassifyProjectLevel(ctx context.Context, projectText string) (types.ProjectLevel, error)
}

type classificationResponse struct {
	ProjectLevel string `json:"project_level"`
	Reasoning    string `json:"reasoning"`
}

// LLMClassifier classifies project descriptions with an LLM
type LLMClassifier struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMClassifier creates a classifier backed by client, using the lite model tier
func NewLLMClassifier(client llm.Client) *LLMClassifier {
	return &LLMClassifier{client: client, tier: llm.TierLite}
}

// ClassifyProjectLevel asks the LLM for Beginner, Intermediate or Advanced.
// Transport failures are returned as *ClassificationError; answers that are not
// valid JSON of the expected shape, or name another level, as *MalformedResponseError.
func (c *LLMClassifier) ClassifyProjectLevel(ctx context.Context, projectText string) (types.ProjectLevel, error) {
	if c.client == nil {
		return types.ProjectLevelUnknown, &ClassificationError{Message: "LLM client is not configured"}
	}

	prompt, err := buildClassificationPrompt(projectText)
	if err != nil {
		return types.ProjectLevelUnknown, &ClassificationError{Message: "failed to build prompt", Cause: err}
	}

	responseText, err := c.client.GenerateJSON(ctx, prompt, c.tier)
	if err != nil {
		return types.ProjectLevelUnknown, &ClassificationError{
			Message: "failed to generate content from LLM",
			Cause:   err,
		}
	}

	return parseClassificationResponse(responseText)
}

func buildClassificationPrompt(projectText string) (string, error) {
	template, err := prompts.Get("assessment.json", "classify-project-level")
	if err != nil {
		return "", err
	}
	return prompts.Format(template, map[string]string{
		"ProjectText": strings.TrimSpace(projectText),
	}), nil
}

// parseClassificationResponse validates the JSON answer and maps it onto a level.
func parseClassificationResponse(responseText string) (types.ProjectLevel, error) {
	cleaned := llm.CleanJSONBlock(responseText)

	if err := schemas.Validate(schemas.ProjectLevel, []byte(cleaned)); err != nil {
		return types.ProjectLevelUnknown, &MalformedResponseError{Response: cleaned, Cause: err}
	}

	var resp classificationResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return types.ProjectLevelUnknown, &MalformedResponseError{Response: cleaned, Cause: err}
	}

	level, ok := types.ParseProjectLevel(resp.ProjectLevel)
	if !ok {
		return types.ProjectLevelUnknown, &MalformedResponseError{Response: resp.ProjectLevel}
	}
	return level, nil
}

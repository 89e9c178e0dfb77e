package explainer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"conceptme/internal/config"
	"conceptme/internal/domain"
	"conceptme/internal/metrics"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// FunctionName is the single tool the model is forced to call.
const FunctionName = "get_explanation"

const promptTemplate = `Explain the topic or question "%[1]s" for a %[2]d-year-old reader. Write between 125 and 400 words. Keep the language simple for younger readers and allow more depth and terminology for older ones.
Also suggest 4 to 5 related questions the reader might ask next about "%[1]s".
Finally write a short assessment based on your explanation: exactly 5 questions, a one-word correct answer for each question, and exactly 3 wrong answers for each question.
Return everything by calling the %[3]s function.`

var explanationTool = llms.Tool{
	Type: "function",
	Function: &llms.FunctionDefinition{
		Name:        FunctionName,
		Description: "Return an age-appropriate explanation of the topic together with follow-up questions and a quiz.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"explanation": map[string]any{
					"type":        "string",
					"description": "The explanation of the topic written for the given age.",
				},
				"queries": map[string]any{
					"type":        "string",
					"description": `4 to 5 related follow-up questions as a JSON array of strings, e.g. ["Query 1", "Query 2", "Query 3", "Query 4"].`,
				},
				"questions": map[string]any{
					"type":        "string",
					"description": `Exactly 5 short quiz questions as a JSON array of strings, e.g. ["Question 1", "Question 2", "Question 3", "Question 4", "Question 5"].`,
				},
				"answers": map[string]any{
					"type":        "string",
					"description": `The one-word correct answer for each question, in order, as a JSON array of 5 strings.`,
				},
				"wrong_answers": map[string]any{
					"type":        "string",
					"description": `Exactly 3 wrong answers for each question, in order, as a JSON array of 5 arrays of 3 strings, e.g. [["W1", "W2", "W3"], ...].`,
				},
			},
			"required": []string{"explanation", "queries", "questions", "answers", "wrong_answers"},
		},
	},
}

// OpenAIExplainer implements domain.ExplanationGenerator with a single forced tool call.
type OpenAIExplainer struct {
	llm         llms.Model
	temperature float64
	logger      *zap.Logger
}

// NewOpenAIExplainer builds the langchaingo OpenAI client from configuration.
func NewOpenAIExplainer(cfg config.LLMConfig, httpClient *http.Client, logger *zap.Logger) (*OpenAIExplainer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(httpClient))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	logger.Info("Initializing OpenAIExplainer", zap.String("model", cfg.Model))
	return NewExplainer(llm, cfg.Temperature, logger), nil
}

// NewExplainer wraps any langchaingo model.
func NewExplainer(llm llms.Model, temperature float64, logger *zap.Logger) *OpenAIExplainer {
	return &OpenAIExplainer{llm: llm, temperature: temperature, logger: logger}
}

// BuildPrompt returns the single user message sent upstream.
func BuildPrompt(topic string, audienceAge int) string {
	return fmt.Sprintf(promptTemplate, topic, audienceAge, FunctionName)
}

// Generate makes exactly one completion call and decodes the tool arguments.
func (e *OpenAIExplainer) Generate(ctx context.Context, topic string, audienceAge int) (*domain.GeneratedExplanation, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, BuildPrompt(topic, audienceAge)),
	}

	start := time.Now()
	resp, err := e.llm.GenerateContent(ctx, messages,
		llms.WithTools([]llms.Tool{explanationTool}),
		llms.WithToolChoice("required"),
		llms.WithTemperature(e.temperature),
	)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		e.logger.Error("Completion call failed", zap.String("topic", topic), zap.Error(err))
		return nil, domain.NewUpstreamError("completion request failed", err)
	}

	args, err := functionArguments(resp)
	if err != nil {
		e.logger.Warn("Completion reply had no usable function call", zap.String("topic", topic), zap.Error(err))
		return nil, err
	}

	gen, err := ParseArguments(args)
	if err != nil {
		e.logger.Warn("Failed to decode function arguments", zap.String("topic", topic), zap.Error(err))
		return nil, err
	}
	return gen, nil
}

func functionArguments(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", domain.NewParseError("completion reply has no choices", nil)
	}
	choice := resp.Choices[0]
	for _, call := range choice.ToolCalls {
		if call.FunctionCall != nil && call.FunctionCall.Name == FunctionName {
			return call.FunctionCall.Arguments, nil
		}
	}
	if choice.FuncCall != nil && choice.FuncCall.Name == FunctionName {
		return choice.FuncCall.Arguments, nil
	}
	return "", domain.NewParseError("completion reply did not call "+FunctionName, nil)
}

type rawArguments struct {
	Explanation  json.RawMessage `json:"explanation"`
	Queries      json.RawMessage `json:"queries"`
	Questions    json.RawMessage `json:"questions"`
	Answers      json.RawMessage `json:"answers"`
	WrongAnswers json.RawMessage `json:"wrong_answers"`
}

// ParseArguments decodes the function-call arguments. Array fields may be sent
// either as JSON arrays or as strings holding a JSON array. Any missing field or
// wrong arity is a ParseError; nothing is partially recovered.
func ParseArguments(args string) (*domain.GeneratedExplanation, error) {
	var raw rawArguments
	if err := json.Unmarshal([]byte(args), &raw); err != nil {
		return nil, domain.NewParseError("function arguments are not a JSON object", err)
	}

	var explanation string
	if err := json.Unmarshal(raw.Explanation, &explanation); err != nil || strings.TrimSpace(explanation) == "" {
		return nil, parseFieldError("explanation", "must be a non-empty string", err)
	}

	var queries []string
	if err := decodeEncodedArray(raw.Queries, &queries); err != nil {
		return nil, parseFieldError("queries", "must be an array of strings", err)
	}
	if len(queries) < domain.MinFollowUpTopics || len(queries) > domain.MaxFollowUpTopics {
		return nil, parseFieldError("queries", fmt.Sprintf("must have %d-%d entries, got %d",
			domain.MinFollowUpTopics, domain.MaxFollowUpTopics, len(queries)), nil)
	}

	var questions, answers []string
	if err := decodeEncodedArray(raw.Questions, &questions); err != nil {
		return nil, parseFieldError("questions", "must be an array of strings", err)
	}
	if err := decodeEncodedArray(raw.Answers, &answers); err != nil {
		return nil, parseFieldError("answers", "must be an array of strings", err)
	}
	if len(questions) != domain.QuestionsPerQuiz {
		return nil, parseFieldError("questions", fmt.Sprintf("must have %d entries, got %d", domain.QuestionsPerQuiz, len(questions)), nil)
	}
	if len(answers) != domain.QuestionsPerQuiz {
		return nil, parseFieldError("answers", fmt.Sprintf("must have %d entries, got %d", domain.QuestionsPerQuiz, len(answers)), nil)
	}

	var wrong [][]string
	if err := decodeEncodedArray(raw.WrongAnswers, &wrong); err != nil {
		return nil, parseFieldError("wrong_answers", "must be an array of string arrays", err)
	}
	if len(wrong) != domain.QuestionsPerQuiz {
		return nil, parseFieldError("wrong_answers", fmt.Sprintf("must have %d entries, got %d", domain.QuestionsPerQuiz, len(wrong)), nil)
	}

	gen := &domain.GeneratedExplanation{
		Explanation:    explanation,
		FollowUpTopics: queries,
	}
	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		if len(wrong[i]) != domain.DecoysPerQuestion {
			return nil, parseFieldError("wrong_answers", fmt.Sprintf("entry %d must have %d answers, got %d",
				i, domain.DecoysPerQuestion, len(wrong[i])), nil)
		}
		gen.Questions[i] = questions[i]
		gen.CorrectAnswers[i] = answers[i]
		copy(gen.DecoyAnswers[i][:], wrong[i])
	}
	return gen, nil
}

var errMissingField = errors.New("field is missing")

func decodeEncodedArray(raw json.RawMessage, dest any) error {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return errMissingField
	}
	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(encoded))
	}
	if len(data) == 0 || data[0] != '[' {
		return errors.New("value is not an array")
	}
	return json.Unmarshal(data, dest)
}

func parseFieldError(field, problem string, cause error) error {
	return domain.NewParseError(fmt.Sprintf("%s %s", field, problem), cause).WithContext("field", field)
}

var _ domain.ExplanationGenerator = (*OpenAIExplainer)(nil)

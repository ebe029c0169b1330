package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/gemini"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrAssistantUnavailable = errors.New("assistant could not produce a response")

// fencedJSONBlock locates the optional ```json ... ``` block the model
// appends when it decides to update the plan.
var fencedJSONBlock = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// planUpdatePayload is the structured block embedded in chat responses and
// the whole body of JSON-mode generation responses.
type planUpdatePayload struct {
	WeekPlan []domain.DayEntry `json:"week_plan"`
}

// ChatResult is the outcome of one assistant exchange.
type ChatResult struct {
	Reply       string
	PlanUpdated bool
	Plan        *domain.WeeklyPlan // Set when PlanUpdated
}

// GeneratePlanRequest describes the plan the user asked the assistant to build.
type GeneratePlanRequest struct {
	Goal      string // e.g. "Build muscle"
	Days      int    // Training days per week, 1..7
	Level     string // e.g. "beginner", "intermediate", "advanced"
	Equipment string // e.g. "full gym", "home, dumbbells only"
}

// AssistantService is the conversational layer over a user's weekly plan.
// It talks to the generative-language API and applies plan updates the model
// embeds in its answers.
type AssistantService interface {
	// Chat answers a question about the plan. When the model embeds a valid
	// week update, the plan is replaced and the confirmation is appended to
	// the reply; a malformed block is ignored and the reply returned as-is.
	Chat(ctx context.Context, ownerID, planID primitive.ObjectID, question string) (*ChatResult, error)
	// GeneratePlan asks the model for a complete 7-day week and saves it as
	// a new plan.
	GeneratePlan(ctx context.Context, ownerID primitive.ObjectID, req GeneratePlanRequest) (*domain.WeeklyPlan, error)
}

type assistantService struct {
	planService PlanService
	generator   gemini.Generator
}

// NewAssistantService creates a new instance of assistantService.
func NewAssistantService(planService PlanService, generator gemini.Generator) AssistantService {
	return &assistantService{
		planService: planService,
		generator:   generator,
	}
}

func (s *assistantService) Chat(ctx context.Context, ownerID, planID primitive.ObjectID, question string) (*ChatResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question cannot be empty")
	}

	plan, err := s.planService.Get(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}

	prompt, err := chatPrompt(plan, question)
	if err != nil {
		return nil, err
	}

	reply, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}

	newWeek, stripped, ok := extractWeekUpdate(reply)
	if !ok {
		return &ChatResult{Reply: reply}, nil
	}

	updated, err := s.planService.ReplaceWeek(ctx, ownerID, planID, newWeek)
	if err != nil {
		// The model confirmed an update it could not deliver; losing the
		// user's edit silently is worse than surfacing the write failure.
		return nil, err
	}

	return &ChatResult{
		Reply:       stripped + "\n\nPlan updated.",
		PlanUpdated: true,
		Plan:        updated,
	}, nil
}

// extractWeekUpdate performs the two-step decode of a chat reply: (1) locate
// a fenced JSON block, (2) parse and validate it as a full week. Any failure
// falls through to "no update" with the reply untouched; a broken block must
// never reach the user as an error.
func extractWeekUpdate(reply string) (week []domain.DayEntry, stripped string, ok bool) {
	m := fencedJSONBlock.FindStringSubmatch(reply)
	if m == nil {
		return nil, reply, false
	}

	var payload planUpdatePayload
	if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
		log.Printf("WARN: ignoring malformed plan update block in chat reply: %v", err)
		return nil, reply, false
	}
	if payload.WeekPlan == nil {
		return nil, reply, false
	}
	if err := domain.ValidateWeek(payload.WeekPlan); err != nil {
		log.Printf("WARN: ignoring invalid plan update block in chat reply: %v", err)
		return nil, reply, false
	}

	stripped = strings.TrimSpace(fencedJSONBlock.ReplaceAllString(reply, ""))
	return payload.WeekPlan, stripped, true
}

func (s *assistantService) GeneratePlan(ctx context.Context, ownerID primitive.ObjectID, req GeneratePlanRequest) (*domain.WeeklyPlan, error) {
	if req.Goal == "" {
		return nil, errors.New("goal is required to generate a plan")
	}
	if req.Days < 1 || req.Days > 7 {
		return nil, errors.New("training days must be between 1 and 7")
	}

	raw, err := s.generator.GenerateJSON(ctx, generatePrompt(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}

	var payload planUpdatePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON plan: %v", ErrAssistantUnavailable, err)
	}
	if err := domain.ValidateWeek(payload.WeekPlan); err != nil {
		return nil, fmt.Errorf("%w: generated week rejected: %v", ErrAssistantUnavailable, err)
	}

	title := fmt.Sprintf("%s (%d days, %s)", req.Goal, req.Days, req.Level)
	return s.planService.CreateFromWeek(ctx, ownerID, title, payload.WeekPlan)
}

// chatPrompt builds the trainer-persona prompt around the current plan.
func chatPrompt(plan *domain.WeeklyPlan, question string) (string, error) {
	planJSON, err := json.Marshal(plan.Days)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are the fitness trainer who created this plan.

THE PLAN (JSON):
%s

PLAN GOAL: %s

USER QUESTION: %q

INSTRUCTIONS:
1. Answer ONLY what the user asked.
2. Be extremely concise (1-2 sentences) unless asked for a detailed explanation.
3. Do not summarize the plan or offer unrequested advice.

PLAN UPDATES:
If the user explicitly asks to CHANGE, UPDATE, or MODIFY the plan (e.g., "Add Bench Press to Monday", "Make it 4 days"), you MUST:
1. Reply with a short confirmation message.
2. AND include a STRICT JSON block at the end of your response with the FULL updated "week_plan" array covering all 7 days in order monday..sunday.

JSON FORMAT FOR UPDATES:
`+"```json"+`
{
  "week_plan": [ ...full updated plan arrays... ]
}
`+"```"+`
`, planJSON, plan.Title, question), nil
}

// generatePrompt builds the JSON-mode prompt for a brand new weekly plan.
func generatePrompt(req GeneratePlanRequest) string {
	return fmt.Sprintf(`Act as a professional fitness trainer. Create a %d-day weekly workout plan for a %s level user who wants to %q.
Equipment available: %s.

IMPORTANT: Return the response in STRICT JSON format only.
Do not use Markdown code blocks.
Do not include any text outside the JSON object.
Follow this strict schema:
{
  "week_plan": [
    {
      "day": "monday",
      "label": "Monday",
      "focus": "Target Muscle Group",
      "exercises": [
        {
          "name": "Exercise Name",
          "sets": 3,
          "reps": "10-12",
          "rest_sec": 60,
          "notes": "Brief tip"
        }
      ]
    }
  ]
}
Ensure the JSON is valid. Generate a plan for all 7 days in order monday..sunday (use focus "Rest" and an empty exercises array for rest days).`,
		req.Days, req.Level, req.Goal, req.Equipment)
}

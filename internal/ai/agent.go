package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// RouteBriefing is the structured end-of-day summary the assistant produces
// for one route's reconciliation state.
type RouteBriefing struct {
	Summary             string   `json:"summary" jsonschema_description:"Two or three sentences summarizing how the route went: what was delivered, what was collected, what remains open."`
	OutstandingLenses   []string `json:"outstanding_lenses" jsonschema_description:"One line per lens order still PENDING or NOT_DELIVERED, naming its folio and current status."`
	OutstandingPayments []string `json:"outstanding_payments" jsonschema_description:"One line per payment still PENDING, naming its folio and amount."`
	SuggestedFollowups  []string `json:"suggested_followups" jsonschema_description:"Concrete next actions for the advisor, e.g. rescheduling an undelivered lens order."`
	Confidence          float64  `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
}

// AgentService is the interface the application layer consumes.
type AgentService interface {
	BriefRoute(ctx context.Context, question, routeContext string) (*RouteBriefing, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// BriefRoute answers a question about one route using only the supplied
// reconciliation state, returning a structured briefing.
func (a *Agent) BriefRoute(ctx context.Context, question, routeContext string) (*RouteBriefing, error) {
	prompt := fmt.Sprintf(`You are a dispatch assistant for an optical-goods retailer.
Your goal is to brief a delivery advisor on the state of one route.
Rules:
1. Use ONLY the route data provided below. Do not invent folios, amounts or statuses.
2. A lens order counts as outstanding while its status is PENDING or NOT_DELIVERED.
3. A payment counts as outstanding while its status is PENDING.
4. Keep the summary factual; put advice into suggested_followups.
5. Provide a confidence score (0.0-1.0).

Route data:
%s

Question: %s`, routeContext, question)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "route_briefing",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A structured briefing on one delivery route's reconciliation state"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var briefing RouteBriefing
	if err := json.Unmarshal([]byte(content), &briefing); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	return &briefing, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v RouteBriefing
	return reflector.Reflect(v)
}

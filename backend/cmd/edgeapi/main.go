// Command edgeapi is the origin API behind the web distribution. It manages
// the redirect rules that edge functions consult and authorizes API callers
// via an API Gateway TOKEN authorizer in LWA pass-through mode.
package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/advdv/bhttp"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/skyfronthq/sfapp/backend/internal/rules"
	"github.com/skyfronthq/sfapp/sflwa"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type environment struct {
	sflwa.BaseEnvironment
	RulesTable string `env:"SF_RULES_TABLE,required"`
	APIToken   string `env:"SF_API_TOKEN,required"`
}

type handlers struct {
	store *rules.Store
}

// newHandlers wires the rule store to the primary region DynamoDB client.
// Rules are written through the primary region; the global table replicates
// them to every other one.
func newHandlers(rt *sflwa.Runtime[environment], dynamo *sflwa.Primary[dynamodb.Client]) *handlers {
	return &handlers{store: rules.NewStore(dynamo.Client, rt.Env().RulesTable)}
}

func main() {
	newApp().Run()
}

func newApp() *sflwa.App {
	return sflwa.NewApp[environment](
		func(m *sflwa.Mux, h *handlers) {
			m.HandleFunc("GET /api/rules", h.list)
			m.HandleFunc("PUT /api/rules", h.put)
			m.HandleFunc("DELETE /api/rules", h.del)
			m.HandleFunc("POST /l/authorize", h.authorize)
		},
		sflwa.WithAWSClient(func(cfg aws.Config) *sflwa.Primary[dynamodb.Client] {
			return sflwa.NewPrimary(dynamodb.NewFromConfig(cfg))
		}, sflwa.ForPrimaryRegion()),
		sflwa.WithFx(fx.Provide(newHandlers)),
	)
}

func (h *handlers) list(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	host := r.URL.Query().Get("host")
	if host == "" {
		http.Error(w, "missing host query parameter", http.StatusBadRequest)
		return nil
	}

	result, err := h.store.ListByHost(ctx, host)
	if err != nil {
		sflwa.Log(ctx).Error("listing rules", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(result)
}

func (h *handlers) put(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	var rule rules.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, "invalid rule body", http.StatusBadRequest)
		return nil
	}

	if err := rule.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return nil
	}

	if err := h.store.Put(ctx, rule); err != nil {
		sflwa.Log(ctx).Error("storing rule", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *handlers) del(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	host, path := r.URL.Query().Get("host"), r.URL.Query().Get("path")
	if host == "" || path == "" {
		http.Error(w, "missing host or path query parameter", http.StatusBadRequest)
		return nil
	}

	if err := h.store.Delete(ctx, host, path); err != nil {
		sflwa.Log(ctx).Error("deleting rule", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// authorize handles the API Gateway TOKEN authorizer event. LWA pass-through
// POSTs the raw event JSON as the request body and returns the response
// body to Lambda without HTTP wrapping.
func (h *handlers) authorize(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	log := sflwa.Log(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "error reading body", http.StatusBadRequest)
		return nil
	}

	var req events.APIGatewayCustomAuthorizerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Warn("invalid authorizer event", zap.Error(err))
		http.Error(w, "invalid request", http.StatusBadRequest)
		return nil
	}

	effect := "Deny"
	token := sflwa.Env[environment](ctx).APIToken
	if subtle.ConstantTimeCompare([]byte(req.AuthorizationToken), []byte("Bearer "+token)) == 1 {
		effect = "Allow"
	} else {
		log.Warn("rejected caller", zap.String("method_arn", req.MethodArn))
	}

	resp := events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: "api-caller",
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   effect,
					Resource: []string{req.MethodArn},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

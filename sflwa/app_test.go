package sflwa_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/advdv/bhttp"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/skyfronthq/sfapp/sflwa"
)

type appEnv struct {
	sflwa.BaseEnvironment
}

func setAppEnv(t *testing.T, port string) {
	t.Helper()
	t.Setenv("AWS_LWA_PORT", port)
	t.Setenv("AWS_LWA_READINESS_CHECK_PATH", "/health")
	t.Setenv("SF_SERVICE_NAME", "app-test")
	t.Setenv("SF_PRIMARY_REGION", "eu-central-1")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("OTEL_SDK_DISABLED", "true")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
}

func TestAWSClient_DefaultTargetsLocalRegion(t *testing.T) {
	factory := sflwa.RegisterAWSClient(func(cfg aws.Config) *dynamodb.Client {
		return dynamodb.NewFromConfig(cfg)
	})

	if factory.Region == nil {
		t.Fatal("expected Region to be set (LocalRegion by default)")
	}
}

func TestAWSClient_ForPrimaryRegion(t *testing.T) {
	factory := sflwa.RegisterAWSClient(func(cfg aws.Config) *sflwa.Primary[dynamodb.Client] {
		return sflwa.NewPrimary(dynamodb.NewFromConfig(cfg))
	}, sflwa.ForPrimaryRegion())

	if factory.Region == nil {
		t.Fatal("expected Region to be set")
	}
}

func TestApp_VerifiesRegionInClientConfig(t *testing.T) {
	setAppEnv(t, "18091")

	var capturedLocalRegion, capturedPrimaryRegion string

	app := sflwa.NewApp[appEnv](
		func(m *sflwa.Mux) {
			m.HandleFunc("GET /test", func(_ context.Context, w bhttp.ResponseWriter, _ *http.Request) error {
				w.WriteHeader(http.StatusOK)
				return nil
			})
		},
		sflwa.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
			capturedLocalRegion = cfg.Region
			return dynamodb.NewFromConfig(cfg)
		}),
		sflwa.WithAWSClient(func(cfg aws.Config) *sflwa.Primary[dynamodb.Client] {
			capturedPrimaryRegion = cfg.Region
			return sflwa.NewPrimary(dynamodb.NewFromConfig(cfg))
		}, sflwa.ForPrimaryRegion()),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		t.Fatalf("app.Start error: %v", err)
	}
	defer app.Stop(ctx)

	if capturedLocalRegion != "eu-west-1" {
		t.Errorf("local client region = %q, want %q", capturedLocalRegion, "eu-west-1")
	}
	if capturedPrimaryRegion != "eu-central-1" {
		t.Errorf("primary client region = %q, want %q", capturedPrimaryRegion, "eu-central-1")
	}
}

func TestApp_ServesReadinessAndRoutes(t *testing.T) {
	setAppEnv(t, "18092")

	app := sflwa.NewApp[appEnv](
		func(m *sflwa.Mux) {
			m.HandleFunc("GET /test", func(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
				if sflwa.Log(r.Context()) == nil {
					t.Error("Log should be available in handlers")
				}
				if got := sflwa.Env[appEnv](r.Context()).PrimaryRegion; got != "eu-central-1" {
					t.Errorf("Env PrimaryRegion = %q", got)
				}
				w.WriteHeader(http.StatusNoContent)
				return nil
			})
		},
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		t.Fatalf("app.Start error: %v", err)
	}
	defer app.Stop(ctx)

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get("http://localhost:18092/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("readiness status = %d, want 200", resp.StatusCode)
	}

	resp, err = client.Get("http://localhost:18092/test")
	if err != nil {
		t.Fatalf("GET /test failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("route status = %d, want 204", resp.StatusCode)
	}
}

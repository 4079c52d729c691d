package sfcdkutil_test

import (
	"testing"

	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

func TestRegionalSubdomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		deployment string
		region     string
		sub        string
		want       string
	}{
		{"Stag", "eu-west-1", "api", "stag-euw1-api"},
		{"prod", "us-east-1", "api", "prod-use1-api"},
		{"dev", "eu-central-1", "web", "dev-euc1-web"},
	}
	for _, tt := range tests {
		got := sfcdkutil.RegionalSubdomain(tt.deployment, tt.region, tt.sub)
		if got != tt.want {
			t.Errorf("RegionalSubdomain(%q, %q, %q) = %q, want %q",
				tt.deployment, tt.region, tt.sub, got, tt.want)
		}
	}
}

func TestGlobalSubdomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		deployment string
		sub        string
		want       string
	}{
		{"Stag", "api", "stag-api"},
		{"prod", "web", "prod-web"},
	}
	for _, tt := range tests {
		got := sfcdkutil.GlobalSubdomain(tt.deployment, tt.sub)
		if got != tt.want {
			t.Errorf("GlobalSubdomain(%q, %q) = %q, want %q",
				tt.deployment, tt.sub, got, tt.want)
		}
	}
}
